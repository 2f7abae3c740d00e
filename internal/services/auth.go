package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/spotmp3/internal/shared"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Scopes requested at login: saved tracks and private playlists.
var Scopes = []string{spotifyauth.ScopeUserLibraryRead, spotifyauth.ScopePlaylistReadPrivate}

// NewPublicCatalog returns a catalog authorized with the client credentials flow.
//
// The token is fetched lazily on the first request and refreshed automatically.
func NewPublicCatalog(ctx context.Context, creds shared.SpotifyConfig, opts ...CatalogOption) (*SpotifyCatalog, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	o := newCatalogOptions(opts)
	tokenURL := o.tokenURL
	if tokenURL == "" {
		tokenURL = spotifyauth.TokenURL
	}

	cfg := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     tokenURL,
	}
	return NewSpotifyCatalog(cfg.Client(ctx), opts...), nil
}

// Authenticator drives the authorization code flow for user sessions.
type Authenticator struct {
	auth *spotifyauth.Authenticator
	opts []CatalogOption
}

// NewAuthenticator builds an authenticator for the configured application.
//
// Catalog options are applied to the catalogs of sessions it creates.
func NewAuthenticator(creds shared.SpotifyConfig, opts ...CatalogOption) (*Authenticator, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret are required", shared.ErrMissingCredentials)
	}
	if creds.RedirectURI == "" {
		return nil, fmt.Errorf("%w: spotify redirect_uri is required for login", shared.ErrInvalidConfig)
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(creds.ClientID),
		spotifyauth.WithClientSecret(creds.ClientSecret),
		spotifyauth.WithRedirectURL(creds.RedirectURI),
		spotifyauth.WithScopes(Scopes...),
	)
	return &Authenticator{auth: auth, opts: opts}, nil
}

// AuthURL returns the consent page URL carrying state.
func (a *Authenticator) AuthURL(state string) string {
	return a.auth.AuthURL(state)
}

// Exchange trades an authorization code for a token.
func (a *Authenticator) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := a.auth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: token exchange: %w", shared.ErrAuthFailed, err)
	}
	return token, nil
}

// Session resolves the account behind token and returns a session bound to it.
func (a *Authenticator) Session(ctx context.Context, token *oauth2.Token) (*Session, error) {
	return NewSession(ctx, a.auth.Client(ctx, token), a.opts...)
}

// NewSession builds a session from an http client that already carries a user token.
func NewSession(ctx context.Context, httpClient *http.Client, opts ...CatalogOption) (*Session, error) {
	catalog := NewSpotifyCatalog(httpClient, opts...)

	account, err := catalog.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}
	return &Session{Account: *account, Catalog: catalog}, nil
}
