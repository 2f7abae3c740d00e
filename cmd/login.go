package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotmp3/internal/server"
	"github.com/desertthunder/spotmp3/internal/services"
	"github.com/desertthunder/spotmp3/internal/shared"
)

// loginTimeout bounds how long the callback server waits for consent.
const loginTimeout = 2 * time.Minute

// Login authenticates with Spotify and reports the account.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	session, err := r.login(ctx)
	if err != nil {
		return err
	}
	r.sessions.Set(session)

	r.writePlainln("%s Logged in as %s (%s)", r.styler.OK("✓"), session.Account.DisplayName, session.Account.ID)
	return nil
}

// doOAuth performs the OAuth2 authorization code flow.
//
// Starts the callback server, opens the consent page and waits for the redirect.
func (r *Runner) doOAuth(ctx context.Context) (*services.Session, error) {
	creds := r.config.Credentials.Spotify
	if !creds.Valid() {
		return nil, fmt.Errorf("%w: login needs credentials.spotify in config.toml", shared.ErrMissingCredentials)
	}

	auth, err := services.NewAuthenticator(creds, services.WithCatalogLogger(r.logger))
	if err != nil {
		return nil, err
	}

	state := shared.GenerateState()
	handler := server.NewOAuthHandler(auth.Exchange, state)
	router := server.NewCallbackRouter(handler, r.logger)
	authURL := auth.AuthURL(state)

	r.logger.Info("starting OAuth callback server", "addr", r.config.Server.Addr())
	token, err := server.AwaitCallback(ctx, r.config.Server.Addr(), router, handler, loginTimeout, func(addr string) {
		r.writePlainln("Opening browser for Spotify authorization...")
		if err := shared.OpenBrowser(authURL); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
			r.writePlain("Please open this URL in your browser:\n%s\n", authURL)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}

	return auth.Session(ctx, token)
}
