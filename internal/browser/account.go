package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/spotmp3/internal/models"
	"github.com/desertthunder/spotmp3/internal/resolver"
	"github.com/desertthunder/spotmp3/internal/services"
	"github.com/desertthunder/spotmp3/internal/shared"
)

// Placeholder messages shown in the liked-songs list.
const (
	NoticeLoginRequired   = "Please log in to load liked songs."
	NoticeAccountMismatch = "Liked songs only available for the logged-in account."
)

// Account owns the account-playlists and liked-songs lists.
type Account struct {
	Playlists *List[models.PlaylistSummary]
	Liked     *List[models.TrackSummary]

	public    services.Catalog
	sessions  *services.SessionStore
	accountID string
	lookup    *models.PlaylistSummary
}

// NewAccount binds the lists to the public catalog and, when the session owns the account, its catalog.
func NewAccount(public services.Catalog, sessions *services.SessionStore, limit int) *Account {
	a := &Account{public: public, sessions: sessions}
	a.Playlists = NewList("account playlists", limit, a.fetchPlaylists)
	a.Liked = NewList("liked songs", limit, a.fetchLiked)
	return a
}

// catalogFor returns the session catalog when the session belongs to accountID, else the public one.
func (a *Account) catalogFor(accountID string) services.Catalog {
	if session, ok := a.sessions.Owns(accountID); ok {
		return session.Catalog
	}
	return a.public
}

func (a *Account) fetchPlaylists(ctx context.Context, accountID string, offset, limit int) (*models.Page[models.PlaylistSummary], error) {
	return a.catalogFor(accountID).UserPlaylists(ctx, accountID, offset, limit)
}

func (a *Account) fetchLiked(ctx context.Context, accountID string, offset, limit int) (*models.Page[models.TrackSummary], error) {
	session, ok := a.sessions.Owns(accountID)
	if !ok {
		return nil, fmt.Errorf("%w: liked songs need a session for %q", shared.ErrAuthRequired, accountID)
	}
	return session.Catalog.LikedTracks(ctx, offset, limit)
}

// Submit loads an account or, when input names a playlist, switches to playlist lookup mode.
//
// Lookup mode shows the single playlist, clears liked songs and forgets the account id.
func (a *Account) Submit(ctx context.Context, input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("%w: enter a user id, profile link or playlist link", shared.ErrInvalidInput)
	}

	if resolver.IsPlaylistLookup(input) {
		id := resolver.ParseID(input, models.KindPlaylist)
		playlist, err := a.public.Playlist(ctx, id)
		if err != nil {
			return err
		}

		a.lookup = playlist
		a.accountID = ""
		a.Playlists.Single(*playlist)
		a.Liked.Clear()
		return nil
	}

	accountID := resolver.ParseUserID(input)
	if err := a.Playlists.Load(ctx, accountID); err != nil {
		return err
	}

	a.lookup = nil
	a.accountID = accountID
	return a.LoadLiked(ctx)
}

// likedGate reports the placeholder to show instead of liked songs, if any.
func (a *Account) likedGate() string {
	session, ok := a.sessions.Current()
	switch {
	case !ok:
		return NoticeLoginRequired
	case a.accountID == "" || session.Account.ID != a.accountID:
		return NoticeAccountMismatch
	default:
		return ""
	}
}

// LoadLiked loads the first page of liked songs, or a placeholder when the session does not own the account.
func (a *Account) LoadLiked(ctx context.Context) error {
	if notice := a.likedGate(); notice != "" {
		a.Liked.Placeholder(notice)
		return nil
	}
	return a.Liked.Load(ctx, a.accountID)
}

// LikedNext advances liked songs, re-checking the session first.
func (a *Account) LikedNext(ctx context.Context) (bool, error) {
	if notice := a.likedGate(); notice != "" {
		a.Liked.Placeholder(notice)
		return false, nil
	}
	return a.Liked.Next(ctx)
}

// LikedPrev steps liked songs back, re-checking the session first.
func (a *Account) LikedPrev(ctx context.Context) (bool, error) {
	if notice := a.likedGate(); notice != "" {
		a.Liked.Placeholder(notice)
		return false, nil
	}
	return a.Liked.Prev(ctx)
}

// LikedGoto jumps liked songs to the 1-based page, re-checking the session first.
func (a *Account) LikedGoto(ctx context.Context, page int) error {
	if notice := a.likedGate(); notice != "" {
		a.Liked.Placeholder(notice)
		return nil
	}
	return a.Liked.Goto(ctx, page)
}

// AccountID returns the account being browsed, empty in playlist lookup mode.
func (a *Account) AccountID() string {
	return a.accountID
}

// Lookup returns the playlist shown in playlist lookup mode.
func (a *Account) Lookup() (*models.PlaylistSummary, bool) {
	return a.lookup, a.lookup != nil
}
