// package services defines the catalog and audio collaborators used by the browser and converter
//
// Spotify (via zmb3/spotify), yt-dlp (via go-ytdlp), ID3 tags (via id3v2)
package services

import (
	"context"

	"github.com/desertthunder/spotmp3/internal/models"
)

// Catalog is the query surface of the music catalog service.
//
// Paged methods take an offset and limit and return the total available so callers can page.
type Catalog interface {
	// SearchTracks searches tracks matching query.
	SearchTracks(ctx context.Context, query string, offset, limit int) (*models.Page[models.TrackSummary], error)

	// SearchPlaylists searches playlists matching query.
	SearchPlaylists(ctx context.Context, query string, offset, limit int) (*models.Page[models.PlaylistSummary], error)

	// Track fetches a single track by id.
	Track(ctx context.Context, id string) (*models.TrackSummary, error)

	// Playlist fetches playlist metadata by id.
	Playlist(ctx context.Context, id string) (*models.PlaylistSummary, error)

	// Artist fetches a single artist by id.
	Artist(ctx context.Context, id string) (*models.ArtistSummary, error)

	// PlaylistItems lists one page of a playlist's entries. Entries whose track is gone have a nil Track.
	PlaylistItems(ctx context.Context, id string, offset, limit int) (*models.EntryPage, error)

	// UserPlaylists lists the playlists of an account.
	UserPlaylists(ctx context.Context, userID string, offset, limit int) (*models.Page[models.PlaylistSummary], error)

	// LikedTracks lists the saved tracks of the authenticated account.
	LikedTracks(ctx context.Context, offset, limit int) (*models.Page[models.TrackSummary], error)

	// CurrentUser returns the authenticated account.
	CurrentUser(ctx context.Context) (*models.Account, error)
}

// Acquirer locates audio for a track and writes one file into dir.
//
// It returns the path of the written file.
type Acquirer interface {
	Fetch(ctx context.Context, title, artist, dir string) (string, error)
}

// Tagger writes track metadata into a downloaded audio file.
type Tagger interface {
	Tag(path string, track models.TrackSummary, album string) error
}
