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

// Search owns the search-tracks and search-playlists lists.
type Search struct {
	Tracks    *List[models.TrackSummary]
	Playlists *List[models.PlaylistSummary]

	catalog services.Catalog
	ref     models.ItemReference
	artist  *models.ArtistSummary
}

// NewSearch binds both lists to catalog's search endpoints.
func NewSearch(catalog services.Catalog, limit int) *Search {
	return &Search{
		Tracks:    NewList("tracks", limit, catalog.SearchTracks),
		Playlists: NewList("playlists", limit, catalog.SearchPlaylists),
		catalog:   catalog,
	}
}

// Submit resolves input and fills the lists.
//
// A direct track, playlist or artist shows that single item and clears the other list.
// Search text loads the first page of both lists; failures from either are joined.
func (s *Search) Submit(ctx context.Context, input string) (models.ItemReference, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return models.ItemReference{}, fmt.Errorf("%w: enter a search term, link or URI", shared.ErrInvalidInput)
	}

	ref := models.ItemReference{Kind: models.KindSearchTerm, Value: input}
	if resolver.IsDirect(input) {
		ref = resolver.Resolve(input, nil)
	}

	switch ref.Kind {
	case models.KindTrack:
		track, err := s.catalog.Track(ctx, ref.Value)
		if err != nil {
			return ref, err
		}
		s.Tracks.Single(*track)
		s.Playlists.Clear()
		s.artist = nil
	case models.KindPlaylist:
		playlist, err := s.catalog.Playlist(ctx, ref.Value)
		if err != nil {
			return ref, err
		}
		s.Playlists.Single(*playlist)
		s.Tracks.Clear()
		s.artist = nil
	case models.KindArtist:
		artist, err := s.catalog.Artist(ctx, ref.Value)
		if err != nil {
			return ref, err
		}
		s.artist = artist
		s.Tracks.Placeholder("Artist: " + artist.Name)
		s.Playlists.Clear()
	default:
		if err := loadBoth(ctx, s.Tracks, s.Playlists, ref.Value); err != nil {
			return ref, err
		}
		s.artist = nil
	}

	s.ref = ref
	return ref, nil
}

// Reference returns the last successfully submitted reference.
func (s *Search) Reference() models.ItemReference {
	return s.ref
}

// Artist returns the artist shown for a direct artist submission.
func (s *Search) Artist() (*models.ArtistSummary, bool) {
	return s.artist, s.artist != nil
}
