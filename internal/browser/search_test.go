package browser

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/spotmp3/internal/models"
	"github.com/desertthunder/spotmp3/internal/shared"
	tu "github.com/desertthunder/spotmp3/internal/testing"
)

func searchCatalog() *tu.MockCatalog {
	catalog := tu.NewMockCatalog()
	catalog.FoundTracks = tu.Tracks(25)
	catalog.FoundPlaylists = []models.PlaylistSummary{
		{ID: "p1", Name: "Road Trip", TrackCount: 12},
		{ID: "p2", Name: "Focus", TrackCount: 40},
	}
	catalog.Tracks["t9"] = models.TrackSummary{ID: "t9", Title: "Direct", Artists: []string{"Someone"}}
	catalog.Playlists["p9"] = models.PlaylistSummary{ID: "p9", Name: "Direct List", TrackCount: 3}
	catalog.Artists["a9"] = models.ArtistSummary{ID: "a9", Name: "Band"}
	return catalog
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("search text loads both lists", func(t *testing.T) {
		catalog := searchCatalog()
		search := NewSearch(catalog, 10)

		ref, err := search.Submit(ctx, "  road trip  ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ref.Kind != models.KindSearchTerm || ref.Value != "road trip" {
			t.Errorf("unexpected reference %+v", ref)
		}
		if n := len(search.Tracks.Items()); n != 10 {
			t.Errorf("expected 10 tracks, got %d", n)
		}
		if total := search.Tracks.State().Total; total != 25 {
			t.Errorf("expected total 25, got %d", total)
		}
		if n := len(search.Playlists.Items()); n != 2 {
			t.Errorf("expected 2 playlists, got %d", n)
		}
	})

	t.Run("empty input rejected", func(t *testing.T) {
		search := NewSearch(searchCatalog(), 10)
		if _, err := search.Submit(ctx, "   "); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("direct items short-circuit search", func(t *testing.T) {
		tc := []struct {
			name      string
			input     string
			kind      models.Kind
			tracks    int
			playlists int
			notice    string
		}{
			{name: "track uri", input: "spotify:track:t9", kind: models.KindTrack, tracks: 1},
			{name: "playlist link", input: "https://open.spotify.com/playlist/p9?si=x", kind: models.KindPlaylist, playlists: 1},
			{name: "artist link", input: "https://open.spotify.com/artist/a9", kind: models.KindArtist, notice: "Artist: Band"},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				catalog := searchCatalog()
				search := NewSearch(catalog, 10)

				// Populate first so clearing is observable.
				if _, err := search.Submit(ctx, "road trip"); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}

				ref, err := search.Submit(ctx, tt.input)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if ref.Kind != tt.kind {
					t.Errorf("expected kind %s, got %s", tt.kind, ref.Kind)
				}
				if n := len(search.Tracks.Items()); n != tt.tracks {
					t.Errorf("expected %d tracks, got %d", tt.tracks, n)
				}
				if n := len(search.Playlists.Items()); n != tt.playlists {
					t.Errorf("expected %d playlists, got %d", tt.playlists, n)
				}
				if got := search.Tracks.Notice(); got != tt.notice {
					t.Errorf("expected notice %q, got %q", tt.notice, got)
				}
				if catalog.CallCount("SearchTracks") != 1 {
					t.Errorf("direct input should not search, calls: %v", catalog.Calls())
				}
				if search.Reference() != ref {
					t.Errorf("expected stored reference %+v, got %+v", ref, search.Reference())
				}
			})
		}
	})

	t.Run("single track has total one", func(t *testing.T) {
		search := NewSearch(searchCatalog(), 10)
		if _, err := search.Submit(ctx, "spotify:track:t9"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if state := search.Tracks.State(); state.Total != 1 || state.HasNext() {
			t.Errorf("unexpected state %+v", state)
		}
		if track, err := search.Tracks.Select(0); err != nil || track.ID != "t9" {
			t.Errorf("Select(0) = %+v, %v", track, err)
		}
	})

	t.Run("artist is remembered", func(t *testing.T) {
		search := NewSearch(searchCatalog(), 10)
		if _, err := search.Submit(ctx, "spotify:artist:a9"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if artist, ok := search.Artist(); !ok || artist.Name != "Band" {
			t.Errorf("Artist() = %+v, %v", artist, ok)
		}

		if _, err := search.Submit(ctx, "anything"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := search.Artist(); ok {
			t.Error("expected artist cleared after a search")
		}
	})

	t.Run("failures are joined and keep the previous reference", func(t *testing.T) {
		catalog := searchCatalog()
		search := NewSearch(catalog, 10)
		if _, err := search.Submit(ctx, "first"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		catalog.ErrOn["SearchTracks"] = errors.New("tracks down")
		catalog.ErrOn["SearchPlaylists"] = errors.New("playlists down")

		_, err := search.Submit(ctx, "second")
		if !errors.Is(err, shared.ErrQueryFailure) {
			t.Errorf("expected ErrQueryFailure, got %v", err)
		}
		if search.Reference().Value != "first" {
			t.Errorf("expected reference to stay on first, got %q", search.Reference().Value)
		}
		if search.Tracks.Query() != "first" {
			t.Errorf("expected tracks to keep the first query, got %q", search.Tracks.Query())
		}
	})

	t.Run("one failing list leaves both lists on the previous query", func(t *testing.T) {
		catalog := searchCatalog()
		search := NewSearch(catalog, 10)
		if _, err := search.Submit(ctx, "first"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		before := search.Tracks.Items()

		catalog.ErrOn["SearchPlaylists"] = errors.New("playlists down")

		if _, err := search.Submit(ctx, "second"); !errors.Is(err, shared.ErrQueryFailure) {
			t.Errorf("expected ErrQueryFailure, got %v", err)
		}
		if search.Tracks.Query() != "first" || search.Playlists.Query() != "first" {
			t.Errorf("expected both lists on first, got %q and %q", search.Tracks.Query(), search.Playlists.Query())
		}
		if len(search.Tracks.Items()) != len(before) {
			t.Errorf("expected tracks unchanged, got %d items", len(search.Tracks.Items()))
		}
		if search.Reference().Value != "first" {
			t.Errorf("expected reference to stay on first, got %q", search.Reference().Value)
		}
	})

	t.Run("unknown direct track fails", func(t *testing.T) {
		search := NewSearch(searchCatalog(), 10)
		if _, err := search.Submit(ctx, "spotify:track:missing"); !errors.Is(err, shared.ErrQueryFailure) {
			t.Errorf("expected ErrQueryFailure, got %v", err)
		}
	})
}
