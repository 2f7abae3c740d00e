// Package resolver turns free-form user input into typed catalog references.
//
// Input may be a canonical URI (spotify:track:abc123), a web link
// (https://open.spotify.com/playlist/xyz789?si=foo) or plain search text.
//
// Without a hint, kinds are tried in a fixed order: track, playlist, artist.
// The first kind whose extraction changes the input wins, and anything left over
// is a search term. Input that is a valid id for several kinds is not
// disambiguated beyond that order.
package resolver

import (
	"strings"

	"github.com/desertthunder/spotmp3/internal/models"
)

const (
	uriScheme  = "spotify"
	webHost    = "open.spotify.com"
	userMarker = "open.spotify.com/user/"
)

// precedence is the inference order used when no hint is given.
var precedence = []models.Kind{models.KindTrack, models.KindPlaylist, models.KindArtist}

// ParseID extracts the identifier for kind from a canonical URI or web link.
//
// Input that matches neither form is returned trimmed but otherwise unchanged.
func ParseID(input string, kind models.Kind) string {
	input = strings.TrimSpace(input)
	want := kind.String()

	if strings.HasPrefix(input, uriScheme+":") {
		if parts := strings.Split(input, ":"); len(parts) == 3 && parts[1] == want && parts[2] != "" {
			return parts[2]
		}
	}

	if strings.Contains(input, webHost) {
		parts := strings.Split(input, "/")
		for i, part := range parts {
			if part != want || i+1 >= len(parts) {
				continue
			}
			if id, _, _ := strings.Cut(parts[i+1], "?"); id != "" {
				return id
			}
		}
	}

	return input
}

// Resolve classifies input as a track, playlist, artist or search term.
//
// A non-nil hint restricts extraction to that kind.
func Resolve(input string, hint *models.Kind) models.ItemReference {
	trimmed := strings.TrimSpace(input)

	kinds := precedence
	if hint != nil {
		kinds = []models.Kind{*hint}
	}

	for _, kind := range kinds {
		if kind == models.KindSearchTerm {
			break
		}
		if id := ParseID(trimmed, kind); id != trimmed {
			return models.ItemReference{Kind: kind, Value: id}
		}
	}

	return models.ItemReference{Kind: models.KindSearchTerm, Value: trimmed}
}

// Hint returns a pointer to kind for use with [Resolve].
func Hint(kind models.Kind) *models.Kind {
	return &kind
}

// ParseUserID extracts an account id from a profile link. Other input is returned trimmed.
func ParseUserID(input string) string {
	input = strings.TrimSpace(input)
	if !strings.Contains(input, userMarker) {
		return input
	}

	parts := strings.Split(input, "/user/")
	id, _, _ := strings.Cut(parts[len(parts)-1], "?")
	return strings.TrimSuffix(id, "/")
}

// IsDirect reports whether input looks like a catalog link or URI rather than search text.
func IsDirect(input string) bool {
	lower := strings.ToLower(strings.TrimSpace(input))
	return strings.Contains(lower, "spotify.com") || strings.HasPrefix(lower, uriScheme+":")
}

// IsPlaylistLookup reports whether account input names a playlist instead of an account.
func IsPlaylistLookup(input string) bool {
	return strings.Contains(strings.ToLower(input), "playlist")
}
