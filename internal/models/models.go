package models

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies what an [ItemReference] points at.
type Kind int

const (
	KindSearchTerm Kind = iota
	KindTrack
	KindPlaylist
	KindArtist
)

func (k Kind) String() string {
	switch k {
	case KindTrack:
		return "track"
	case KindPlaylist:
		return "playlist"
	case KindArtist:
		return "artist"
	default:
		return "search"
	}
}

// ParseKind maps the lower-case name produced by [Kind.String] back to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "track":
		return KindTrack, nil
	case "playlist":
		return KindPlaylist, nil
	case "artist":
		return KindArtist, nil
	case "search", "":
		return KindSearchTerm, nil
	default:
		return KindSearchTerm, fmt.Errorf("unknown kind %q", s)
	}
}

// ItemReference is a resolved user submission.
//
// Value holds the catalog id for Track, Playlist and Artist, and the raw query text for SearchTerm.
type ItemReference struct {
	Kind  Kind
	Value string
}

// IsDirect reports whether the reference names a single catalog item.
func (r ItemReference) IsDirect() bool {
	return r.Kind != KindSearchTerm
}

func (r ItemReference) String() string {
	if r.Kind == KindSearchTerm {
		return r.Value
	}
	return fmt.Sprintf("spotify:%s:%s", r.Kind, r.Value)
}

// TrackSummary is the read-only projection of a remote track.
type TrackSummary struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Artists []string `json:"artists"`
	Album   string   `json:"album,omitempty"`
}

// ArtistNames joins the artists in credit order with ", ".
func (t TrackSummary) ArtistNames() string {
	return strings.Join(t.Artists, ", ")
}

// Label renders "Title - Artists" for display and file naming.
func (t TrackSummary) Label() string {
	if len(t.Artists) == 0 {
		return t.Title
	}
	return t.Title + " - " + t.ArtistNames()
}

// PlaylistSummary is the read-only projection of a remote playlist.
type PlaylistSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Owner      string `json:"owner,omitempty"`
	TrackCount int    `json:"track_count"`
}

// ArtistSummary is the read-only projection of a remote artist.
type ArtistSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Account is the identity behind an authenticated session.
type Account struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Page is one slice of a listing with the total number of items available.
type Page[T any] struct {
	Items []T
	Total int
}

// PlaylistEntry is one item of a playlist. Track is nil when the item was removed or is unavailable.
type PlaylistEntry struct {
	Track *TrackSummary
}

// EntryPage is one slice of a playlist's items.
type EntryPage struct {
	Items   []PlaylistEntry
	HasNext bool
}

// Outcome of a single track conversion.
type Outcome int

const (
	Success Outcome = iota
	Failure
)

func (o Outcome) String() string {
	if o == Success {
		return "success"
	}
	return "failure"
}

// ConversionResult records one track attempt. Reason is set only for failures.
type ConversionResult struct {
	Item    TrackSummary `json:"item"`
	Outcome Outcome      `json:"-"`
	Reason  string       `json:"reason,omitempty"`
	Path    string       `json:"path,omitempty"`
}

// Succeeded reports whether the track was written to disk.
func (r ConversionResult) Succeeded() bool {
	return r.Outcome == Success
}

// ConversionReport collects the results of one conversion in playlist order.
//
// Playlist is nil for standalone tracks. Skipped counts playlist entries without a track payload.
// PlaylistFile is set when an M3U file was written next to the tracks.
type ConversionReport struct {
	Reference    ItemReference
	Playlist     *PlaylistSummary
	Directory    string
	Results      []ConversionResult
	Skipped      int
	PlaylistFile string
}

// Name returns the playlist name, or the single track label for standalone conversions.
func (r *ConversionReport) Name() string {
	if r.Playlist != nil {
		return r.Playlist.Name
	}
	if len(r.Results) == 1 {
		return r.Results[0].Item.Label()
	}
	return r.Reference.String()
}

// Succeeded counts successful results.
func (r *ConversionReport) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Succeeded() {
			n++
		}
	}
	return n
}

// Failed counts failed results.
func (r *ConversionReport) Failed() int {
	return len(r.Results) - r.Succeeded()
}

// ConversionRecord is the persisted summary of a [ConversionReport].
type ConversionRecord struct {
	ID          string
	Kind        Kind
	Reference   string
	Name        string
	Destination string
	Total       int
	Succeeded   int
	Failed      int
	Skipped     int
	CreatedAt   time.Time
	Items       []ConversionResult
}

// NewConversionRecord summarizes report for persistence.
func NewConversionRecord(id string, report *ConversionReport) *ConversionRecord {
	return &ConversionRecord{
		ID:          id,
		Kind:        report.Reference.Kind,
		Reference:   report.Reference.Value,
		Name:        report.Name(),
		Destination: report.Directory,
		Total:       len(report.Results),
		Succeeded:   report.Succeeded(),
		Failed:      report.Failed(),
		Skipped:     report.Skipped,
		CreatedAt:   time.Now().UTC(),
		Items:       report.Results,
	}
}

// Validate checks the fields required by the history table.
func (r *ConversionRecord) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("conversion record id is required")
	}
	if r.Reference == "" {
		return fmt.Errorf("conversion record reference is required")
	}
	return nil
}
