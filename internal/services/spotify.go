// Spotify Web API implementation of [Catalog]
//
// Most calls go through zmb3/spotify. Playlist items are decoded locally because
// removed tracks come back as a null track, which the library rejects.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotmp3/internal/models"
	"github.com/desertthunder/spotmp3/internal/shared"
	"github.com/zmb3/spotify/v2"
)

const (
	spotifyBaseURL = "https://api.spotify.com/v1/"

	// maxPageLimit is the largest page the search and library endpoints accept.
	maxPageLimit = 50
	// MaxItemsLimit is the largest page the playlist items endpoint accepts.
	MaxItemsLimit = 100

	playlistFields = "id,name,owner(id,display_name),tracks(total)"
	itemFields     = "items(is_local,track(id,name,type,artists(name),album(name),show(name))),next,total"
)

type spotifyArtist struct {
	Name string `json:"name"`
}

type spotifyAlbum struct {
	Name string `json:"name"`
}

// spotifyTrack is the subset of a track object requested through itemFields.
type spotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Type    string          `json:"type"`
	Artists []spotifyArtist `json:"artists"`
	Album   spotifyAlbum    `json:"album"`
	Show    *spotifyAlbum   `json:"show"`
}

// SpotifyPlaylistItem is one entry of a playlist. Track is nil for removed items.
type SpotifyPlaylistItem struct {
	IsLocal bool          `json:"is_local"`
	Track   *spotifyTrack `json:"track"`
}

// SpotifyPlaylistItems is a page of playlist entries.
type SpotifyPlaylistItems struct {
	Items []SpotifyPlaylistItem `json:"items"`
	Total int                   `json:"total"`
	Next  *string               `json:"next"`
}

type catalogOptions struct {
	baseURL  string
	tokenURL string
	logger   *log.Logger
}

// CatalogOption configures a [SpotifyCatalog].
type CatalogOption func(*catalogOptions)

// WithBaseURL points the catalog at a different API root, such as a test server.
func WithBaseURL(u string) CatalogOption {
	return func(o *catalogOptions) {
		if !strings.HasSuffix(u, "/") {
			u += "/"
		}
		o.baseURL = u
	}
}

// WithTokenURL overrides the client credentials token endpoint.
func WithTokenURL(u string) CatalogOption {
	return func(o *catalogOptions) { o.tokenURL = u }
}

// WithCatalogLogger sets the logger used for request tracing.
func WithCatalogLogger(l *log.Logger) CatalogOption {
	return func(o *catalogOptions) { o.logger = l }
}

func newCatalogOptions(opts []CatalogOption) catalogOptions {
	o := catalogOptions{baseURL: spotifyBaseURL}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// SpotifyCatalog implements [Catalog] against the Spotify Web API.
//
// The http client decides which identity is used: client credentials for public queries or a user token for a [Session].
type SpotifyCatalog struct {
	client     *spotify.Client
	httpClient *http.Client
	baseURL    string
	logger     *log.Logger
}

// NewSpotifyCatalog wraps an authorized http client.
func NewSpotifyCatalog(httpClient *http.Client, opts ...CatalogOption) *SpotifyCatalog {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	o := newCatalogOptions(opts)

	return &SpotifyCatalog{
		client:     spotify.New(httpClient, spotify.WithBaseURL(o.baseURL)),
		httpClient: httpClient,
		baseURL:    o.baseURL,
		logger:     shared.WithLogger(o.logger, "service", "spotify"),
	}
}

func clampLimit(limit, max int) int {
	if limit <= 0 {
		return 20
	}
	if limit > max {
		return max
	}
	return limit
}

func queryFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", shared.ErrQueryFailure, op, err)
}

// SearchTracks searches the catalog for tracks.
func (s *SpotifyCatalog) SearchTracks(ctx context.Context, query string, offset, limit int) (*models.Page[models.TrackSummary], error) {
	limit = clampLimit(limit, maxPageLimit)
	s.logger.Debug("searching tracks", "query", query, "offset", offset, "limit", limit)

	result, err := s.client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(limit), spotify.Offset(offset))
	if err != nil {
		return nil, queryFailure("search tracks", err)
	}

	page := &models.Page[models.TrackSummary]{}
	if result.Tracks == nil {
		return page, nil
	}

	page.Total = int(result.Tracks.Total)
	for _, t := range result.Tracks.Tracks {
		if t.ID == "" {
			continue
		}
		page.Items = append(page.Items, trackSummary(t))
	}
	return page, nil
}

// SearchPlaylists searches the catalog for playlists.
func (s *SpotifyCatalog) SearchPlaylists(ctx context.Context, query string, offset, limit int) (*models.Page[models.PlaylistSummary], error) {
	limit = clampLimit(limit, maxPageLimit)
	s.logger.Debug("searching playlists", "query", query, "offset", offset, "limit", limit)

	result, err := s.client.Search(ctx, query, spotify.SearchTypePlaylist, spotify.Limit(limit), spotify.Offset(offset))
	if err != nil {
		return nil, queryFailure("search playlists", err)
	}

	if result.Playlists == nil {
		return &models.Page[models.PlaylistSummary]{}, nil
	}
	return playlistPage(result.Playlists), nil
}

// Track fetches one track.
func (s *SpotifyCatalog) Track(ctx context.Context, id string) (*models.TrackSummary, error) {
	t, err := s.client.GetTrack(ctx, spotify.ID(id))
	if err != nil {
		return nil, queryFailure("get track", err)
	}
	summary := trackSummary(*t)
	return &summary, nil
}

// Playlist fetches playlist metadata without its items.
func (s *SpotifyCatalog) Playlist(ctx context.Context, id string) (*models.PlaylistSummary, error) {
	p, err := s.client.GetPlaylist(ctx, spotify.ID(id), spotify.Fields(playlistFields))
	if err != nil {
		return nil, queryFailure("get playlist", err)
	}

	summary := &models.PlaylistSummary{
		ID:         string(p.ID),
		Name:       p.Name,
		Owner:      ownerName(p.Owner),
		TrackCount: int(p.Tracks.Total),
	}
	if summary.ID == "" {
		summary.ID = id
	}
	return summary, nil
}

// Artist fetches one artist.
func (s *SpotifyCatalog) Artist(ctx context.Context, id string) (*models.ArtistSummary, error) {
	a, err := s.client.GetArtist(ctx, spotify.ID(id))
	if err != nil {
		return nil, queryFailure("get artist", err)
	}
	return &models.ArtistSummary{ID: string(a.ID), Name: a.Name}, nil
}

// PlaylistItems lists one page of playlist entries.
//
// Only null payloads become entries with a nil Track. Episodes use their show as the artist.
func (s *SpotifyCatalog) PlaylistItems(ctx context.Context, id string, offset, limit int) (*models.EntryPage, error) {
	limit = clampLimit(limit, MaxItemsLimit)

	params := url.Values{}
	params.Set("offset", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("fields", itemFields)
	endpoint := fmt.Sprintf("playlists/%s/tracks?%s", url.PathEscape(id), params.Encode())

	var response SpotifyPlaylistItems
	if err := s.doRequest(ctx, http.MethodGet, endpoint, &response); err != nil {
		return nil, queryFailure("list playlist items", err)
	}

	page := &models.EntryPage{
		Items:   make([]models.PlaylistEntry, 0, len(response.Items)),
		HasNext: response.Next != nil && *response.Next != "",
	}
	for _, item := range response.Items {
		page.Items = append(page.Items, playlistEntry(item))
	}
	return page, nil
}

// UserPlaylists lists the public playlists of userID, plus private ones when the token belongs to that user.
func (s *SpotifyCatalog) UserPlaylists(ctx context.Context, userID string, offset, limit int) (*models.Page[models.PlaylistSummary], error) {
	limit = clampLimit(limit, maxPageLimit)

	result, err := s.client.GetPlaylistsForUser(ctx, userID, spotify.Limit(limit), spotify.Offset(offset))
	if err != nil {
		return nil, queryFailure("list user playlists", err)
	}
	return playlistPage(result), nil
}

// LikedTracks lists the saved tracks of the token's user.
func (s *SpotifyCatalog) LikedTracks(ctx context.Context, offset, limit int) (*models.Page[models.TrackSummary], error) {
	limit = clampLimit(limit, maxPageLimit)

	result, err := s.client.CurrentUsersTracks(ctx, spotify.Limit(limit), spotify.Offset(offset))
	if err != nil {
		return nil, queryFailure("list liked tracks", err)
	}

	page := &models.Page[models.TrackSummary]{Total: int(result.Total)}
	for _, saved := range result.Tracks {
		if saved.ID == "" {
			continue
		}
		page.Items = append(page.Items, trackSummary(saved.FullTrack))
	}
	return page, nil
}

// CurrentUser returns the token's user.
func (s *SpotifyCatalog) CurrentUser(ctx context.Context) (*models.Account, error) {
	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		return nil, queryFailure("get current user", err)
	}
	return &models.Account{ID: user.ID, DisplayName: user.DisplayName}, nil
}

// doRequest performs a GET against the API root and decodes the JSON body into result.
func (s *SpotifyCatalog) doRequest(ctx context.Context, method, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("spotify API error: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func trackSummary(t spotify.FullTrack) models.TrackSummary {
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
	}
	return models.TrackSummary{
		ID:      string(t.ID),
		Title:   t.Name,
		Artists: artists,
		Album:   t.Album.Name,
	}
}

func playlistEntry(item SpotifyPlaylistItem) models.PlaylistEntry {
	t := item.Track
	if t == nil {
		return models.PlaylistEntry{}
	}

	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		if a.Name != "" {
			artists = append(artists, a.Name)
		}
	}
	if len(artists) == 0 && t.Show != nil && t.Show.Name != "" {
		artists = append(artists, t.Show.Name)
	}
	return models.PlaylistEntry{Track: &models.TrackSummary{
		ID:      t.ID,
		Title:   t.Name,
		Artists: artists,
		Album:   t.Album.Name,
	}}
}

func playlistPage(sp *spotify.SimplePlaylistPage) *models.Page[models.PlaylistSummary] {
	page := &models.Page[models.PlaylistSummary]{Total: int(sp.Total)}
	for _, p := range sp.Playlists {
		if p.ID == "" {
			continue
		}
		page.Items = append(page.Items, models.PlaylistSummary{
			ID:         string(p.ID),
			Name:       p.Name,
			Owner:      ownerName(p.Owner),
			TrackCount: int(p.Tracks.Total),
		})
	}
	return page
}

func ownerName(u spotify.User) string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.ID
}
