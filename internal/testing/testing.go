// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/spotmp3/internal/models"
	"github.com/desertthunder/spotmp3/internal/shared"
)

// MockCatalog is an in-memory test double for [services.Catalog].
//
// Errors in ErrOn are keyed by method name and take precedence over results.
type MockCatalog struct {
	mu sync.Mutex

	Tracks           map[string]models.TrackSummary
	Playlists        map[string]models.PlaylistSummary
	Artists          map[string]models.ArtistSummary
	Entries          map[string][]models.PlaylistEntry
	AccountPlaylists map[string][]models.PlaylistSummary
	FoundTracks      []models.TrackSummary
	FoundPlaylists   []models.PlaylistSummary
	Liked            []models.TrackSummary
	Account          *models.Account
	ErrOn            map[string]error

	calls []string
}

// NewMockCatalog returns an empty catalog.
func NewMockCatalog() *MockCatalog {
	return &MockCatalog{
		Tracks:           map[string]models.TrackSummary{},
		Playlists:        map[string]models.PlaylistSummary{},
		Artists:          map[string]models.ArtistSummary{},
		Entries:          map[string][]models.PlaylistEntry{},
		AccountPlaylists: map[string][]models.PlaylistSummary{},
		ErrOn:            map[string]error{},
	}
}

func (m *MockCatalog) record(method string, args ...any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := method
	for _, arg := range args {
		call += fmt.Sprintf(" %v", arg)
	}
	m.calls = append(m.calls, call)
	if err, ok := m.ErrOn[method]; ok {
		return err
	}
	return nil
}

// Calls returns the recorded calls as "Method arg..." strings.
func (m *MockCatalog) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// CallCount counts recorded calls to method.
func (m *MockCatalog) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == method || strings.HasPrefix(c, method+" ") {
			n++
		}
	}
	return n
}

func pageOf[T any](items []T, offset, limit int) *models.Page[T] {
	page := &models.Page[T]{Total: len(items)}
	if offset >= len(items) {
		return page
	}
	end := min(offset+limit, len(items))
	page.Items = append([]T(nil), items[offset:end]...)
	return page
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s not found", shared.ErrQueryFailure, kind, id)
}

func (m *MockCatalog) SearchTracks(ctx context.Context, query string, offset, limit int) (*models.Page[models.TrackSummary], error) {
	if err := m.record("SearchTracks", query, offset); err != nil {
		return nil, err
	}
	return pageOf(m.FoundTracks, offset, limit), nil
}

func (m *MockCatalog) SearchPlaylists(ctx context.Context, query string, offset, limit int) (*models.Page[models.PlaylistSummary], error) {
	if err := m.record("SearchPlaylists", query, offset); err != nil {
		return nil, err
	}
	return pageOf(m.FoundPlaylists, offset, limit), nil
}

func (m *MockCatalog) Track(ctx context.Context, id string) (*models.TrackSummary, error) {
	if err := m.record("Track", id); err != nil {
		return nil, err
	}
	t, ok := m.Tracks[id]
	if !ok {
		return nil, notFound("track", id)
	}
	return &t, nil
}

func (m *MockCatalog) Playlist(ctx context.Context, id string) (*models.PlaylistSummary, error) {
	if err := m.record("Playlist", id); err != nil {
		return nil, err
	}
	p, ok := m.Playlists[id]
	if !ok {
		return nil, notFound("playlist", id)
	}
	return &p, nil
}

func (m *MockCatalog) Artist(ctx context.Context, id string) (*models.ArtistSummary, error) {
	if err := m.record("Artist", id); err != nil {
		return nil, err
	}
	a, ok := m.Artists[id]
	if !ok {
		return nil, notFound("artist", id)
	}
	return &a, nil
}

func (m *MockCatalog) PlaylistItems(ctx context.Context, id string, offset, limit int) (*models.EntryPage, error) {
	if err := m.record("PlaylistItems", id, offset); err != nil {
		return nil, err
	}
	entries, ok := m.Entries[id]
	if !ok {
		return nil, notFound("playlist", id)
	}
	page := pageOf(entries, offset, limit)
	return &models.EntryPage{Items: page.Items, HasNext: offset+limit < len(entries)}, nil
}

func (m *MockCatalog) UserPlaylists(ctx context.Context, userID string, offset, limit int) (*models.Page[models.PlaylistSummary], error) {
	if err := m.record("UserPlaylists", userID, offset); err != nil {
		return nil, err
	}
	return pageOf(m.AccountPlaylists[userID], offset, limit), nil
}

func (m *MockCatalog) LikedTracks(ctx context.Context, offset, limit int) (*models.Page[models.TrackSummary], error) {
	if err := m.record("LikedTracks", offset); err != nil {
		return nil, err
	}
	return pageOf(m.Liked, offset, limit), nil
}

func (m *MockCatalog) CurrentUser(ctx context.Context) (*models.Account, error) {
	if err := m.record("CurrentUser"); err != nil {
		return nil, err
	}
	if m.Account == nil {
		return nil, fmt.Errorf("%w: no user", shared.ErrAuthRequired)
	}
	return m.Account, nil
}

// Tracks builds n summaries titled "Track 1".."Track n" by "Artist".
func Tracks(n int) []models.TrackSummary {
	tracks := make([]models.TrackSummary, n)
	for i := range tracks {
		tracks[i] = models.TrackSummary{
			ID:      fmt.Sprintf("t%d", i+1),
			Title:   fmt.Sprintf("Track %d", i+1),
			Artists: []string{"Artist"},
		}
	}
	return tracks
}

// Entries wraps tracks as playlist entries.
func Entries(tracks []models.TrackSummary) []models.PlaylistEntry {
	entries := make([]models.PlaylistEntry, len(tracks))
	for i := range tracks {
		entries[i] = models.PlaylistEntry{Track: &tracks[i]}
	}
	return entries
}

// AcquireCall records one [MockAcquirer.Fetch].
type AcquireCall struct {
	Title  string
	Artist string
	Dir    string
}

// MockAcquirer is a test double for [services.Acquirer].
//
// Titles in Fail return that error; everything else succeeds and, with WriteFiles, writes a stub file.
type MockAcquirer struct {
	mu         sync.Mutex
	Fail       map[string]error
	WriteFiles bool
	Before     func(title string)
	calls      []AcquireCall
}

func (m *MockAcquirer) Fetch(ctx context.Context, title, artist, dir string) (string, error) {
	if m.Before != nil {
		m.Before(title)
	}

	m.mu.Lock()
	m.calls = append(m.calls, AcquireCall{Title: title, Artist: artist, Dir: dir})
	err := m.Fail[title]
	m.mu.Unlock()

	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(dir, shared.SanitizeName(title+" - "+artist)+".mp3")
	if m.WriteFiles {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
		if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
			return "", err
		}
	}
	return path, nil
}

// Calls returns the recorded fetches.
func (m *MockAcquirer) Calls() []AcquireCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]AcquireCall(nil), m.calls...)
}

// MockTagger records tag requests and returns Err.
type MockTagger struct {
	mu    sync.Mutex
	Err   error
	Paths []string
}

func (m *MockTagger) Tag(path string, track models.TrackSummary, album string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Paths = append(m.Paths, path)
	return m.Err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
