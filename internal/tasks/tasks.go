package tasks

import (
	"context"
	"fmt"
	"iter"
	"path/filepath"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/desertthunder/spotmp3/internal/formatter"
	"github.com/desertthunder/spotmp3/internal/models"
	"github.com/desertthunder/spotmp3/internal/services"
	"github.com/desertthunder/spotmp3/internal/shared"
)

// EntryPageSize is the page size used to enumerate playlist entries.
const EntryPageSize = services.MaxItemsLimit

// Engine converts catalog items into local audio files.
type Engine interface {
	// Convert converts a track or playlist reference.
	Convert(ctx context.Context, ref models.ItemReference, opts ConvertOptions) (*models.ConversionReport, error)

	// ConvertTracks converts already selected tracks into dir, or the singles folder when dir is empty.
	ConvertTracks(ctx context.Context, label string, tracks []models.TrackSummary, dir string, opts ConvertOptions) (*models.ConversionReport, error)
}

// HistoryRecorder persists finished conversions.
type HistoryRecorder interface {
	Create(ctx context.Context, record *models.ConversionRecord) error
}

// ConverterOpts are the download settings shared by every conversion.
type ConverterOpts struct {
	BaseDir      string  // Root folder; one subfolder per playlist
	SinglesDir   string  // Subfolder of BaseDir for standalone tracks
	Workers      int     // Concurrent downloads (default: 1)
	RateLimit    float64 // Downloads started per second, 0 for no limit
	Tag          bool    // Write ID3 tags after download
	PlaylistFile bool    // Write an M3U next to converted playlists
}

// ConvertOptions are per-call settings.
type ConvertOptions struct {
	AccountID string                // Account the reference was browsed under
	Progress  chan<- ProgressUpdate // Optional, never blocks
	Workers   int                   // Overrides ConverterOpts.Workers when positive
	M3U       bool                  // Forces a playlist file
}

// Converter implements [Engine] on a catalog, an acquirer and optional tagging and history.
type Converter struct {
	public   services.Catalog
	sessions *services.SessionStore
	acquirer services.Acquirer
	tagger   services.Tagger
	history  HistoryRecorder
	opts     ConverterOpts
	logger   *log.Logger
}

var _ Engine = (*Converter)(nil)

// ConverterOption configures optional collaborators.
type ConverterOption func(*Converter)

// WithTagger tags successful downloads when ConverterOpts.Tag is set.
func WithTagger(t services.Tagger) ConverterOption {
	return func(c *Converter) { c.tagger = t }
}

// WithHistory records each finished conversion.
func WithHistory(h HistoryRecorder) ConverterOption {
	return func(c *Converter) { c.history = h }
}

// WithLogger sets the parent logger.
func WithLogger(l *log.Logger) ConverterOption {
	return func(c *Converter) { c.logger = shared.WithLogger(l, "component", "converter") }
}

// NewConverter creates a Converter. sessions may be nil when no login is possible.
func NewConverter(public services.Catalog, sessions *services.SessionStore, acquirer services.Acquirer, opts ConverterOpts, options ...ConverterOption) *Converter {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.SinglesDir == "" {
		opts.SinglesDir = "SpotifySingles"
	}

	c := &Converter{
		public:   public,
		sessions: sessions,
		acquirer: acquirer,
		opts:     opts,
		logger:   shared.WithLogger(nil),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// sendProgress sends a progress update through the channel without blocking.
func (c *Converter) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// catalogFor routes to the session catalog when the session owns accountID.
func (c *Converter) catalogFor(accountID string) services.Catalog {
	if session, ok := c.sessions.Owns(accountID); ok {
		return session.Catalog
	}
	return c.public
}

// SinglesDir is the destination of standalone tracks.
func (c *Converter) SinglesDir() string {
	return filepath.Join(c.opts.BaseDir, c.opts.SinglesDir)
}

// PlaylistDir is the destination of a playlist's tracks.
func (c *Converter) PlaylistDir(name string) string {
	return filepath.Join(c.opts.BaseDir, shared.SanitizeName(name))
}

// Convert converts a track into the singles folder or a playlist into its own folder.
//
// Playlist entries are fully enumerated before any download; an enumeration failure aborts the conversion.
func (c *Converter) Convert(ctx context.Context, ref models.ItemReference, opts ConvertOptions) (*models.ConversionReport, error) {
	if c.public == nil || c.acquirer == nil {
		return nil, fmt.Errorf("%w: converter not initialized", shared.ErrServiceUnavailable)
	}

	catalog := c.catalogFor(opts.AccountID)

	switch ref.Kind {
	case models.KindTrack:
		c.sendProgress(opts.Progress, fetchTrackUpdate(ref.Value))
		track, err := catalog.Track(ctx, ref.Value)
		if err != nil {
			return nil, err
		}

		report := &models.ConversionReport{Reference: ref, Directory: c.SinglesDir()}
		report.Results = c.download(ctx, []models.TrackSummary{*track}, report.Directory, "", opts)
		c.finish(ctx, report, opts)
		return report, ctx.Err()
	case models.KindPlaylist:
		return c.convertPlaylist(ctx, catalog, ref, opts)
	default:
		return nil, fmt.Errorf("%w: %s references cannot be converted", shared.ErrInvalidSelection, ref.Kind)
	}
}

func (c *Converter) convertPlaylist(ctx context.Context, catalog services.Catalog, ref models.ItemReference, opts ConvertOptions) (*models.ConversionReport, error) {
	c.sendProgress(opts.Progress, fetchPlaylistUpdate(ref.Value))
	playlist, err := catalog.Playlist(ctx, ref.Value)
	if err != nil {
		return nil, err
	}
	c.sendProgress(opts.Progress, foundPlaylistUpdate(playlist))

	report := &models.ConversionReport{
		Reference: ref,
		Playlist:  playlist,
		Directory: c.PlaylistDir(playlist.Name),
	}

	tracks := make([]models.TrackSummary, 0, playlist.TrackCount)
	for entry, err := range c.Entries(ctx, catalog, ref.Value, opts.Progress) {
		if err != nil {
			return nil, fmt.Errorf("failed to enumerate playlist %s: %w", playlist.Name, err)
		}
		if entry.Track == nil {
			report.Skipped++
			continue
		}
		tracks = append(tracks, *entry.Track)
	}

	if report.Skipped > 0 {
		c.logger.Warn("skipping unavailable entries", "playlist", playlist.Name, "count", report.Skipped)
	}

	report.Results = c.download(ctx, tracks, report.Directory, playlist.Name, opts)

	if (c.opts.PlaylistFile || opts.M3U) && report.Succeeded() > 0 {
		path, err := formatter.WriteM3U(report.Directory, playlist.Name, report.Results)
		if err != nil {
			c.logger.Warn("failed to write playlist file", "playlist", playlist.Name, "error", err)
		} else {
			report.PlaylistFile = path
			c.sendProgress(opts.Progress, writePlaylistUpdate(path))
		}
	}

	c.finish(ctx, report, opts)
	return report, ctx.Err()
}

// ConvertTracks converts tracks in the given order. An empty dir means the singles folder.
func (c *Converter) ConvertTracks(ctx context.Context, label string, tracks []models.TrackSummary, dir string, opts ConvertOptions) (*models.ConversionReport, error) {
	if c.acquirer == nil {
		return nil, fmt.Errorf("%w: converter not initialized", shared.ErrServiceUnavailable)
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: nothing to convert", shared.ErrInvalidSelection)
	}
	if dir == "" {
		dir = c.SinglesDir()
	}

	report := &models.ConversionReport{
		Reference: models.ItemReference{Kind: models.KindSearchTerm, Value: label},
		Directory: dir,
	}
	report.Results = c.download(ctx, tracks, dir, "", opts)
	c.finish(ctx, report, opts)
	return report, ctx.Err()
}

// Entries lazily enumerates every entry of a playlist, one page at a time until the catalog reports no next page.
//
// A page failure is yielded once and ends the sequence.
func (c *Converter) Entries(ctx context.Context, catalog services.Catalog, id string, progress chan<- ProgressUpdate) iter.Seq2[models.PlaylistEntry, error] {
	return func(yield func(models.PlaylistEntry, error) bool) {
		offset, pages := 0, 0
		for {
			page, err := catalog.PlaylistItems(ctx, id, offset, EntryPageSize)
			if err != nil {
				yield(models.PlaylistEntry{}, err)
				return
			}

			pages++
			for _, entry := range page.Items {
				if !yield(entry, nil) {
					return
				}
			}
			offset += len(page.Items)
			c.sendProgress(progress, fetchEntriesUpdate(pages, offset))

			if !page.HasNext || len(page.Items) == 0 {
				return
			}
		}
	}
}

// download acquires tracks with a bounded pool. Results keep the input order.
func (c *Converter) download(ctx context.Context, tracks []models.TrackSummary, dir, album string, opts ConvertOptions) []models.ConversionResult {
	results := make([]models.ConversionResult, len(tracks))
	if len(tracks) == 0 {
		return results
	}

	workers := c.opts.Workers
	if opts.Workers > 0 {
		workers = opts.Workers
	}

	var limiter *rate.Limiter
	if c.opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(c.opts.RateLimit), 1)
	}

	c.sendProgress(opts.Progress, downloadStartUpdate(len(tracks), dir))
	c.logger.Info("converting", "tracks", len(tracks), "dir", dir, "workers", workers)

	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, track := range tracks {
		g.Go(func() error {
			results[i] = c.convertOne(gctx, limiter, track, dir, album)
			step := int(done.Add(1))
			c.sendProgress(opts.Progress, downloadResultUpdate(step, len(tracks), results[i]))
			return nil // Continue with other tracks
		})
	}
	_ = g.Wait()

	return results
}

// convertOne acquires and tags a single track. It never returns an error; failures become the result.
func (c *Converter) convertOne(ctx context.Context, limiter *rate.Limiter, track models.TrackSummary, dir, album string) models.ConversionResult {
	result := models.ConversionResult{Item: track}

	fail := func(err error) models.ConversionResult {
		err = fmt.Errorf("%w: %w", shared.ErrAcquisitionFailure, err)
		c.logger.Warn("track failed", "track", track.Label(), "error", err)
		result.Outcome = models.Failure
		result.Reason = err.Error()
		return result
	}

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return fail(err)
		}
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	path, err := c.acquirer.Fetch(ctx, track.Title, track.ArtistNames(), dir)
	if err != nil {
		return fail(err)
	}

	result.Outcome = models.Success
	result.Path = path
	c.logger.Debug("track converted", "track", track.Label(), "path", path)

	if c.opts.Tag && c.tagger != nil {
		if err := c.tagger.Tag(path, track, album); err != nil {
			c.logger.Warn("failed to tag file", "path", path, "error", err)
		}
	}
	return result
}

// finish records history. Failures are logged and never change the report.
func (c *Converter) finish(ctx context.Context, report *models.ConversionReport, opts ConvertOptions) {
	c.logger.Info("conversion finished",
		"name", report.Name(),
		"succeeded", report.Succeeded(),
		"failed", report.Failed(),
		"skipped", report.Skipped,
	)

	if c.history == nil || len(report.Results) == 0 {
		return
	}

	record := models.NewConversionRecord(shared.GenerateID(), report)
	// History writes outlive a cancelled conversion.
	if err := c.history.Create(context.WithoutCancel(ctx), record); err != nil {
		c.logger.Warn("failed to record conversion", "id", record.ID, "error", err)
		return
	}
	c.sendProgress(opts.Progress, recordHistoryUpdate(record.ID))
}
