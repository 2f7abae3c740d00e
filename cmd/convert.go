package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotmp3/internal/formatter"
	"github.com/desertthunder/spotmp3/internal/models"
	"github.com/desertthunder/spotmp3/internal/resolver"
	"github.com/desertthunder/spotmp3/internal/shared"
	"github.com/desertthunder/spotmp3/internal/tasks"
	"github.com/desertthunder/spotmp3/internal/ui"
)

// likedLabel names the folder and report of converted liked songs.
const likedLabel = "Liked Songs"

// reportOptions selects an optional report file.
type reportOptions struct {
	Path   string
	Format string
}

// Convert downloads a track or playlist, or the n-th track result of search text.
func (r *Runner) Convert(ctx context.Context, cmd *cli.Command) error {
	input := argText(cmd)
	if input == "" {
		return fmt.Errorf("%w: convert needs a link, URI or search term", shared.ErrMissingArgument)
	}

	accountID, err := r.accountFlag(ctx, cmd)
	if err != nil {
		return err
	}

	opts := tasks.ConvertOptions{
		AccountID: accountID,
		Workers:   cmd.Int("workers"),
		M3U:       cmd.Bool("m3u"),
	}
	report := reportOptions{Path: cmd.String("report"), Format: cmd.String("format")}

	ref := resolver.Resolve(input, nil)
	if ref.Kind != models.KindSearchTerm {
		return r.convertReference(ctx, ref, opts, report)
	}

	pick := cmd.Int("pick")
	if pick < 1 {
		return fmt.Errorf("%w: --pick must be at least 1, got %d", shared.ErrInvalidArgument, pick)
	}

	catalog, err := r.publicCatalog(ctx)
	if err != nil {
		return err
	}
	page, err := catalog.SearchTracks(ctx, ref.Value, pick-1, 1)
	if err != nil {
		return err
	}
	if len(page.Items) == 0 {
		return fmt.Errorf("%w: no track result %d for %q", shared.ErrInvalidSelection, pick, ref.Value)
	}

	r.writePlain("Selected: %s\n", page.Items[0].Label())
	return r.convertTracks(ctx, ref.Value, page.Items[:1], false, opts, report)
}

// convertReference converts a track or playlist reference.
func (r *Runner) convertReference(ctx context.Context, ref models.ItemReference, opts tasks.ConvertOptions, report reportOptions) error {
	conv, err := r.converter(ctx)
	if err != nil {
		return err
	}
	return r.runConversion(report, opts, func(opts tasks.ConvertOptions) (*models.ConversionReport, error) {
		return conv.Convert(ctx, ref, opts)
	})
}

// convertTracks converts already selected tracks into the singles folder or, with ownFolder, a folder named label.
func (r *Runner) convertTracks(ctx context.Context, label string, tracks []models.TrackSummary, ownFolder bool, opts tasks.ConvertOptions, report reportOptions) error {
	conv, err := r.converter(ctx)
	if err != nil {
		return err
	}

	dir := ""
	if ownFolder {
		dir = conv.PlaylistDir(label)
	}
	return r.runConversion(report, opts, func(opts tasks.ConvertOptions) (*models.ConversionReport, error) {
		return conv.ConvertTracks(ctx, label, tracks, dir, opts)
	})
}

// runConversion streams progress while run executes, then prints the summary and writes the report file.
//
// Per-track failures are part of the summary, not the returned error.
func (r *Runner) runConversion(ro reportOptions, opts tasks.ConvertOptions, run func(tasks.ConvertOptions) (*models.ConversionReport, error)) error {
	progress := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.printProgress(update)
		}
	}()

	opts.Progress = progress
	report, err := run(opts)
	close(progress)
	<-done

	if report == nil {
		return err
	}

	r.writePlainln("%s", formatter.ReportToText(report))
	switch failed := report.Failed(); {
	case failed == 0:
		saved := fmt.Sprintf("✓ %d tracks saved to %s (%s)", report.Succeeded(), report.Directory, ui.FormatSize(downloadedBytes(report)))
		r.writePlain("%s\n", r.styler.OK(saved))
	default:
		r.writePlain("%s\n", r.styler.Warn(fmt.Sprintf("%d of %d tracks failed", failed, len(report.Results))))
	}
	if report.PlaylistFile != "" {
		r.writePlain("Playlist file: %s\n", report.PlaylistFile)
	}

	if ro.Path != "" {
		if werr := formatter.WriteReport(report, ro.Format, ro.Path); werr != nil {
			return werr
		}
		r.logger.Info("report written", "path", ro.Path, "format", ro.Format)
	}

	return err
}

// downloadedBytes sums the sizes of the files written by successful results.
func downloadedBytes(report *models.ConversionReport) int64 {
	var total int64
	for _, res := range report.Results {
		if !res.Succeeded() || res.Path == "" {
			continue
		}
		if info, err := os.Stat(res.Path); err == nil {
			total += info.Size()
		}
	}
	return total
}

func (r *Runner) printProgress(update tasks.ProgressUpdate) {
	switch update.Phase {
	case tasks.FetchEntries, tasks.RecordHistory:
		r.logger.Debug(update.Message, "phase", update.Phase)
	case tasks.DownloadTracks:
		if res, ok := update.Data.(models.ConversionResult); ok && !res.Succeeded() {
			r.writePlain("%s\n", r.styler.Err(update.Message))
			return
		}
		r.writePlain("%s\n", update.Message)
	default:
		r.writePlain("%s\n", r.styler.Help(update.Message))
	}
}
