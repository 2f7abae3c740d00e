package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotmp3/internal/models"
	"github.com/desertthunder/spotmp3/internal/resolver"
	"github.com/desertthunder/spotmp3/internal/shared"
	"github.com/desertthunder/spotmp3/internal/ui"
)

// HistoryList lists recent conversions, newest first, optionally only those of one link or search term.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.historyStore(ctx)
	if err != nil {
		return err
	}

	var records []*models.ConversionRecord
	if ref := cmd.String("reference"); ref != "" {
		records, err = store.ListByReference(ctx, resolver.Resolve(ref, nil).Value)
	} else {
		records, err = store.List(ctx, cmd.Int("limit"))
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Conversion History")
	if len(records) == 0 {
		r.writePlain("%s\n", r.styler.Help("No conversions yet."))
		return nil
	}

	for _, rec := range records {
		r.writePlain("%s  %-8s  %s  %d/%d  %s\n",
			rec.ID, rec.Kind, rec.Name, rec.Succeeded, rec.Total, r.styler.Help(ui.FormatAge(rec.CreatedAt)))
	}
	return nil
}

// HistoryShow prints one conversion with its per-track outcomes.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: history show needs a conversion id", shared.ErrMissingArgument)
	}

	store, err := r.historyStore(ctx)
	if err != nil {
		return err
	}

	rec, err := store.Get(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(rec, cmd.Bool("pretty"))
	}

	r.writePlainHeader(rec.Name)
	r.writePlain("ID: %s\n", rec.ID)
	r.writePlain("Reference: %s (%s)\n", rec.Reference, rec.Kind)
	r.writePlain("Destination: %s\n", rec.Destination)
	r.writePlain("Converted: %d of %d (%d skipped), %s\n\n", rec.Succeeded, rec.Total, rec.Skipped, ui.FormatAge(rec.CreatedAt))

	for i, item := range rec.Items {
		if item.Succeeded() {
			r.writePlain("%d. %s %s\n", i+1, r.styler.OK("✓"), item.Item.Label())
		} else {
			r.writePlain("%d. %s %s (%s)\n", i+1, r.styler.Err("✗"), item.Item.Label(), item.Reason)
		}
	}
	return nil
}

// HistoryDelete removes a conversion record. Downloaded files are left alone.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: history delete needs a conversion id", shared.ErrMissingArgument)
	}

	store, err := r.historyStore(ctx)
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, id); err != nil {
		return err
	}

	r.writePlain("Deleted conversion %s\n", id)
	return nil
}
