package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotmp3/internal/browser"
	"github.com/desertthunder/spotmp3/internal/formatter"
	"github.com/desertthunder/spotmp3/internal/models"
	"github.com/desertthunder/spotmp3/internal/resolver"
	"github.com/desertthunder/spotmp3/internal/services"
	"github.com/desertthunder/spotmp3/internal/shared"
	"github.com/desertthunder/spotmp3/internal/tasks"
	"github.com/desertthunder/spotmp3/internal/ui"
)

// listView is the JSON shape of one browser list.
type listView[T any] struct {
	Name   string            `json:"name"`
	Items  []T               `json:"items"`
	Notice string            `json:"notice,omitempty"`
	Page   browser.PageState `json:"page"`
}

func viewOf[T any](l *browser.List[T]) listView[T] {
	return listView[T]{Name: l.Name(), Items: l.Items(), Notice: l.Notice(), Page: l.State()}
}

func trackLabel(t models.TrackSummary) string {
	return t.Label()
}

func playlistLabel(p models.PlaylistSummary) string {
	if p.Owner == "" {
		return fmt.Sprintf("%s (%d tracks)", p.Name, p.TrackCount)
	}
	return fmt.Sprintf("%s (%d tracks, by %s)", p.Name, p.TrackCount, p.Owner)
}

// printList writes a titled, numbered page of l followed by its position.
func printList[T any](r *Runner, title string, l *browser.List[T], label func(T) string) {
	r.writePlainln("%s", r.styler.Title(title))

	if notice := l.Notice(); notice != "" {
		r.writePlain("%s\n", r.styler.Warn(notice))
		return
	}

	items := l.Items()
	if len(items) == 0 {
		r.writePlain("%s\n", r.styler.Help("No results."))
		return
	}

	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = label(item)
	}

	state := l.State()
	r.writePlain("%s", ui.Numbered(labels, state.Offset))
	r.writePlain("%s\n", r.styler.Help(ui.PageFooter(state.Page(), state.Pages(), state.Total)))
}

// gotoPage moves each list to the 1-based page. Page 1 is what Load already fetched.
func gotoPage(ctx context.Context, page int, lists ...interface {
	Goto(context.Context, int) error
}) error {
	if page == 1 {
		return nil
	}
	var errs []error
	for _, l := range lists {
		errs = append(errs, l.Goto(ctx, page))
	}
	return errors.Join(errs...)
}

// Search runs a search or shows a linked track, playlist or artist.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := argText(cmd)
	if query == "" {
		return fmt.Errorf("%w: search needs a query, link or URI", shared.ErrMissingArgument)
	}

	catalog, err := r.publicCatalog(ctx)
	if err != nil {
		return err
	}

	search := browser.NewSearch(catalog, r.config.Browse.PageSize)
	ref, err := search.Submit(ctx, query)
	if err != nil {
		return err
	}
	if !ref.IsDirect() {
		if err := gotoPage(ctx, cmd.Int("page"), search.Tracks, search.Playlists); err != nil {
			return err
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"reference": ref.String(),
			"tracks":    viewOf(search.Tracks),
			"playlists": viewOf(search.Playlists),
		}, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Search: " + ref.String())
	if artist, ok := search.Artist(); ok {
		r.writePlainln("%s (%s)", r.styler.Title(artist.Name), artist.ID)
		r.writePlain("%s\n", r.styler.Help("Artist links are shown only; search the artist name to browse tracks."))
		return nil
	}
	printList(r, "Tracks", search.Tracks, trackLabel)
	printList(r, "Playlists", search.Playlists, playlistLabel)
	return nil
}

// Account lists the playlists of an account and its liked songs when the session owns it.
func (r *Runner) Account(ctx context.Context, cmd *cli.Command) error {
	input := argText(cmd)
	if input == "" {
		return fmt.Errorf("%w: account needs a user id, profile link or playlist link", shared.ErrMissingArgument)
	}

	catalog, err := r.publicCatalog(ctx)
	if err != nil {
		return err
	}
	if cmd.Bool("login") {
		if _, err := r.ensureSession(ctx); err != nil {
			return err
		}
	}

	account := browser.NewAccount(catalog, r.sessions, r.config.Browse.PageSize)
	if err := account.Submit(ctx, input); err != nil {
		return err
	}
	if err := gotoPage(ctx, cmd.Int("page"), account.Playlists); err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"account":   account.AccountID(),
			"playlists": viewOf(account.Playlists),
			"liked":     viewOf(account.Liked),
		}, cmd.Bool("pretty"))
	}

	if playlist, ok := account.Lookup(); ok {
		r.writePlainHeader("Playlist lookup")
		printList(r, "Playlist", account.Playlists, playlistLabel)
		r.writePlain("%s\n", r.styler.Help("Convert it with: spotmp3 convert spotify:playlist:"+playlist.ID))
		return nil
	}

	r.writePlainHeader("Account: " + account.AccountID())
	printList(r, "Playlists", account.Playlists, playlistLabel)
	printList(r, "Liked Songs", account.Liked, trackLabel)
	return nil
}

// catalogFor returns the session catalog when the session owns accountID, else the public catalog.
func (r *Runner) catalogFor(ctx context.Context, accountID string) (services.Catalog, error) {
	if session, ok := r.sessions.Owns(accountID); ok {
		return session.Catalog, nil
	}
	return r.publicCatalog(ctx)
}

// accountFlag returns --account, defaulting to the session account after --login.
func (r *Runner) accountFlag(ctx context.Context, cmd *cli.Command) (string, error) {
	accountID := resolver.ParseUserID(cmd.String("account"))
	if !cmd.Bool("login") {
		return accountID, nil
	}

	session, err := r.ensureSession(ctx)
	if err != nil {
		return "", err
	}
	if accountID == "" {
		accountID = session.Account.ID
	}
	return accountID, nil
}

// Tracks prints every track of a playlist.
func (r *Runner) Tracks(ctx context.Context, cmd *cli.Command) error {
	input := cmd.StringArg("playlist")
	if input == "" {
		return fmt.Errorf("%w: tracks needs a playlist link, URI or id", shared.ErrMissingArgument)
	}

	accountID, err := r.accountFlag(ctx, cmd)
	if err != nil {
		return err
	}
	catalog, err := r.catalogFor(ctx, accountID)
	if err != nil {
		return err
	}

	id := resolver.ParseID(input, models.KindPlaylist)
	playlist, err := catalog.Playlist(ctx, id)
	if err != nil {
		return err
	}

	tracks, skipped, err := r.playlistTracks(ctx, catalog, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"playlist": playlist,
			"tracks":   tracks,
			"skipped":  skipped,
		}, cmd.Bool("pretty"))
	}

	r.printTracks(playlist.Name, tracks, skipped)
	return nil
}

// playlistTracks enumerates every available track of a playlist and counts the unavailable entries.
func (r *Runner) playlistTracks(ctx context.Context, catalog services.Catalog, id string) ([]models.TrackSummary, int, error) {
	lister := tasks.NewConverter(catalog, r.sessions, nil, tasks.ConverterOpts{}, tasks.WithLogger(r.logger))

	tracks := []models.TrackSummary{}
	skipped := 0
	for entry, err := range lister.Entries(ctx, catalog, id, nil) {
		if err != nil {
			return nil, 0, err
		}
		if entry.Track == nil {
			skipped++
			continue
		}
		tracks = append(tracks, *entry.Track)
	}
	return tracks, skipped, nil
}

func (r *Runner) printTracks(name string, tracks []models.TrackSummary, skipped int) {
	r.writePlain("%s", formatter.TracksToText(name, tracks))
	if skipped > 0 {
		r.writePlain("%s\n", r.styler.Warn(fmt.Sprintf("%d unavailable entries skipped", skipped)))
	}
}

// Liked lists the logged-in account's liked songs and optionally converts the shown page.
func (r *Runner) Liked(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.publicCatalog(ctx)
	if err != nil {
		return err
	}
	session, err := r.ensureSession(ctx)
	if err != nil {
		return err
	}

	account := browser.NewAccount(catalog, r.sessions, r.config.Browse.PageSize)
	if err := account.Submit(ctx, session.Account.ID); err != nil {
		return err
	}
	if err := gotoPage(ctx, cmd.Int("page"), account.Liked); err != nil {
		return err
	}

	if cmd.Bool("convert") {
		opts := tasks.ConvertOptions{AccountID: session.Account.ID}
		return r.convertTracks(ctx, likedLabel, account.Liked.Items(), true, opts, reportOptions{})
	}

	if cmd.Bool("json") {
		return r.writeJSON(viewOf(account.Liked), cmd.Bool("pretty"))
	}

	r.writePlainHeader("Liked Songs: " + session.Account.DisplayName)
	printList(r, "Tracks", account.Liked, trackLabel)
	return nil
}
