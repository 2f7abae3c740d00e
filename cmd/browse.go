package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotmp3/internal/browser"
	"github.com/desertthunder/spotmp3/internal/models"
	"github.com/desertthunder/spotmp3/internal/shared"
	"github.com/desertthunder/spotmp3/internal/tasks"
)

const browseHelp = `Commands:
  search <text|link>        search tracks & playlists, or show a linked item
  account <user|link>       list an account's playlists and liked songs
  login                     log in to Spotify (enables liked songs & private playlists)
  next <list>, prev <list>  page a list: tracks, playlists, account, liked
  page <list> <n>           jump to page n of a list
  convert <list> <n>        convert item n of a list ("convert liked" converts the shown page)
  tracks <list> <n>         show every track of playlist n
  show                      print all lists again
  help                      show this help
  quit                      leave`

// errQuit ends the prompt loop.
var errQuit = errors.New("quit")

// prompt is the state of one interactive prompt.
type prompt struct {
	r       *Runner
	search  *browser.Search
	account *browser.Account
}

// Browse runs the interactive line prompt until quit or end of input.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.publicCatalog(ctx)
	if err != nil {
		return err
	}

	s := &prompt{
		r:       r,
		search:  browser.NewSearch(catalog, r.config.Browse.PageSize),
		account: browser.NewAccount(catalog, r.sessions, r.config.Browse.PageSize),
	}

	r.writePlainHeader("spotmp3")
	r.writePlain("%s\n", r.styler.Help(`Type "help" for commands.`))

	scanner := bufio.NewScanner(r.input)
	for {
		r.writePlain("> ")
		if !scanner.Scan() {
			r.writePlain("\n")
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if err := s.exec(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			r.writePlain("%s\n", r.styler.Err("error: "+err.Error()))
		}
	}
}

// exec runs one prompt line.
func (s *prompt) exec(ctx context.Context, line string) error {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)

	switch strings.ToLower(name) {
	case "search", "s":
		if _, err := s.search.Submit(ctx, rest); err != nil {
			return err
		}
		s.showSearch()
	case "account", "a":
		if err := s.account.Submit(ctx, rest); err != nil {
			return err
		}
		s.showAccount()
	case "login":
		session, err := s.r.ensureSession(ctx)
		if err != nil {
			return err
		}
		s.r.writePlain("%s Logged in as %s (%s)\n", s.r.styler.OK("✓"), session.Account.DisplayName, session.Account.ID)
		if s.account.AccountID() != "" {
			if err := s.account.LoadLiked(ctx); err != nil {
				return err
			}
			s.showAccount()
		}
	case "next", "n", "prev", "p":
		if len(args) != 1 {
			return fmt.Errorf("%w: usage: %s <list>", shared.ErrMissingArgument, name)
		}
		return s.step(ctx, args[0], strings.HasPrefix(strings.ToLower(name), "n"))
	case "page":
		if len(args) != 2 {
			return fmt.Errorf("%w: usage: page <list> <n>", shared.ErrMissingArgument)
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: page %q is not a number", shared.ErrInvalidArgument, args[1])
		}
		return s.jump(ctx, args[0], n)
	case "convert", "c":
		return s.convert(ctx, args)
	case "tracks", "t":
		return s.tracks(ctx, args)
	case "show":
		s.showSearch()
		s.showAccount()
	case "help", "?":
		s.r.writePlain("%s\n", browseHelp)
	case "quit", "exit", "q":
		return errQuit
	default:
		return fmt.Errorf("%w: unknown command %q (try help)", shared.ErrInvalidInput, name)
	}
	return nil
}

func (s *prompt) showSearch() {
	if artist, ok := s.search.Artist(); ok {
		s.r.writePlainln("%s (%s)", s.r.styler.Title("Artist: "+artist.Name), artist.ID)
		return
	}
	printList(s.r, "Tracks", s.search.Tracks, trackLabel)
	printList(s.r, "Playlists", s.search.Playlists, playlistLabel)
}

func (s *prompt) showAccount() {
	printList(s.r, "Account Playlists", s.account.Playlists, playlistLabel)
	printList(s.r, "Liked Songs", s.account.Liked, trackLabel)
}

// step moves a list forward or back and reprints it.
func (s *prompt) step(ctx context.Context, list string, forward bool) error {
	var moved bool
	var err error

	switch list {
	case "tracks":
		moved, err = direction(forward, s.search.Tracks.Next, s.search.Tracks.Prev)(ctx)
	case "playlists":
		moved, err = direction(forward, s.search.Playlists.Next, s.search.Playlists.Prev)(ctx)
	case "account":
		moved, err = direction(forward, s.account.Playlists.Next, s.account.Playlists.Prev)(ctx)
	case "liked":
		moved, err = direction(forward, s.account.LikedNext, s.account.LikedPrev)(ctx)
	default:
		return unknownList(list)
	}
	if err != nil {
		return err
	}
	if !moved {
		s.r.writePlain("%s\n", s.r.styler.Help("No more pages."))
	}
	s.print(list)
	return nil
}

func direction(forward bool, next, prev func(context.Context) (bool, error)) func(context.Context) (bool, error) {
	if forward {
		return next
	}
	return prev
}

func (s *prompt) jump(ctx context.Context, list string, page int) error {
	var err error
	switch list {
	case "tracks":
		err = s.search.Tracks.Goto(ctx, page)
	case "playlists":
		err = s.search.Playlists.Goto(ctx, page)
	case "account":
		err = s.account.Playlists.Goto(ctx, page)
	case "liked":
		err = s.account.LikedGoto(ctx, page)
	default:
		return unknownList(list)
	}
	if err != nil {
		return err
	}
	s.print(list)
	return nil
}

func (s *prompt) print(list string) {
	switch list {
	case "tracks":
		printList(s.r, "Tracks", s.search.Tracks, trackLabel)
	case "playlists":
		printList(s.r, "Playlists", s.search.Playlists, playlistLabel)
	case "account":
		printList(s.r, "Account Playlists", s.account.Playlists, playlistLabel)
	case "liked":
		printList(s.r, "Liked Songs", s.account.Liked, trackLabel)
	}
}

func unknownList(list string) error {
	return fmt.Errorf("%w: unknown list %q (tracks, playlists, account, liked)", shared.ErrInvalidInput, list)
}

// selectAt turns the displayed number n into an item of the current page.
func selectAt[T any](l *browser.List[T], arg string) (T, error) {
	var zero T
	n, err := strconv.Atoi(arg)
	if err != nil {
		return zero, fmt.Errorf("%w: %q is not a number", shared.ErrInvalidSelection, arg)
	}
	return l.Select(n - 1 - l.State().Offset)
}

// playlistAt resolves item n of a playlist list with the loaded account, which decides catalog routing.
func (s *prompt) playlistAt(list, arg string) (models.PlaylistSummary, string, error) {
	switch list {
	case "playlists":
		p, err := selectAt(s.search.Playlists, arg)
		return p, s.account.AccountID(), err
	case "account":
		p, err := selectAt(s.account.Playlists, arg)
		return p, s.account.AccountID(), err
	default:
		return models.PlaylistSummary{}, "", fmt.Errorf("%w: %q is not a playlist list", shared.ErrInvalidSelection, list)
	}
}

func (s *prompt) convert(ctx context.Context, args []string) error {
	if len(args) == 1 && args[0] == "liked" {
		items := s.account.Liked.Items()
		opts := tasks.ConvertOptions{AccountID: s.account.AccountID()}
		return s.r.convertTracks(ctx, likedLabel, items, true, opts, reportOptions{})
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: usage: convert <list> <n>", shared.ErrMissingArgument)
	}

	switch list := args[0]; list {
	case "tracks", "liked":
		l := s.search.Tracks
		if list == "liked" {
			l = s.account.Liked
		}
		track, err := selectAt(l, args[1])
		if err != nil {
			return err
		}
		return s.r.convertTracks(ctx, track.Label(), []models.TrackSummary{track}, false, tasks.ConvertOptions{}, reportOptions{})
	default:
		playlist, accountID, err := s.playlistAt(list, args[1])
		if err != nil {
			return err
		}
		ref := models.ItemReference{Kind: models.KindPlaylist, Value: playlist.ID}
		return s.r.convertReference(ctx, ref, tasks.ConvertOptions{AccountID: accountID}, reportOptions{})
	}
}

// tracks prints every track of the selected playlist.
func (s *prompt) tracks(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: usage: tracks <list> <n>", shared.ErrMissingArgument)
	}

	playlist, accountID, err := s.playlistAt(args[0], args[1])
	if err != nil {
		return err
	}

	catalog, err := s.r.catalogFor(ctx, accountID)
	if err != nil {
		return err
	}
	tracks, skipped, err := s.r.playlistTracks(ctx, catalog, playlist.ID)
	if err != nil {
		return err
	}
	s.r.printTracks(playlist.Name, tracks, skipped)
	return nil
}
