package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"

	"github.com/desertthunder/spotmp3/internal/models"
	"github.com/desertthunder/spotmp3/internal/repositories"
	"github.com/desertthunder/spotmp3/internal/services"
	"github.com/desertthunder/spotmp3/internal/shared"
	"github.com/desertthunder/spotmp3/internal/tasks"
	"github.com/desertthunder/spotmp3/internal/ui"
)

// HistoryStore is the conversion history used by the history command and the converter.
type HistoryStore interface {
	tasks.HistoryRecorder
	Get(ctx context.Context, id string) (*models.ConversionRecord, error)
	List(ctx context.Context, limit int) ([]*models.ConversionRecord, error)
	ListByReference(ctx context.Context, reference string) ([]*models.ConversionRecord, error)
	Delete(ctx context.Context, id string) error
}

// LoginFunc establishes a user session.
type LoginFunc func(ctx context.Context) (*services.Session, error)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Collaborators not supplied in [RunnerOpts] are built on first use from the loaded config.
type Runner struct {
	mu         sync.Mutex
	config     *shared.Config
	catalog    services.Catalog
	acquirer   services.Acquirer
	tagger     services.Tagger
	history    HistoryStore
	sessions   *services.SessionStore
	login      LoginFunc
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
	styler     *ui.Styler
	db         *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Catalog    services.Catalog
	Acquirer   services.Acquirer
	Tagger     services.Tagger
	History    HistoryStore
	Sessions   *services.SessionStore
	Login      LoginFunc
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Sessions == nil {
		opts.Sessions = services.NewSessionStore()
	}

	r := &Runner{
		config:     opts.Config,
		catalog:    opts.Catalog,
		acquirer:   opts.Acquirer,
		tagger:     opts.Tagger,
		history:    opts.History,
		sessions:   opts.Sessions,
		login:      opts.Login,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
		styler:     ui.NewStyler(opts.Output),
	}
	if r.login == nil {
		r.login = r.doOAuth
	}
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		searchCommand, accountCommand, tracksCommand, likedCommand, convertCommand,
		loginCommand, browseCommand, historyCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// app builds the root command.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:     "spotmp3",
		Usage:    "Browse Spotify and convert tracks, playlists & liked songs to MP3",
		Version:  "0.1.0",
		Flags:    globalFlags(),
		Before:   r.Before,
		After:    r.After,
		Commands: r.register(),
		Writer:   r.output,
	}
}

// Before loads the config file named by --config when it exists and applies env overrides.
//
// A missing file keeps the current config so `setup config` can create it.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	if cmd.Bool("no-color") {
		r.styler = ui.PlainStyler()
	}

	path := cmd.String("config")
	if _, err := os.Stat(path); err == nil {
		config, err := shared.LoadConfig(path)
		if err != nil {
			return ctx, err
		}
		r.config = config
		r.logger.Debug("loaded config", "path", path)
	} else {
		r.logger.Debug("config file not found, using defaults", "path", path)
	}

	r.config.ApplyEnv(nil)
	return ctx, nil
}

// After releases the history database if one was opened.
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// publicCatalog returns the client-credentials catalog.
func (r *Runner) publicCatalog(ctx context.Context) (services.Catalog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.catalog != nil {
		return r.catalog, nil
	}

	creds := r.config.Credentials.Spotify
	if !creds.Valid() {
		return nil, fmt.Errorf("%w: set credentials.spotify in config.toml or SPOTIFY_ID/SPOTIFY_SECRET", shared.ErrMissingCredentials)
	}

	// The token source outlives the command context.
	tokenCtx := context.WithValue(context.WithoutCancel(ctx), oauth2.HTTPClient, r.httpClient)
	catalog, err := services.NewPublicCatalog(tokenCtx, creds, services.WithCatalogLogger(r.logger))
	if err != nil {
		return nil, err
	}
	r.catalog = catalog
	return catalog, nil
}

// ensureSession logs in unless a session already exists.
func (r *Runner) ensureSession(ctx context.Context) (*services.Session, error) {
	if session, ok := r.sessions.Current(); ok {
		return session, nil
	}

	session, err := r.login(ctx)
	if err != nil {
		return nil, err
	}
	r.sessions.Set(session)
	r.logger.Info("logged in", "account", session.Account.ID)
	return session, nil
}

func (r *Runner) getAcquirer() services.Acquirer {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.acquirer == nil {
		d := r.config.Downloads
		r.acquirer = services.NewYTDLPAcquirer(services.YTDLPOptions{
			AudioFormat:  d.AudioFormat,
			AudioQuality: d.AudioQuality,
			Executable:   d.YTDLPPath,
			Logger:       r.logger,
		})
	}
	return r.acquirer
}

func (r *Runner) getTagger() services.Tagger {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tagger == nil {
		r.tagger = services.NewID3Tagger()
	}
	return r.tagger
}

// historyStore opens the configured database on first use.
func (r *Runner) historyStore(ctx context.Context) (HistoryStore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.history != nil {
		return r.history, nil
	}

	db, err := shared.OpenHistory(ctx, r.config.Database)
	if err != nil {
		return nil, err
	}
	r.db = db
	r.history = repositories.NewConversionRepository(db)
	return r.history, nil
}

// converter builds a Converter from the download settings. History is optional.
func (r *Runner) converter(ctx context.Context) (*tasks.Converter, error) {
	catalog, err := r.publicCatalog(ctx)
	if err != nil {
		return nil, err
	}

	base, err := r.config.DownloadDir()
	if err != nil {
		return nil, err
	}

	d := r.config.Downloads
	options := []tasks.ConverterOption{tasks.WithLogger(r.logger), tasks.WithTagger(r.getTagger())}
	if history, err := r.historyStore(ctx); err != nil {
		r.logger.Warn("conversion history disabled", "error", err)
	} else {
		options = append(options, tasks.WithHistory(history))
	}

	return tasks.NewConverter(catalog, r.sessions, r.getAcquirer(), tasks.ConverterOpts{
		BaseDir:      base,
		SinglesDir:   d.SinglesDir,
		Workers:      d.Workers,
		RateLimit:    d.RateLimit,
		Tag:          d.Tag,
		PlaylistFile: d.PlaylistFile,
	}, options...), nil
}

// argText joins the positional arguments, so unquoted search text works.
func argText(cmd *cli.Command) string {
	return strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", r.styler.Title(title))
	r.writePlain("═══════════════════════════════════════\n")
}
