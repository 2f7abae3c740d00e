package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotmp3/internal/services"
	"github.com/desertthunder/spotmp3/internal/shared"
)

// Setup writes config.toml when missing and initializes the history database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	if err := r.SetupConfig(ctx, cmd); err != nil {
		r.logger.Warn("skipping config creation", "error", err)
	}
	return r.SetupDatabase(ctx, cmd)
}

// SetupConfig writes the example config to the --config path and loads it.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%w: config file already exists at %s", shared.ErrInvalidArgument, configPath)
	}

	r.logger.Info("config file not found, creating from template", "path", configPath)
	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load created config: %w", err)
	}
	r.config = config

	r.writePlain("Created %s. Add your Spotify client id and secret before searching.\n", configPath)
	return nil
}

// SetupDatabase initializes the database and runs migrations, or rolls back the latest with --rollback.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	path := r.config.Database.Path
	r.logger.Info("initializing database", "path", path)

	db, err := shared.NewDatabase(path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if cmd.Bool("rollback") {
		r.logger.Info("rolling back latest migration")
		if err := shared.RollbackMigration(ctx, db); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		r.writePlain("Rolled back latest migration on %s\n", path)
		return nil
	}

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", path)
	r.writePlain("Database ready at %s\n", path)
	return nil
}

// SetupYTDLP installs yt-dlp into the go-ytdlp cache.
func (r *Runner) SetupYTDLP(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("installing yt-dlp")
	exe, version, err := services.InstallYTDLP(ctx)
	if err != nil {
		return err
	}

	r.writePlain("yt-dlp %s installed at %s\n", version, exe)
	return nil
}
