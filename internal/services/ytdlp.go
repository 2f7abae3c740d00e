package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotmp3/internal/shared"
	"github.com/lrstanley/go-ytdlp"
)

// downloader is the part of [ytdlp.Command] the acquirer drives.
type downloader interface {
	Run(ctx context.Context, args ...string) (*ytdlp.Result, error)
}

// YTDLPOptions configures audio extraction.
type YTDLPOptions struct {
	AudioFormat  string // mp3 by default
	AudioQuality string // 192K by default
	Executable   string // empty resolves yt-dlp from PATH or the go-ytdlp cache
	Logger       *log.Logger
}

// YTDLPAcquirer implements [Acquirer] with yt-dlp.
//
// Each fetch runs a single "ytsearch:" query and extracts the best audio stream of the first hit.
type YTDLPAcquirer struct {
	opts   YTDLPOptions
	logger *log.Logger
	build  func(output string) downloader
}

// NewYTDLPAcquirer returns an acquirer with defaults applied to opts.
func NewYTDLPAcquirer(opts YTDLPOptions) *YTDLPAcquirer {
	if opts.AudioFormat == "" {
		opts.AudioFormat = "mp3"
	}
	if opts.AudioQuality == "" {
		opts.AudioQuality = "192K"
	}

	a := &YTDLPAcquirer{opts: opts, logger: shared.WithLogger(opts.Logger, "service", "ytdlp")}
	a.build = a.command
	return a
}

func (a *YTDLPAcquirer) command(output string) downloader {
	cmd := ytdlp.New().
		Format("bestaudio/best").
		ExtractAudio().
		AudioFormat(a.opts.AudioFormat).
		AudioQuality(a.opts.AudioQuality).
		NoPlaylist().
		Quiet().
		NoWarnings().
		Output(output)

	if a.opts.Executable != "" {
		cmd.SetExecutable(a.opts.Executable)
	}
	return cmd
}

// SearchQuery is the yt-dlp search passed for a track.
func SearchQuery(title, artist string) string {
	return fmt.Sprintf("ytsearch:%s %s audio", title, artist)
}

// FileBase is the file name, without extension, used for a track.
func FileBase(title, artist string) string {
	return shared.SanitizeName(title + " - " + artist)
}

// Fetch downloads audio for title and artist into dir and returns the written file.
func (a *YTDLPAcquirer) Fetch(ctx context.Context, title, artist, dir string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("%w: track title is empty", shared.ErrInvalidInput)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	base := FileBase(title, artist)
	output := filepath.Join(dir, strings.ReplaceAll(base, "%", "%%")+".%(ext)s")
	query := SearchQuery(title, artist)

	a.logger.Debug("running yt-dlp", "query", query, "output", output)
	if _, err := a.build(output).Run(ctx, query); err != nil {
		return "", fmt.Errorf("yt-dlp %q: %w", query, err)
	}

	return a.locate(dir, base)
}

// locate finds the file yt-dlp produced for base, preferring the configured audio format.
func (a *YTDLPAcquirer) locate(dir, base string) (string, error) {
	expected := filepath.Join(dir, base+"."+a.opts.AudioFormat)
	if _, err := os.Stat(expected); err == nil {
		return expected, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, base+".") || strings.HasSuffix(name, ".part") {
			continue
		}
		return filepath.Join(dir, name), nil
	}

	return "", errors.New("yt-dlp finished without writing an audio file")
}

// InstallYTDLP downloads yt-dlp into the go-ytdlp cache if needed and returns its path and version.
func InstallYTDLP(ctx context.Context) (string, string, error) {
	resolved, err := ytdlp.Install(ctx, nil)
	if err != nil {
		return "", "", fmt.Errorf("%w: install yt-dlp: %w", shared.ErrServiceUnavailable, err)
	}
	return resolved.Executable, resolved.Version, nil
}
