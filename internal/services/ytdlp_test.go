package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/spotmp3/internal/shared"
	"github.com/lrstanley/go-ytdlp"
)

// fakeDownloader writes a file named after the output template instead of running yt-dlp.
type fakeDownloader struct {
	output string
	ext    string
	err    error
	args   *[]string
}

func (f *fakeDownloader) Run(ctx context.Context, args ...string) (*ytdlp.Result, error) {
	*f.args = append(*f.args, args...)
	if f.err != nil {
		return nil, f.err
	}
	if f.ext == "" {
		return &ytdlp.Result{}, nil
	}
	path := strings.ReplaceAll(strings.Replace(f.output, "%(ext)s", f.ext, 1), "%%", "%")
	return &ytdlp.Result{}, os.WriteFile(path, []byte("audio"), 0644)
}

func newFakeAcquirer(ext string, err error) (*YTDLPAcquirer, *[]string, *[]string) {
	var outputs, args []string
	a := NewYTDLPAcquirer(YTDLPOptions{})
	a.build = func(output string) downloader {
		outputs = append(outputs, output)
		return &fakeDownloader{output: output, ext: ext, err: err, args: &args}
	}
	return a, &outputs, &args
}

func TestYTDLPAcquirer(t *testing.T) {
	ctx := context.Background()

	t.Run("Fetch writes sanitized file", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "Road Trip")
		a, outputs, args := newFakeAcquirer("mp3", nil)

		path, err := a.Fetch(ctx, "AC/DC: Live?", "Band", dir)
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}

		if want := filepath.Join(dir, "AC_DC_ Live_ - Band.mp3"); path != want {
			t.Errorf("Fetch() = %s, want %s", path, want)
		}
		if (*args)[0] != "ytsearch:AC/DC: Live? Band audio" {
			t.Errorf("unexpected search %q", (*args)[0])
		}
		if !strings.HasSuffix((*outputs)[0], ".%(ext)s") {
			t.Errorf("unexpected output template %q", (*outputs)[0])
		}
	})

	t.Run("Percent signs are escaped in template", func(t *testing.T) {
		a, outputs, _ := newFakeAcquirer("mp3", nil)

		path, err := a.Fetch(ctx, "100% Pure", "Artist", t.TempDir())
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if !strings.Contains((*outputs)[0], "100%% Pure") {
			t.Errorf("expected escaped percent in %q", (*outputs)[0])
		}
		if filepath.Base(path) != "100% Pure - Artist.mp3" {
			t.Errorf("unexpected path %s", path)
		}
	})

	t.Run("Falls back to other extensions", func(t *testing.T) {
		a, _, _ := newFakeAcquirer("m4a", nil)

		path, err := a.Fetch(ctx, "Song", "Artist", t.TempDir())
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if filepath.Ext(path) != ".m4a" {
			t.Errorf("expected m4a file, got %s", path)
		}
	})

	t.Run("Run failure", func(t *testing.T) {
		a, _, _ := newFakeAcquirer("", errors.New("exit status 1"))

		if _, err := a.Fetch(ctx, "Song", "Artist", t.TempDir()); err == nil || !strings.Contains(err.Error(), "exit status 1") {
			t.Errorf("expected run error, got %v", err)
		}
	})

	t.Run("No file written", func(t *testing.T) {
		a, _, _ := newFakeAcquirer("", nil)

		if _, err := a.Fetch(ctx, "Song", "Artist", t.TempDir()); err == nil {
			t.Error("expected error when no file is produced")
		}
	})

	t.Run("Empty title", func(t *testing.T) {
		a, _, _ := newFakeAcquirer("mp3", nil)

		if _, err := a.Fetch(ctx, " ", "Artist", t.TempDir()); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		a := NewYTDLPAcquirer(YTDLPOptions{})
		if a.opts.AudioFormat != "mp3" || a.opts.AudioQuality != "192K" {
			t.Errorf("unexpected defaults %+v", a.opts)
		}
		if a.command("out.%(ext)s") == nil {
			t.Error("expected a command")
		}
	})
}
