package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./spotmp3.db" {
			t.Errorf("expected database path ./spotmp3.db, got %s", config.Database.Path)
		}
		if config.Server.Addr() != "127.0.0.1:8888" {
			t.Errorf("expected server addr 127.0.0.1:8888, got %s", config.Server.Addr())
		}
		if config.Browse.PageSize != 10 {
			t.Errorf("expected page size 10, got %d", config.Browse.PageSize)
		}
		if config.Downloads.SinglesDir != "SpotifySingles" {
			t.Errorf("expected singles dir SpotifySingles, got %s", config.Downloads.SinglesDir)
		}
		if config.Downloads.AudioFormat != "mp3" || config.Downloads.AudioQuality != "192K" {
			t.Errorf("unexpected audio settings %s/%s", config.Downloads.AudioFormat, config.Downloads.AudioQuality)
		}
		if config.Credentials.Spotify.Valid() {
			t.Error("placeholder credentials should not be valid")
		}
		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"

[downloads]
base_dir = "/music"
workers = 4
rate_limit = 2.5

[browse]
page_size = 25
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if !config.Credentials.Spotify.Valid() {
			t.Error("expected credentials to be valid")
		}
		if config.Downloads.BaseDir != "/music" || config.Downloads.Workers != 4 || config.Downloads.RateLimit != 2.5 {
			t.Errorf("unexpected downloads config %+v", config.Downloads)
		}
		if config.Browse.PageSize != 25 {
			t.Errorf("expected page size 25, got %d", config.Browse.PageSize)
		}
		if config.Downloads.SinglesDir != "SpotifySingles" {
			t.Errorf("expected missing keys to keep defaults, got %q", config.Downloads.SinglesDir)
		}
	})

	t.Run("LoadConfig rejects invalid values", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")
		if err := os.WriteFile(configPath, []byte("[browse]\npage_size = 0\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfig rejects malformed toml", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")
		if err := os.WriteFile(configPath, []byte("[browse\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfig reports a missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		config := DefaultConfig()
		env := map[string]string{"SPOTIFY_ID": "env_id", "SPOTIFY_SECRET": "env_secret"}
		config.ApplyEnv(func(k string) string { return env[k] })

		if config.Credentials.Spotify.ClientID != "env_id" || config.Credentials.Spotify.ClientSecret != "env_secret" {
			t.Errorf("expected env credentials, got %+v", config.Credentials.Spotify)
		}
	})

	t.Run("ExpandHome", func(t *testing.T) {
		home, err := os.UserHomeDir()
		if err != nil {
			t.Skip("no home directory")
		}

		got, err := ExpandHome("~/Desktop/SpotifyMP3s")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := filepath.Join(home, "Desktop", "SpotifyMP3s"); got != want {
			t.Errorf("ExpandHome() = %s, want %s", got, want)
		}

		if got, _ := ExpandHome("/abs/path"); got != "/abs/path" {
			t.Errorf("absolute path should be unchanged, got %s", got)
		}
	})
}
