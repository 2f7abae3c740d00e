package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Downloads   DownloadsConfig   `toml:"downloads"`
	Browse      BrowseConfig      `toml:"browse"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API application credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// Valid reports whether the application credentials are present and not the example placeholders.
func (s SpotifyConfig) Valid() bool {
	if s.ClientID == "" || s.ClientSecret == "" {
		return false
	}
	return !strings.HasPrefix(s.ClientID, "your_") && !strings.HasPrefix(s.ClientSecret, "your_")
}

// ServerConfig contains the OAuth callback server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the listen address of the callback server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// DownloadsConfig controls where and how audio is acquired.
type DownloadsConfig struct {
	BaseDir      string  `toml:"base_dir"`
	SinglesDir   string  `toml:"singles_dir"`
	AudioFormat  string  `toml:"audio_format"`
	AudioQuality string  `toml:"audio_quality"`
	Workers      int     `toml:"workers"`
	RateLimit    float64 `toml:"rate_limit"`
	YTDLPPath    string  `toml:"ytdlp_path"`
	Tag          bool    `toml:"tag"`
	PlaylistFile bool    `toml:"playlist_file"`
}

// BrowseConfig controls pagination of result lists.
type BrowseConfig struct {
	PageSize int `toml:"page_size"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks value ranges that would otherwise break pagination or the worker pool.
func (c *Config) Validate() error {
	if c.Browse.PageSize <= 0 {
		return fmt.Errorf("%w: browse.page_size must be positive, got %d", ErrInvalidConfig, c.Browse.PageSize)
	}
	if c.Downloads.Workers < 0 {
		return fmt.Errorf("%w: downloads.workers must not be negative", ErrInvalidConfig)
	}
	if c.Downloads.RateLimit < 0 {
		return fmt.Errorf("%w: downloads.rate_limit must not be negative", ErrInvalidConfig)
	}
	if c.Downloads.BaseDir == "" {
		return fmt.Errorf("%w: downloads.base_dir is empty", ErrInvalidConfig)
	}
	return nil
}

// ApplyEnv overrides Spotify credentials with SPOTIFY_ID and SPOTIFY_SECRET when set.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if id := getenv("SPOTIFY_ID"); id != "" {
		c.Credentials.Spotify.ClientID = id
	}
	if secret := getenv("SPOTIFY_SECRET"); secret != "" {
		c.Credentials.Spotify.ClientSecret = secret
	}
}

// DownloadDir returns the base download directory with a leading ~ expanded.
func (c *Config) DownloadDir() (string, error) {
	return ExpandHome(c.Downloads.BaseDir)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
