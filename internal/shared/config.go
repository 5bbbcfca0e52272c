package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	EnvClientID     = "SPOTIFY_CLIENT_ID"
	EnvClientSecret = "SPOTIFY_CLIENT_SECRET"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Spotify     SpotifySettings   `toml:"spotify"`
	Analysis    AnalysisConfig    `toml:"analysis"`
	History     HistoryConfig     `toml:"history"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains the client-credentials pair for the Spotify Web API.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// SpotifySettings tunes how the analyser talks to the Spotify Web API.
type SpotifySettings struct {
	RateLimit      float64 `toml:"rate_limit"`
	Retry          bool    `toml:"retry"`
	Market         string  `toml:"market"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// Timeout returns the analysis deadline, falling back to two minutes.
func (s SpotifySettings) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// AnalysisConfig selects how playlists are compared.
type AnalysisConfig struct {
	Vocabulary string `toml:"vocabulary"`
}

// HistoryConfig toggles the SQLite report history.
type HistoryConfig struct {
	Enabled bool `toml:"enabled"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr joins host and port for [net/http.Server].
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig sets the minimum log level.
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
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

// LoadConfigOrDefault loads path when it exists and falls back to [DefaultConfig] otherwise.
//
// A file that exists but cannot be parsed is an error rather than a silent fallback.
func LoadConfigOrDefault(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
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

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports settings that would only fail later, mid-analysis.
func (c *Config) Validate() error {
	switch c.Analysis.Vocabulary {
	case "", "union", "directional":
	default:
		return fmt.Errorf("%w: analysis.vocabulary must be \"union\" or \"directional\", got %q", ErrInvalidConfig, c.Analysis.Vocabulary)
	}

	if c.Spotify.RateLimit < 0 {
		return fmt.Errorf("%w: spotify.rate_limit must not be negative", ErrInvalidConfig)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}

	return nil
}

// ResolveCredentials returns the Spotify client credentials.
//
// Lookup order: environment (after loading envFile, which never overrides variables already set),
// then the config file, then [ErrMissingCredentials]. Each half of the pair is resolved independently.
func ResolveCredentials(c *Config, envFile string) (SpotifyConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return SpotifyConfig{}, fmt.Errorf("%w: failed to load %s: %v", ErrInvalidConfig, envFile, err)
		}
	}

	creds := SpotifyConfig{
		ClientID:     os.Getenv(EnvClientID),
		ClientSecret: os.Getenv(EnvClientSecret),
	}

	if c != nil {
		if creds.ClientID == "" {
			creds.ClientID = c.Credentials.Spotify.ClientID
		}
		if creds.ClientSecret == "" {
			creds.ClientSecret = c.Credentials.Spotify.ClientSecret
		}
	}

	if creds.ClientID == "" || creds.ClientSecret == "" {
		return SpotifyConfig{}, fmt.Errorf("%w: set %s and %s or [credentials.spotify] in config.toml", ErrMissingCredentials, EnvClientID, EnvClientSecret)
	}

	return creds, nil
}
