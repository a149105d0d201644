// Package config loads linkshelf's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvConfigPath = "LINKSHELF_CONFIG"
	EnvEndpoint   = "LINKSHELF_ENDPOINT"
	EnvAppID      = "LINKSHELF_APP_ID"
	EnvAPIKey     = "LINKSHELF_API_KEY"
)

// Config holds all application configuration.
type Config struct {
	Endpoint      string `yaml:"endpoint"`
	Class         string `yaml:"class"`
	ApplicationID string `yaml:"application_id"`
	APIKey        string `yaml:"api_key"`
	TimeoutSecs   int    `yaml:"timeout_secs"`
	ListenAddr    string `yaml:"listen_addr"`
	Store         Store  `yaml:"store"`
	LogLevel      string `yaml:"log_level"`
	LogFile       string `yaml:"log_file"`
}

// Store configures the local record server.
type Store struct {
	ListenAddr string `yaml:"listen_addr"`
	Path       string `yaml:"path"`
}

// Defaults returns a Config pointing at a record server on localhost.
func Defaults() Config {
	return Config{
		Endpoint:      "http://127.0.0.1:1337",
		Class:         "Bookmarks",
		ApplicationID: "linkshelf",
		APIKey:        "linkshelf",
		TimeoutSecs:   10,
		ListenAddr:    "127.0.0.1:8080",
		Store: Store{
			ListenAddr: "127.0.0.1:1337",
			Path:       "records.db",
		},
		LogLevel: "info",
	}
}

// DefaultPath returns $LINKSHELF_CONFIG, or ~/.config/linkshelf/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "linkshelf", "config.yaml"), nil
}

// Load reads the config at path, applies environment overrides and
// validates the result. A missing file is created with defaults.
// A relative store path is resolved against the config file's directory.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if saveErr := Save(path, cfg); saveErr != nil {
			// Non-fatal: run on defaults even if they can't be written
			slog.Warn("could not write default config", "path", path, "error", saveErr)
		}
	case err != nil:
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if v := os.Getenv(EnvEndpoint); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv(EnvAppID); v != "" {
		cfg.ApplicationID = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.APIKey = v
	}

	if cfg.Store.Path != "" && !filepath.IsAbs(cfg.Store.Path) {
		cfg.Store.Path = filepath.Join(filepath.Dir(path), cfg.Store.Path)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that values are usable.
func (c Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("endpoint must be an absolute http(s) URL, got %q", c.Endpoint)
	}
	if c.Class == "" {
		return fmt.Errorf("class is required")
	}
	if c.TimeoutSecs <= 0 {
		return fmt.Errorf("timeout_secs must be positive, got %d", c.TimeoutSecs)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Timeout returns the record store request timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// Level returns the configured log level. Validate has already rejected
// unknown names, so this falls back to info only for unvalidated configs.
func (c Config) Level() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLevel maps debug, info, warn and error onto slog levels.
// The empty string is info.
func ParseLevel(name string) (slog.Level, error) {
	switch name {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log_level %q", name)
	}
}
