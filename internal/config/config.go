// Package config reads runtime settings from GRUNDY_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"

	"grundy/internal/bible"
)

// Backend names a save storage implementation.
type Backend string

const (
	BackendJSON   Backend = "json"
	BackendSQLite Backend = "sqlite"
)

// Config is the process configuration. Empty paths are filled with
// locations under DefaultDir by Load.
type Config struct {
	SavePath    string         `env:"GRUNDY_SAVE_PATH"`
	SaveBackend Backend        `env:"GRUNDY_SAVE_BACKEND" envDefault:"json"`
	PlayMode    bible.PlayMode `env:"GRUNDY_PLAY_MODE"    envDefault:"cozy"`
	Seed        uint64         `env:"GRUNDY_SEED"         envDefault:"0"`
	LogLevel    string         `env:"GRUNDY_LOG_LEVEL"    envDefault:"info"`
	LogPath     string         `env:"GRUNDY_LOG_PATH"`
	Subscriber  bool           `env:"GRUNDY_SUBSCRIBER"   envDefault:"false"`
	// Overrides is an optional YAML file of shop price overrides.
	Overrides string `env:"GRUNDY_CATALOG_OVERRIDES"`
}

// DefaultDir is where saves and logs live unless configured otherwise.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	return filepath.Join(home, ".config", "grundy"), nil
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.fillPaths(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) fillPaths() error {
	if c.SavePath != "" && c.LogPath != "" {
		return nil
	}
	dir, err := DefaultDir()
	if err != nil {
		return err
	}
	if c.SavePath == "" {
		name := "save.json"
		if c.SaveBackend == BackendSQLite {
			name = "save.db"
		}
		c.SavePath = filepath.Join(dir, name)
	}
	if c.LogPath == "" {
		c.LogPath = filepath.Join(dir, "grundy.log")
	}
	return nil
}

// Validate rejects unknown backends, play modes and log levels.
func (c Config) Validate() error {
	switch c.SaveBackend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("config: unknown save backend %q", c.SaveBackend)
	}
	if !c.PlayMode.Valid() {
		return fmt.Errorf("config: unknown play mode %q", c.PlayMode)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level converts LogLevel to a slog level.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("config: log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
