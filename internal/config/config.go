// Package config handles configuration loading from files, defaults, and
// environment variables (§6's invocation flags double as config fields:
// file and env values are the flags' defaults, overridden in turn by the
// actual flags on the command line).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	Locale string `toml:"locale"` // comma-list subset of {ru,en}
	TZ     string `toml:"tz"`     // IANA timezone for "today"
	Glob   string `toml:"glob"`   // filename pattern
	Format string `toml:"format"` // "json" / "md" / "html"
	Agenda string `toml:"agenda"` // "day" / "week" / "month"
	Dir    string `toml:"dir"`    // root for file search
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Locale: "ru,en",
		TZ:     "Europe/Moscow",
		Glob:   "*.md",
		Format: "json",
		Agenda: "day",
		Dir:    ".",
	}
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "agenda", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config, and are in turn
// overridden by explicit command-line flags (§6).
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AGENDA_LOCALE"); v != "" {
		cfg.Locale = v
	}
	if v := os.Getenv("AGENDA_TZ"); v != "" {
		cfg.TZ = v
	}
	if v := os.Getenv("AGENDA_GLOB"); v != "" {
		cfg.Glob = v
	}
	if v := os.Getenv("AGENDA_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("AGENDA_AGENDA"); v != "" {
		cfg.Agenda = v
	}
	if v := os.Getenv("AGENDA_DIR"); v != "" {
		cfg.Dir = v
	}
}

var validFormats = map[string]bool{"json": true, "md": true, "html": true}
var validModes = map[string]bool{"day": true, "week": true, "month": true}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !validFormats[c.Format] {
		return fmt.Errorf("format must be one of json/md/html, got %q", c.Format)
	}
	if !validModes[c.Agenda] {
		return fmt.Errorf("agenda mode must be one of day/week/month, got %q", c.Agenda)
	}
	if c.Glob == "" {
		return errors.New("glob must be set")
	}
	if c.Dir == "" {
		return errors.New("dir must be set")
	}
	for _, tok := range strings.Split(c.Locale, ",") {
		tok = strings.TrimSpace(strings.ToLower(tok))
		if tok != "ru" && tok != "en" {
			return fmt.Errorf("locale must be a comma-list subset of {ru,en}, got %q", c.Locale)
		}
	}
	return nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
