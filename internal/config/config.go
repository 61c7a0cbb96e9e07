// Package config handles global rolo configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/rolo/internal/controller"
	"github.com/aidanlsb/rolo/internal/model"
)

// DefaultAutosaveSeconds is used when autosave_seconds is not set.
const DefaultAutosaveSeconds = 60

// Config represents the global rolo configuration.
type Config struct {
	// Database is the path of the card database. Relative paths are resolved
	// against the config file's directory.
	Database string `toml:"database" json:"database"`

	// StateFile overrides where state.toml lives.
	StateFile string `toml:"state_file" json:"state_file"`

	// Order is the field cards are sorted by ("site", "username", ...).
	Order string `toml:"order" json:"order"`

	// SearchOption is the default search mode: whole, all or any.
	SearchOption string `toml:"search_option" json:"search_option"`

	// AutosaveSeconds is the idle delay before pending edits are saved.
	// Zero means the default; a negative value disables autosave.
	AutosaveSeconds int `toml:"autosave_seconds" json:"autosave_seconds"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `toml:"log_level" json:"log_level"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui" json:"ui"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown rendering.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent,omitempty" json:"accent"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered markdown code blocks.
	// Example values: "monokai", "dracula", "github", "nord".
	CodeTheme string `toml:"code_theme,omitempty" json:"code_theme"`
}

// LoadOrDefault loads path, returning a default config if it doesn't exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &config, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if _, err := model.ParseField(c.Order); err != nil {
		return fmt.Errorf("order: %w", err)
	}
	if strings.TrimSpace(c.SearchOption) != "" {
		if _, err := controller.ParseSearchOption(c.SearchOption); err != nil {
			return fmt.Errorf("search_option: %w", err)
		}
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// DefaultPath returns the default config file path.
// Checks ~/.config/rolo/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "rolo", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "rolo", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

// ResolveDatabasePath resolves the card database path with precedence:
//  1. explicitDBPath flag
//  2. cfg.Database (relative to the config file dir when not absolute)
//  3. cards.db next to config.toml
func ResolveDatabasePath(explicitDBPath, configPath string, cfg *Config) string {
	var fromConfig string
	if cfg != nil {
		fromConfig = cfg.Database
	}
	return resolveNearConfig(explicitDBPath, fromConfig, configPath, "cards.db")
}

// DefaultOrder is the sort field when order is not set.
const DefaultOrder = model.FieldSite

// OrderField returns the configured sort field. Blank or unknown values sort
// by site; "all" sorts by creation order.
func (c *Config) OrderField() model.Field {
	if strings.TrimSpace(c.Order) == "" {
		return DefaultOrder
	}
	f, err := model.ParseField(c.Order)
	if err != nil {
		return DefaultOrder
	}
	return f
}

// DefaultSearchOption returns the configured search mode.
func (c *Config) DefaultSearchOption() controller.SearchOption {
	opt, err := controller.ParseSearchOption(c.SearchOption)
	if err != nil {
		return controller.FindWhole
	}
	return opt
}

// AutosaveDelay returns the idle delay before autosave, or zero when
// autosave is disabled.
func (c *Config) AutosaveDelay() time.Duration {
	switch {
	case c.AutosaveSeconds < 0:
		return 0
	case c.AutosaveSeconds == 0:
		return DefaultAutosaveSeconds * time.Second
	default:
		return time.Duration(c.AutosaveSeconds) * time.Second
	}
}

// Level returns the configured log level, defaulting to warn.
func (c *Config) Level() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, err
	}
	return level, nil
}

// CreateDefault creates a default config file at path if it doesn't exist.
func CreateDefault(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil // Already exists
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	defaultConfig := `# rolo configuration

# Card database (relative paths are resolved next to this file)
# database = "cards.db"

# Field cards are listed by: site (default), username, password, notes, all (creation order)
# order = "site"

# Default search mode: whole, all, any
# search_option = "whole"

# Seconds of inactivity before pending edits are saved (negative disables)
# autosave_seconds = 60

# log_level = "warn"

# Optional UI accent color for headers in terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
# code_theme = "monokai"
`

	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}
