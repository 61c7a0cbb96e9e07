package config

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/rolo/internal/atomicfile"
)

// savedConfig is Config as written to disk: blank settings are left out so
// the file stays as short as the user made it.
type savedConfig struct {
	Database        string    `toml:"database,omitempty"`
	StateFile       string    `toml:"state_file,omitempty"`
	Order           string    `toml:"order,omitempty"`
	SearchOption    string    `toml:"search_option,omitempty"`
	AutosaveSeconds int       `toml:"autosave_seconds,omitzero"`
	LogLevel        string    `toml:"log_level,omitempty"`
	UI              *UIConfig `toml:"ui,omitempty"`
}

func toSaved(c *Config) savedConfig {
	out := savedConfig{
		Database:        strings.TrimSpace(c.Database),
		StateFile:       strings.TrimSpace(c.StateFile),
		Order:           strings.TrimSpace(c.Order),
		SearchOption:    strings.TrimSpace(c.SearchOption),
		AutosaveSeconds: c.AutosaveSeconds,
		LogLevel:        strings.TrimSpace(c.LogLevel),
	}
	ui := UIConfig{
		Accent:    strings.TrimSpace(c.UI.Accent),
		CodeTheme: strings.TrimSpace(c.UI.CodeTheme),
	}
	if ui != (UIConfig{}) {
		out.UI = &ui
	}
	return out
}

// SaveTo validates cfg and writes it to path atomically.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(toSaved(cfg)); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

var setters = map[string]func(*Config, string) error{
	"database":         func(c *Config, v string) error { c.Database = v; return nil },
	"state_file":       func(c *Config, v string) error { c.StateFile = v; return nil },
	"order":            func(c *Config, v string) error { c.Order = v; return nil },
	"search_option":    func(c *Config, v string) error { c.SearchOption = v; return nil },
	"log_level":        func(c *Config, v string) error { c.LogLevel = v; return nil },
	"ui.accent":        func(c *Config, v string) error { c.UI.Accent = v; return nil },
	"ui.code_theme":    func(c *Config, v string) error { c.UI.CodeTheme = v; return nil },
	"autosave_seconds": setAutosaveSeconds,
}

func setAutosaveSeconds(c *Config, v string) error {
	if strings.TrimSpace(v) == "" {
		c.AutosaveSeconds = 0
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("autosave_seconds must be an integer: %w", err)
	}
	c.AutosaveSeconds = n
	return nil
}

// Keys lists the settings accepted by Set.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set assigns one setting by its TOML key. An empty value clears it.
func (c *Config) Set(key, value string) error {
	set, ok := setters[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return fmt.Errorf("unknown config key %q (want one of %s)", key, strings.Join(Keys(), ", "))
	}
	if err := set(c, value); err != nil {
		return err
	}
	return c.Validate()
}
