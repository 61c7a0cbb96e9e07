package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/rolo/internal/atomicfile"
)

// StateVersion is the current state file schema version.
const StateVersion = 1

// State is where the last browse session left off. It lives in state.toml,
// apart from config.toml, because rolo rewrites it on every exit.
type State struct {
	Version      int    `toml:"version"`
	LastSearch   string `toml:"last_search,omitempty"`
	LastField    string `toml:"last_field,omitempty"`
	LastOption   string `toml:"last_option,omitempty"`
	LastRecordID int    `toml:"last_record_id,omitempty"`
}

func (s State) normalized() State {
	if s.Version == 0 {
		s.Version = StateVersion
	}
	s.LastField = strings.TrimSpace(s.LastField)
	s.LastOption = strings.TrimSpace(s.LastOption)
	return s
}

var errNoStatePath = errors.New("state path is required")

// ResolveConfigPath returns explicitConfigPath, or DefaultPath when it is
// blank.
func ResolveConfigPath(explicitConfigPath string) string {
	if strings.TrimSpace(explicitConfigPath) != "" {
		return explicitConfigPath
	}
	return DefaultPath()
}

// ResolveStatePath resolves the state.toml path with precedence:
//  1. explicitStatePath flag
//  2. cfg.StateFile (relative to the config file dir when not absolute)
//  3. state.toml next to config.toml
func ResolveStatePath(explicitStatePath, configPath string, cfg *Config) string {
	var fromConfig string
	if cfg != nil {
		fromConfig = cfg.StateFile
	}
	return resolveNearConfig(explicitStatePath, fromConfig, configPath, "state.toml")
}

// resolveNearConfig picks explicit, then fromConfig, then defaultName. Paths
// from config may start with ~ and are taken relative to the config file's
// directory unless absolute.
func resolveNearConfig(explicit, fromConfig, configPath, defaultName string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	configDir := filepath.Dir(ResolveConfigPath(configPath))
	p := expandHome(strings.TrimSpace(fromConfig))
	switch {
	case p == "":
		return filepath.Join(configDir, defaultName)
	case isAbsolutePath(p):
		return filepath.Clean(filepath.FromSlash(p))
	default:
		return filepath.Join(configDir, filepath.FromSlash(p))
	}
}

// isAbsolutePath also treats slash-rooted values as absolute on Windows, so
// one config file works on every OS.
func isAbsolutePath(p string) bool {
	return filepath.IsAbs(p) || strings.HasPrefix(filepath.ToSlash(p), "/")
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// LoadState reads path. A missing file yields an empty state.
func LoadState(path string) (*State, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errNoStatePath
	}

	var state State
	if _, err := toml.DecodeFile(path, &state); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			state = State{}
		} else {
			return nil, fmt.Errorf("failed to parse state %s: %w", path, err)
		}
	}
	state = state.normalized()
	return &state, nil
}

// SaveState writes state to path atomically, readable only by the owner.
func SaveState(path string, state *State) error {
	if strings.TrimSpace(path) == "" {
		return errNoStatePath
	}
	var s State
	if state != nil {
		s = *state
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s.normalized()); err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write state %s: %w", path, err)
	}
	return nil
}
