// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/rolo/internal/config"
	"github.com/aidanlsb/rolo/internal/store"
	"github.com/aidanlsb/rolo/internal/ui"
)

var (
	configPath    string
	dbPathFlag    string
	statePathFlag string

	// Set by resolveGlobals before a command runs.
	resolvedConfigPath string
	resolvedDBPath     string
	resolvedStatePath  string
	cfg                *config.Config
	logger             *slog.Logger
)

// standalone marks commands that run before, or without, a loaded config.
// Subcommands inherit it.
const standalone = "rolo.standalone"

var rootCmd = &cobra.Command{
	Use:   "rolo",
	Short: "Rolo - a card file for site logins",
	Long: `Rolo keeps a card for every site you log in to: the site, your username,
the password and free-form notes. Cards live in a local SQLite database.

Browse them one at a time with 'rolo browse', or list, find and show them
straight from the shell.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if isStandalone(cmd) {
			return nil
		}
		err := resolveGlobals()
		if err != nil && isJSONOutput() {
			outputErrorFromErr(ErrConfigInvalid, err, "Run 'rolo config show' to check it")
		}
		return err
	},
}

func isStandalone(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[standalone]; ok {
			return true
		}
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to config file")
	flags.StringVar(&dbPathFlag, "db", "", "Path to card database (overrides database in config)")
	flags.StringVar(&statePathFlag, "state", "", "Path to state file (overrides state_file in config)")
	flags.BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")

	for _, cmd := range []*cobra.Command{versionCmd, initCmd, configCmd} {
		cmd.Annotations = map[string]string{standalone: ""}
	}
}

// resolveGlobals loads the config file and derives everything commands
// share from it: paths, theme and logger. An explicit --config must exist.
func resolveGlobals() error {
	resolvedConfigPath = config.ResolveConfigPath(configPath)
	load := config.LoadOrDefault
	if strings.TrimSpace(configPath) != "" {
		load = config.LoadFrom
	}
	loaded, err := load(resolvedConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = loaded

	resolvedStatePath = config.ResolveStatePath(statePathFlag, resolvedConfigPath, cfg)
	resolvedDBPath = config.ResolveDatabasePath(dbPathFlag, resolvedConfigPath, cfg)

	ui.ConfigureTheme(cfg.UI.Accent)
	ui.ConfigureMarkdownCodeTheme(cfg.UI.CodeTheme)

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)
	return nil
}

// openStore opens the resolved card database.
func openStore() (*store.Store, error) {
	s, err := store.Open(resolvedDBPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", resolvedDBPath, err)
	}
	return s, nil
}

// getLogger returns the CLI logger, slog.Default() before globals resolve.
func getLogger() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
