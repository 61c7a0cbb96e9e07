package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/rolo/internal/config"
	"github.com/aidanlsb/rolo/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config file and card database",
	Long: `Creates a default config.toml (unless one exists) and an empty card
database at the configured location.

Creates:
  - ~/.config/rolo/config.toml   (or the path given by --config)
  - cards.db next to it          (or the path given by --db or database in config)`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ResolveConfigPath(configPath)
		if _, err := config.CreateDefault(path); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		if err := resolveGlobals(); err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		s, err := openStore()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer s.Close()
		count, err := s.Count()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]any{
				"config":   resolvedConfigPath,
				"database": resolvedDBPath,
				"cards":    count,
			}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Config:   %s", ui.FilePath(resolvedConfigPath)))
		fmt.Println(ui.Successf("Database: %s %s", ui.FilePath(resolvedDBPath), ui.Count(count, "card", "cards")))
		fmt.Println(ui.Hint("Add a card with 'rolo add --site <site>' or start 'rolo browse'."))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
