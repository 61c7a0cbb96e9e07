package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/rolo/internal/config"
	"github.com/aidanlsb/rolo/internal/ui"
)

// configPaths are the files a config resolves to.
type configPaths struct {
	Config   string `json:"config"`
	State    string `json:"state"`
	Database string `json:"database"`
}

func (p configPaths) print() {
	fmt.Printf("config:   %s\n", p.Config)
	fmt.Printf("state:    %s\n", p.State)
	fmt.Printf("database: %s\n", p.Database)
}

// configReport is what `rolo config show` prints.
type configReport struct {
	Exists   bool           `json:"exists"`
	Paths    configPaths    `json:"paths"`
	Settings *config.Config `json:"settings"`
}

// loadConfigReport loads config the way other commands do, except that a
// missing file, even one named by --config, reads as the defaults. The
// config commands must work before `rolo config init`.
func loadConfigReport() (*configReport, error) {
	path := config.ResolveConfigPath(configPath)
	c, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	_, statErr := os.Stat(path)
	return &configReport{
		Exists: statErr == nil,
		Paths: configPaths{
			Config:   path,
			State:    config.ResolveStatePath(statePathFlag, path, c),
			Database: config.ResolveDatabasePath(dbPathFlag, path, c),
		},
		Settings: c,
	}, nil
}

// settings lists the non-empty settings as key/value pairs in file order.
func (r *configReport) settings() [][2]string {
	c := r.Settings
	all := [][2]string{
		{"database", c.Database},
		{"state_file", c.StateFile},
		{"order", c.Order},
		{"search_option", c.SearchOption},
		{"log_level", c.LogLevel},
		{"ui.accent", c.UI.Accent},
		{"ui.code_theme", c.UI.CodeTheme},
	}
	if c.AutosaveSeconds != 0 {
		all = append(all, [2]string{"autosave_seconds", fmt.Sprint(c.AutosaveSeconds)})
	}
	out := all[:0]
	for _, kv := range all {
		if kv[1] != "" {
			out = append(out, kv)
		}
	}
	return out
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage rolo config.toml settings",
	Long: `Shows, creates and edits config.toml.

With no subcommand, prints the current settings.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current config.toml values",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config, state and database paths",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := loadConfigReport()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		if isJSONOutput() {
			outputSuccess(r.Paths, nil)
			return nil
		}
		r.Paths.print()
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default config.toml if missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ResolveConfigPath(configPath)
		_, statErr := os.Stat(path)
		created := os.IsNotExist(statErr)

		if _, err := config.CreateDefault(path); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		switch {
		case isJSONOutput():
			outputSuccess(map[string]any{"config": path, "created": created}, nil)
		case created:
			fmt.Println(ui.Successf("Created %s", ui.FilePath(path)))
		default:
			fmt.Println(ui.Hint("Config already exists: " + path))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config.toml field (an empty value clears it)",
	Long: `Sets one config.toml field and writes the file.

Keys: database, state_file, order, search_option, autosave_seconds,
log_level, ui.accent, ui.code_theme

Examples:
  rolo config set order username
  rolo config set autosave_seconds 30
  rolo config set ui.accent ""`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := loadConfigReport()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		if err := r.Settings.Set(args[0], args[1]); err != nil {
			return handleError(ErrInvalidInput, err, "")
		}
		if err := config.SaveTo(r.Paths.Config, r.Settings); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		r.Exists = true

		if isJSONOutput() {
			outputSuccess(r, nil)
			return nil
		}
		fmt.Println(ui.Successf("Set %s in %s", args[0], ui.FilePath(r.Paths.Config)))
		return nil
	},
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	r, err := loadConfigReport()
	if err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}
	if isJSONOutput() {
		outputSuccess(r, nil)
		return nil
	}

	if !r.Exists {
		fmt.Println(ui.Warningf("No config file at %s", r.Paths.Config))
		fmt.Println(ui.Hint("Run 'rolo config init' to create it."))
		return nil
	}
	r.Paths.print()
	for _, kv := range r.settings() {
		fmt.Printf("%s: %s\n", kv[0], kv[1])
	}
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd, configPathCmd, configInitCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
