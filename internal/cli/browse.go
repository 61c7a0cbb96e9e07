package cli

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/rolo/internal/config"
	"github.com/aidanlsb/rolo/internal/session"
	"github.com/aidanlsb/rolo/internal/ui"
)

var (
	browseOrder string
	browseFresh bool
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse and edit cards interactively",
	Long: `Opens an interactive session showing one card at a time. Type 'help' at
the prompt for commands.

Edits are saved when you move to another card, when you search, after the
autosave delay (autosave_seconds in config) and when the session ends.
The session resumes with the last search and card unless --fresh is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if isJSONOutput() {
			return handleErrorMsg(ErrInvalidInput, "browse is interactive and has no JSON output", "Use 'rolo find --json' instead")
		}
		order, err := parseOrder(browseOrder, cfg)
		if err != nil {
			return err
		}

		var restore *config.State
		if !browseFresh {
			st, err := config.LoadState(resolvedStatePath)
			if err != nil {
				getLogger().Warn("ignoring unreadable state", "path", resolvedStatePath, "error", err)
			} else {
				restore = st
			}
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		sess, err := session.New(session.Options{
			Gateway:       s,
			Order:         order,
			SearchOption:  cfg.DefaultSearchOption(),
			AutosaveDelay: cfg.AutosaveDelay(),
			Restore:       restore,
			Logger:        getLogger(),
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		fmt.Println(ui.Hint("Type 'help' for commands, 'quit' to leave."))
		runErr := sess.Run(ctx, os.Stdin, os.Stdout)

		st := sess.State()
		if err := config.SaveState(resolvedStatePath, &st); err != nil {
			getLogger().Warn("could not save state", "path", resolvedStatePath, "error", err)
		}
		if runErr != nil && ctx.Err() == nil {
			return runErr
		}
		return nil
	},
}

func init() {
	browseCmd.Flags().StringVar(&browseOrder, "order", "", "Sort by field")
	browseCmd.Flags().BoolVar(&browseFresh, "fresh", false, "Start with every card instead of the last search")
	rootCmd.AddCommand(browseCmd)
}
