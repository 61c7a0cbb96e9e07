package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/rolo/internal/ui"
)

var (
	deleteID    int
	deleteForce bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete [numbers...]",
	Short: "Delete cards from the last list or find",
	Long: `Deletes cards by their number in the last 'rolo list' or 'rolo find', or by
ID with --id. Asks for confirmation unless --force is used.

Examples:
  rolo delete 3
  rolo delete 2,4 --force
  rolo delete --id 42 --json --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if deleteID == 0 && len(args) == 0 {
			return handleErrorMsg(ErrMissingArgument, "requires card numbers or --id", "Usage: rolo delete <numbers...>")
		}

		s, err := openStore()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer s.Close()

		cards, err := selectCards(s, args, deleteID)
		if err != nil {
			return selectError(err)
		}

		if !deleteForce {
			titles := make([]string, len(cards))
			for i, c := range cards {
				titles[i] = c.Title()
			}
			if !shouldPromptForConfirm() {
				return handleErrorMsg(ErrConfirmationRequired,
					fmt.Sprintf("refusing to delete %s without confirmation", strings.Join(titles, ", ")),
					"Use --force to delete without a prompt")
			}
			if !promptForConfirm(fmt.Sprintf("Delete %s?", strings.Join(titles, ", "))) {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		deleted := make([]int, 0, len(cards))
		for _, c := range cards {
			if err := s.Delete(c); err != nil {
				return handleError(ErrDatabaseError, fmt.Errorf("delete %s: %w", c.Title(), err), "")
			}
			deleted = append(deleted, c.ID)
			if !isJSONOutput() {
				fmt.Println(ui.Successf("Deleted %s", c.Title()))
			}
		}

		if isJSONOutput() {
			outputSuccess(map[string]any{"deleted": deleted}, &Meta{Count: len(deleted)})
		}
		return nil
	},
}

func init() {
	deleteCmd.Flags().IntVar(&deleteID, "id", 0, "Delete the card with this ID")
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation")
	rootCmd.AddCommand(deleteCmd)
}
