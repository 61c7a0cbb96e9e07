package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/rolo/internal/exchange"
	"github.com/aidanlsb/rolo/internal/ui"
)

var importCmd = &cobra.Command{
	Use:   "import <path>...",
	Short: "Import cards from markdown files",
	Long: `Reads cards written by 'rolo export'. Each path may be a file or a
directory of .md files. Every imported card is added as a new card; files
that cannot be parsed are skipped with a warning.

Examples:
  rolo import ~/backup/cards
  rolo import github.md gitlab.md`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := exchange.Import(args...)
		if err != nil {
			return handleError(ErrFileReadError, err, "")
		}

		s, err := openStore()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer s.Close()

		var p *ui.Progress
		if !isJSONOutput() {
			p = ui.NewProgress("Importing", len(result.Cards))
		}
		ids := make([]int, 0, len(result.Cards))
		for i, c := range result.Cards {
			if err := s.InsertOrUpdate(c); err != nil {
				p.Done()
				return handleError(ErrDatabaseError, fmt.Errorf("%s: %w", result.Sources[i], err), "")
			}
			ids = append(ids, c.ID)
			p.Update(i + 1)
		}
		p.Done()

		warnings := make([]Warning, 0, len(result.Skipped))
		for _, skipped := range result.Skipped {
			warnings = append(warnings, Warning{
				Code:    WarnSkippedFile,
				Message: skipped.Err.Error(),
				Ref:     skipped.Path,
			})
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]any{"imported": ids}, warnings, &Meta{Count: len(ids)})
			return nil
		}
		for _, w := range warnings {
			fmt.Println(ui.Warningf("skipped %s: %s", w.Ref, w.Message))
		}
		fmt.Println(ui.Successf("Imported %s", ui.Count(len(ids), "card", "cards")))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
