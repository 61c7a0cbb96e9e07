package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/rolo/internal/exchange"
	"github.com/aidanlsb/rolo/internal/model"
	"github.com/aidanlsb/rolo/internal/ui"
)

var exportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Export every card as a markdown file",
	Long: `Writes each card to <dir>/<site>.md with the fields in YAML frontmatter
and the notes as the body. Files are written with mode 0600 because they
contain passwords.

Examples:
  rolo export ~/backup/cards`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer s.Close()

		cards, err := s.All(model.FieldSite)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		var p *ui.Progress
		if !isJSONOutput() {
			p = ui.NewProgress("Exporting", len(cards))
		}
		result, err := exchange.Export(args[0], cards, p.Update)
		p.Done()
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(result, &Meta{Count: len(result.Files)})
			return nil
		}
		fmt.Println(ui.Successf("Exported %s to %s", ui.Count(len(result.Files), "card", "cards"), ui.FilePath(args[0])))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
