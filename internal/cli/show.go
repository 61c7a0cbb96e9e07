package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/rolo/internal/model"
	"github.com/aidanlsb/rolo/internal/ui"
)

var (
	showID     int
	showReveal bool
)

var showCmd = &cobra.Command{
	Use:   "show [numbers...]",
	Short: "Show cards from the last list or find",
	Long: `Shows cards by their number in the last 'rolo list' or 'rolo find', or by
ID with --id. Passwords are masked unless --reveal is given. Notes are
rendered as markdown.

Examples:
  rolo show 2
  rolo show 1,3-5
  rolo show --id 42 --reveal`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showID == 0 && len(args) == 0 {
			return handleErrorMsg(ErrMissingArgument, "requires card numbers or --id", "Usage: rolo show <numbers...>")
		}

		s, err := openStore()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer s.Close()

		cards, err := selectCards(s, args, showID)
		if err != nil {
			return selectError(err)
		}

		if isJSONOutput() {
			out := make([]*model.Card, len(cards))
			for i, c := range cards {
				out[i] = c.Clone()
				if !showReveal && out[i].Password != "" {
					out[i].Password = ui.MaskedValue
				}
			}
			outputSuccess(map[string]any{"cards": out}, &Meta{Count: len(out)})
			return nil
		}

		display := ui.NewDisplayContext()
		for i, c := range cards {
			if i > 0 {
				fmt.Println()
			}
			if err := printCard(display, c, showReveal); err != nil {
				return err
			}
		}
		return nil
	},
}

func printCard(display *ui.DisplayContext, c *model.Card, reveal bool) error {
	fmt.Println(ui.Header(c.Title()) + " " + ui.Hint(fmt.Sprintf("#%d", c.ID)))

	lines := []ui.FieldLine{
		{Label: model.FieldSite.String(), Value: c.Site},
		{Label: model.FieldUsername.String(), Value: c.Username},
		{Label: model.FieldPassword.String(), Value: c.Password, Masked: !reveal},
	}
	fmt.Print(ui.RenderFields(lines))

	if strings.TrimSpace(c.Notes) == "" {
		return nil
	}
	rendered, err := ui.RenderMarkdown(c.Notes, display.AvailableWidth(ui.MarkdownRenderMargin))
	if err != nil {
		// Fall back to plain text.
		getLogger().Debug("markdown render failed", "error", err)
		rendered = c.Notes + "\n"
	}
	fmt.Println()
	fmt.Print(rendered)
	return nil
}

func init() {
	showCmd.Flags().IntVar(&showID, "id", 0, "Show the card with this ID")
	showCmd.Flags().BoolVar(&showReveal, "reveal", false, "Show passwords")
	rootCmd.AddCommand(showCmd)
}
