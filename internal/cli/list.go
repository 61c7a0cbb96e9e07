package cli

import (
	"github.com/spf13/cobra"

	"github.com/aidanlsb/rolo/internal/lastresults"
)

var listOrder string

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List every card",
	Long: `Lists every card, numbered. The numbers can be passed to 'rolo show'
and 'rolo delete' until the next list or find.

Examples:
  rolo list
  rolo list --order username
  rolo list --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		order, err := parseOrder(listOrder, cfg)
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		s, err := openStore()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer s.Close()

		cards, err := s.All(order)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		return printCardList(cards, lastresults.SourceList, "")
	},
}

func init() {
	listCmd.Flags().StringVar(&listOrder, "order", "", "Sort by field: site, username, password, notes or all")
	rootCmd.AddCommand(listCmd)
}
