package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/rolo/internal/controller"
	"github.com/aidanlsb/rolo/internal/lastresults"
	"github.com/aidanlsb/rolo/internal/model"
)

var (
	findField  string
	findOption string
	findOrder  string
)

var findCmd = &cobra.Command{
	Use:   "find [text...]",
	Short: "Find cards containing text",
	Long: `Searches the cards and lists the matches, numbered like 'rolo list'.

Options:
  whole   the text is one phrase; * matches any run of characters, ? one character
  all     every word must appear
  any     at least one word must appear

Matching ignores case. Without --field every field is searched.

Examples:
  rolo find github
  rolo find --field username alice
  rolo find --option any work home
  rolo find "git*b" --option whole`,
	RunE: func(cmd *cobra.Command, args []string) error {
		field, err := model.ParseField(findField)
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}
		option := cfg.DefaultSearchOption()
		if findOption != "" {
			if option, err = controller.ParseSearchOption(findOption); err != nil {
				return handleError(ErrInvalidInput, err, "")
			}
		}
		order, err := parseOrder(findOrder, cfg)
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		s, err := openStore()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer s.Close()

		l, err := newLookup(s, order)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		text := strings.Join(args, " ")
		cards, err := l.find(field, option, text)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		return printCardList(cards, lastresults.SourceFind, text)
	},
}

func init() {
	findCmd.Flags().StringVar(&findField, "field", "", "Search only this field: site, username, password or notes")
	findCmd.Flags().StringVar(&findOption, "option", "", "Search option: whole, all or any (default from config)")
	findCmd.Flags().StringVar(&findOrder, "order", "", "Sort by field")
	rootCmd.AddCommand(findCmd)
}
