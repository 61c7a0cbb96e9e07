package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/rolo/internal/model"
	"github.com/aidanlsb/rolo/internal/ui"
)

var (
	addSite           string
	addUsername       string
	addPassword       string
	addNotes          string
	addPromptPassword bool
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a card",
	Long: `Adds a card from flags. Use --prompt-password to type the password
without echo instead of passing it on the command line.

Examples:
  rolo add --site github.com --username alice --prompt-password
  rolo add --site "Light Co" --notes "account no. 1234"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		card := &model.Card{
			Site:     addSite,
			Username: addUsername,
			Password: addPassword,
			Notes:    addNotes,
		}
		if addPromptPassword {
			pw, err := readPassword()
			if err != nil {
				return handleError(ErrInvalidInput, err, "")
			}
			card.Password = pw
		}
		if card.IsBlank() {
			return handleErrorMsg(ErrCardInvalid, "card has no content", "Pass at least --site")
		}

		s, err := openStore()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer s.Close()

		if err := s.InsertOrUpdate(card); err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]any{"id": card.ID, "site": card.Site}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Added %s %s", card.Title(), ui.Hint(fmt.Sprintf("#%d", card.ID))))
		return nil
	},
}

func readPassword() (string, error) {
	fd := os.Stdin.Fd()
	if !term.IsTerminal(fd) {
		return "", errors.New("--prompt-password needs a terminal")
	}
	fmt.Fprint(os.Stderr, "Password: ")
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}

func init() {
	addCmd.Flags().StringVar(&addSite, "site", "", "Site name or URL")
	addCmd.Flags().StringVar(&addUsername, "username", "", "Login name")
	addCmd.Flags().StringVar(&addPassword, "password", "", "Password (visible in shell history)")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "Notes (markdown)")
	addCmd.Flags().BoolVar(&addPromptPassword, "prompt-password", false, "Prompt for the password without echo")
	rootCmd.AddCommand(addCmd)
}
