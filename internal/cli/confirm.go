package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/aidanlsb/rolo/internal/ui"
)

// shouldPromptForConfirm reports whether a y/N question can be asked: never
// in JSON mode, and only when stdin and stdout are both terminals.
func shouldPromptForConfirm() bool {
	if isJSONOutput() {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stdin.Fd())
}

func promptForConfirm(message string) bool {
	if !shouldPromptForConfirm() {
		return false
	}
	return askYesNo(os.Stdin, os.Stdout, message)
}

// askYesNo prints message and reads one answer line. Only y and yes count.
func askYesNo(in io.Reader, out io.Writer, message string) bool {
	fmt.Fprintf(out, "%s %s ", message, ui.Hint("[y/N]"))
	answer, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
