package ui

import "fmt"

// Status symbols. Messages are not colored; the symbol carries the status.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
)

func status(symbol, msg string) string { return symbol + " " + msg }

// Success prefixes msg with a check mark.
func Success(msg string) string { return status(SymbolSuccess, msg) }

// Successf is Success with formatting.
func Successf(format string, args ...any) string { return Success(fmt.Sprintf(format, args...)) }

// Error prefixes msg with a cross.
func Error(msg string) string { return status(SymbolError, msg) }

// Errorf is Error with formatting.
func Errorf(format string, args ...any) string { return Error(fmt.Sprintf(format, args...)) }

// Warning prefixes msg with a warning sign.
func Warning(msg string) string { return status(SymbolWarning, msg) }

// Warningf is Warning with formatting.
func Warningf(format string, args ...any) string { return Warning(fmt.Sprintf(format, args...)) }

// Header renders a card title.
func Header(msg string) string { return Bold.Render(msg) }

// FilePath renders a path in the accent color.
func FilePath(path string) string { return Accent.Render(path) }

// Hint renders secondary text.
func Hint(msg string) string { return Muted.Render(msg) }

// Count returns "(1 card)" or "(n cards)".
func Count(n int, singular, plural string) string {
	noun := plural
	if n == 1 {
		noun = singular
	}
	return fmt.Sprintf("(%d %s)", n, noun)
}
