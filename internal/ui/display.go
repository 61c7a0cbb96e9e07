package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
)

// DefaultTermWidth is used when stdout is not a terminal or its size is
// unknown.
const DefaultTermWidth = 120

// minContentWidth is the narrowest width AvailableWidth reports.
const minContentWidth = 20

// DisplayContext describes the terminal that list and card output is sized
// for.
type DisplayContext struct {
	TermWidth int
	IsTTY     bool
}

// NewDisplayContext measures stdout.
func NewDisplayContext() *DisplayContext {
	return displayFor(os.Stdout)
}

func displayFor(f *os.File) *DisplayContext {
	d := &DisplayContext{TermWidth: DefaultTermWidth}
	fd := f.Fd()
	if !term.IsTerminal(fd) {
		return d
	}
	d.IsTTY = true
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		d.TermWidth = w
	}
	return d
}

// NewDisplayContextWithWidth returns a terminal context of a fixed width.
func NewDisplayContextWithWidth(width int) *DisplayContext {
	return &DisplayContext{TermWidth: width, IsTTY: true}
}

// AvailableWidth is the width left after a left margin, never less than
// minContentWidth.
func (d *DisplayContext) AvailableWidth(leftMargin int) int {
	return max(d.TermWidth-leftMargin, minContentWidth)
}
