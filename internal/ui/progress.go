package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Progress redraws "message (n/total)" in place while export and import
// work through their cards. A nil Progress, or one not attached to a
// terminal, prints nothing.
type Progress struct {
	out     io.Writer
	message string
	total   int
}

// NewProgress returns a Progress on stdout, or nil when stdout is not a
// terminal.
func NewProgress(message string, total int) *Progress {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return nil
	}
	return &Progress{out: os.Stdout, message: message, total: total}
}

// Update reports done items out of the total.
func (p *Progress) Update(done int) {
	if p == nil {
		return
	}
	fmt.Fprintf(p.out, "\r%s %s", p.message, Muted.Render(fmt.Sprintf("(%d/%d)", done, p.total)))
}

// Done erases the progress line.
func (p *Progress) Done() {
	if p == nil {
		return
	}
	fmt.Fprint(p.out, "\r\033[K")
}
