// Package report shows failed operations to the user.
package report

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/aidanlsb/rolo/internal/ui"
)

// Reporter writes "Error during <operation>" messages to an output stream and
// logs them. It implements controller.ErrorReporter.
type Reporter struct {
	out    io.Writer
	logger *slog.Logger

	// showing guards against a report triggered while another is being shown.
	showing atomic.Bool
}

// New returns a Reporter writing to out. A nil out means os.Stderr and a nil
// logger means slog.Default().
func New(out io.Writer, logger *slog.Logger) *Reporter {
	if out == nil {
		out = os.Stderr
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{out: out, logger: logger}
}

// Message formats the user-facing text for a failed operation.
func Message(operation string, err error) string {
	return fmt.Sprintf("Error during %s:\n%s", operation, err)
}

// Report shows the failure. It never panics and never blocks on a report
// that is already in progress.
func (r *Reporter) Report(operation string, err error) {
	if err == nil {
		return
	}
	r.logger.Error("operation failed",
		slog.String("operation", operation),
		slog.Any("error", err))

	if !r.showing.CompareAndSwap(false, true) {
		r.logger.Warn("error reported while showing another error",
			slog.String("operation", operation))
		return
	}
	defer r.showing.Store(false)

	fmt.Fprintln(r.out, ui.Error(Message(operation, err)))
}
