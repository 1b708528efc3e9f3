// Package cli provides terminal implementations of the user-facing ports.
package cli

import (
	"github.com/semio-ai/drydoc/internal/core/usecases"
	"github.com/semio-ai/drydoc/internal/ui"
)

// Compile-time interface check
var _ usecases.ProgressReporter = (*ProgressReporter)(nil)

// ProgressReporter implements ProgressReporter for console output.
type ProgressReporter struct {
	out *ui.Output
}

// NewProgressReporter creates a new ProgressReporter.
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{out: ui.NewOutput()}
}

// ReportProgress reports progress.
func (r *ProgressReporter) ReportProgress(step string, current int, total int, message string) {
	if total > 0 {
		percent := (current * 100) / total
		r.out.Info("  [%3d%%] %s", percent, message)
	} else {
		r.out.Info("  %s", message)
	}
}

// ReportError reports an error.
func (r *ProgressReporter) ReportError(err error) {
	r.out.Error("%v", err)
}

// ReportSuccess reports success.
func (r *ProgressReporter) ReportSuccess(message string) {
	r.out.Success("%s", message)
}

// ReportInfo reports info.
func (r *ProgressReporter) ReportInfo(message string) {
	r.out.Info("  %s", message)
}
