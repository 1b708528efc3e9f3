package cli

import (
	"github.com/semio-ai/drydoc/internal/core/usecases"
	"github.com/semio-ai/drydoc/internal/ui"
)

// ReportFormatter renders validation reports for the terminal.
type ReportFormatter struct {
	out *ui.Output
}

// NewReportFormatter creates a new ReportFormatter.
func NewReportFormatter() *ReportFormatter {
	return &ReportFormatter{out: ui.NewOutput()}
}

// PrintValidationReport prints validation issues grouped under a summary
// line.
func (f *ReportFormatter) PrintValidationReport(issues []usecases.ValidationIssue) {
	if len(issues) == 0 {
		f.out.Success("No validation issues found")
		return
	}

	for _, issue := range issues {
		f.out.Warning("[%s] %s — %s", issue.Code, issue.Path, issue.Message)
	}
	f.out.Error("%d validation issue(s)", len(issues))
}
