// Package ui provides styled terminal output using lipgloss.
// It implements consistent formatting for CLI messages, errors, and progress.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	colorPrimary = lipgloss.Color("#2563eb")
	colorSuccess = lipgloss.Color("#10b981")
	colorWarning = lipgloss.Color("#f59e0b")
	colorError   = lipgloss.Color("#ef4444")
	colorMuted   = lipgloss.Color("#6b7280")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	WarningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// Output handles styled terminal output.
type Output struct {
	writer    io.Writer
	errWriter io.Writer
}

// NewOutput creates a new Output with default writers.
func NewOutput() *Output {
	return &Output{
		writer:    os.Stdout,
		errWriter: os.Stderr,
	}
}

// WithWriters overrides the output writers. For tests.
func (o *Output) WithWriters(w, errW io.Writer) *Output {
	o.writer = w
	o.errWriter = errW
	return o
}

// Success prints a success message with a check mark.
func (o *Output) Success(format string, args ...any) {
	fmt.Fprintln(o.writer, SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// Info prints an informational message.
func (o *Output) Info(format string, args ...any) {
	fmt.Fprintln(o.writer, MutedStyle.Render(fmt.Sprintf(format, args...)))
}

// Warning prints a warning message.
func (o *Output) Warning(format string, args ...any) {
	fmt.Fprintln(o.writer, WarningStyle.Render("! "+fmt.Sprintf(format, args...)))
}

// Error prints an error message to stderr.
func (o *Output) Error(format string, args ...any) {
	fmt.Fprintln(o.errWriter, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}
