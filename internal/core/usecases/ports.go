// Package usecases holds the core orchestration of drydoc builds and the
// ports its adapters implement.
package usecases

import (
	"context"

	"github.com/semio-ai/drydoc/internal/core/entities"
)

// GeneratorClient is a live channel to one generator process.
type GeneratorClient interface {
	// Generate asks the generator to produce a bundle for one declaration
	// node. The namespace is the slash-delimited prefix the generator
	// derives its page ids from; params pass through from the node's
	// `with` map; path is the declaration file the node came from.
	Generate(ctx context.Context, contextID uint32, namespace string, params map[string]string, path string) (entities.Bundle, error)
}

// GeneratorService resolves a generator reference to a running process,
// installing and spawning it on first use.
//
// Implementations memoize by installation path: repeated requests that
// resolve to the same installed version share one process.
type GeneratorService interface {
	// GetOrStart returns a client for the generator package matching the
	// name and version requirement.
	GetOrStart(ctx context.Context, name string, req entities.VersionReq) (GeneratorClient, error)

	// Close kills every spawned generator process.
	Close() error
}

// DeclLoader reads and parses a declaration file into its build tree.
//
// Implementations MUST run the $(...) command preprocessor over the raw
// document before parsing, with the file's directory as the working
// directory.
type DeclLoader interface {
	// Load reads the declaration file at path.
	Load(ctx context.Context, path string) (entities.Decl, error)
}

// SiteEmitter converts a finished bundle into an on-disk static site.
type SiteEmitter interface {
	// Emit finalizes the bundle and writes it beneath the emitter's
	// output directory.
	Emit(ctx context.Context, bundle entities.Bundle) error
}

// FileWatcher monitors the file system for changes, for rebuild-on-change
// workflows.
type FileWatcher interface {
	// Watch starts monitoring a directory tree. Events arrive on the
	// returned channel until Stop.
	Watch(ctx context.Context, rootPath string) (<-chan FileChangeEvent, error)

	// Stop halts watching and closes the event channel.
	Stop() error
}

// FileChangeEvent describes a change detected by the file watcher.
type FileChangeEvent struct {
	// Path relative to the watched root
	Path string
	// Op is one of: create, write, remove, rename, chmod
	Op string
}

// Logger is the structured logging port used throughout the application.
// Key-value pairs alternate keys and values.
type Logger interface {
	// Debug logs a debug-level message.
	Debug(msg string, keysAndValues ...any)

	// Info logs an info-level message.
	Info(msg string, keysAndValues ...any)

	// Warn logs a warning-level message.
	Warn(msg string, keysAndValues ...any)

	// Error logs an error-level message.
	Error(msg string, err error, keysAndValues ...any)

	// WithFields returns a logger with additional structured fields.
	WithFields(keysAndValues ...any) Logger
}

// ProgressReporter communicates build progress to the user.
//
// Implementations MAY use terminal formatting (via lipgloss) for CLI
// output.
type ProgressReporter interface {
	// ReportProgress sends a progress update.
	ReportProgress(step string, current int, total int, message string)

	// ReportError sends an error status.
	ReportError(err error)

	// ReportSuccess sends a success status.
	ReportSuccess(message string)

	// ReportInfo sends an informational message.
	ReportInfo(message string)
}

// nopLogger discards everything.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any)        {}
func (nopLogger) Info(string, ...any)         {}
func (nopLogger) Warn(string, ...any)         {}
func (nopLogger) Error(string, error, ...any) {}
func (n nopLogger) WithFields(...any) Logger  { return n }

// NopLogger returns a logger that discards everything.
func NopLogger() Logger {
	return nopLogger{}
}

// nopProgress discards everything.
type nopProgress struct{}

func (nopProgress) ReportProgress(string, int, int, string) {}
func (nopProgress) ReportError(error)                       {}
func (nopProgress) ReportSuccess(string)                    {}
func (nopProgress) ReportInfo(string)                       {}

// NopProgressReporter returns a reporter that discards everything.
func NopProgressReporter() ProgressReporter {
	return nopProgress{}
}
