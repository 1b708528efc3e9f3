// Package logging implements the structured logging port over zap. All
// log output goes to stderr so stdout stays clean for piped tooling.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/semio-ai/drydoc/internal/core/usecases"
)

// Ensure Logger implements the usecases port.
var _ usecases.Logger = (*Logger)(nil)

// Logger is a zap-backed structured logger.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New creates a logger. Verbose enables debug-level output.
func New(verbose bool) *Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		// The production config only fails on invalid output paths.
		panic(err)
	}
	return &Logger{sugar: logger.Sugar()}
}

// Debug logs a debug-level message.
func (l *Logger) Debug(msg string, keysAndValues ...any) {
	l.sugar.Debugw(msg, keysAndValues...)
}

// Info logs an info-level message.
func (l *Logger) Info(msg string, keysAndValues ...any) {
	l.sugar.Infow(msg, keysAndValues...)
}

// Warn logs a warning-level message.
func (l *Logger) Warn(msg string, keysAndValues ...any) {
	l.sugar.Warnw(msg, keysAndValues...)
}

// Error logs an error-level message.
func (l *Logger) Error(msg string, err error, keysAndValues ...any) {
	if err != nil {
		keysAndValues = append(keysAndValues, "error", err.Error())
	}
	l.sugar.Errorw(msg, keysAndValues...)
}

// WithFields returns a logger with additional structured fields.
func (l *Logger) WithFields(keysAndValues ...any) usecases.Logger {
	return &Logger{sugar: l.sugar.With(keysAndValues...)}
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}

var (
	globalOnce sync.Once
	global     *Logger
)

// Init initializes the process-wide logger exactly once; later calls keep
// the first configuration.
func Init(verbose bool) *Logger {
	globalOnce.Do(func() {
		global = New(verbose)
	})
	return global
}

// GetLogger returns the process-wide logger, initializing it at info level
// if Init was never called.
func GetLogger() *Logger {
	return Init(false)
}
