package cmd

import (
	"context"
	"path/filepath"
	"time"

	"github.com/semio-ai/drydoc/internal/adapters/filesystem"
	"github.com/semio-ai/drydoc/internal/ui"
)

// WatchCommand rebuilds the site whenever the declaration tree or its
// sources change.
type WatchCommand struct {
	gen      *GenCommand
	debounce time.Duration
}

// NewWatchCommand creates a new watch command around a configured build.
func NewWatchCommand(gen *GenCommand) *WatchCommand {
	return &WatchCommand{
		gen:      gen,
		debounce: 500 * time.Millisecond,
	}
}

// WithDebounce sets how long to coalesce bursts of change events.
func (c *WatchCommand) WithDebounce(d time.Duration) *WatchCommand {
	c.debounce = d
	return c
}

// Execute builds once, then rebuilds on every change until the context is
// cancelled. Build failures are reported and watching continues.
func (c *WatchCommand) Execute(ctx context.Context) error {
	out := ui.NewOutput()

	if err := c.gen.Execute(ctx); err != nil {
		out.Error("build failed: %v", err)
	}

	root := filepath.Dir(c.gen.configPath)
	if root == "" {
		root = "."
	}

	watcher, err := filesystem.NewFileWatcher(c.gen.outputDir)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	events, err := watcher.Watch(ctx, root)
	if err != nil {
		return err
	}

	out.Info("Watching %s for changes...", root)

	var timer *time.Timer
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			out.Info("changed: %s (%s)", event.Path, event.Op)
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(c.debounce)
			pending = timer.C

		case <-pending:
			pending = nil
			if err := c.gen.Execute(ctx); err != nil {
				out.Error("build failed: %v", err)
			}
		}
	}
}
