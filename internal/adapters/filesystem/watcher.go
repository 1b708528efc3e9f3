// Package filesystem provides file system implementations of the core
// ports.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/semio-ai/drydoc/internal/core/usecases"
)

// Ensure FileWatcher implements the usecases port.
var _ usecases.FileWatcher = (*FileWatcher)(nil)

// FileWatcher monitors a directory tree for changes. Hidden directories
// and configured exclusions (typically the output directory) are skipped;
// newly created directories are watched as they appear.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	events   chan usecases.FileChangeEvent
	done     chan struct{}
	excluded []string
	wg       sync.WaitGroup
	mu       sync.Mutex
	stopped  bool
}

// NewFileWatcher creates a watcher. Excluded paths are skipped relative to
// the watched root.
func NewFileWatcher(excluded ...string) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &FileWatcher{
		watcher:  w,
		events:   make(chan usecases.FileChangeEvent, 16),
		done:     make(chan struct{}),
		excluded: excluded,
	}, nil
}

// Watch implements usecases.FileWatcher.
func (fw *FileWatcher) Watch(ctx context.Context, rootPath string) (<-chan usecases.FileChangeEvent, error) {
	fw.mu.Lock()
	if fw.stopped {
		fw.mu.Unlock()
		return nil, fmt.Errorf("watcher already stopped")
	}
	fw.mu.Unlock()

	info, err := os.Stat(rootPath)
	if err != nil {
		return nil, fmt.Errorf("invalid root path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path is not a directory")
	}

	if err := fw.addRecursive(rootPath); err != nil {
		return nil, fmt.Errorf("failed to add watch paths: %w", err)
	}

	fw.wg.Add(1)
	go func() {
		defer fw.wg.Done()
		fw.processEvents(ctx, rootPath)
	}()

	return fw.events, nil
}

// Stop implements usecases.FileWatcher.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	if fw.stopped {
		fw.mu.Unlock()
		return nil
	}
	fw.stopped = true
	fw.mu.Unlock()

	close(fw.done)
	err := fw.watcher.Close()
	fw.wg.Wait()
	close(fw.events)

	if err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

func (fw *FileWatcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if fw.skip(root, path) {
			return filepath.SkipDir
		}
		return fw.watcher.Add(path)
	})
}

// skip filters hidden directories and configured exclusions.
func (fw *FileWatcher) skip(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return false
	}
	for part := range strings.SplitSeq(rel, string(filepath.Separator)) {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	for _, excluded := range fw.excluded {
		if rel == excluded || strings.HasPrefix(rel, excluded+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (fw *FileWatcher) processEvents(ctx context.Context, root string) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-fw.done:
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(root, event)
		case _, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (fw *FileWatcher) handleEvent(root string, event fsnotify.Event) {
	if fw.skip(root, event.Name) {
		return
	}

	// Watch directories as they appear.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = fw.addRecursive(event.Name)
		}
	}

	rel, err := filepath.Rel(root, event.Name)
	if err != nil {
		rel = event.Name
	}

	change := usecases.FileChangeEvent{Path: rel, Op: opString(event.Op)}
	select {
	case fw.events <- change:
	case <-fw.done:
	}
}

func opString(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	case op.Has(fsnotify.Chmod):
		return "chmod"
	default:
		return op.String()
	}
}
