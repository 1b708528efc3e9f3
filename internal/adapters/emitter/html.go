// Package emitter converts a finished bundle into an on-disk static site:
// the manifest becomes a script the client runtime reads from
// window.MANIFEST, the client assets are folded in, and the resource tree
// flushes to the output directory.
package emitter

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4/v4"

	"github.com/semio-ai/drydoc/internal/core/entities"
	"github.com/semio-ai/drydoc/internal/core/usecases"
	"github.com/semio-ai/drydoc/internal/core/vfs"
)

// Ensure Html implements the usecases port.
var _ usecases.SiteEmitter = (*Html)(nil)

// Html emits a bundle as a static HTML site.
type Html struct {
	dir        string
	assetsRoot string
	compress   bool
	logger     usecases.Logger
}

// NewHtml creates an emitter writing beneath dir. Client assets are looked
// up next to the running executable unless overridden.
func NewHtml(dir string) *Html {
	root := ""
	if exe, err := os.Executable(); err == nil {
		root = filepath.Dir(exe)
	}
	return &Html{
		dir:        dir,
		assetsRoot: root,
		logger:     usecases.NopLogger(),
	}
}

// WithAssetsRoot overrides where the client runtime and static assets are
// looked up.
func (e *Html) WithAssetsRoot(root string) *Html {
	e.assetsRoot = root
	return e
}

// WithCompression enables LZ4+Base64 wrapping of the embedded manifest.
func (e *Html) WithCompression(compress bool) *Html {
	e.compress = compress
	return e
}

// WithLogger sets the logger.
func (e *Html) WithLogger(logger usecases.Logger) *Html {
	e.logger = logger
	return e
}

// Emit implements usecases.SiteEmitter.
func (e *Html) Emit(ctx context.Context, bundle entities.Bundle) error {
	manifestJS, err := e.renderManifest(bundle.Manifest)
	if err != nil {
		return err
	}

	js := vfs.NewVirtualFolder()
	if err := js.Insert("manifest.js", vfs.FileEntry(vfs.FileOf(vfs.NewVirtualFile(manifestJS)))); err != nil {
		return err
	}

	clientBundle := filepath.Join(e.assetsRoot, "client", "dist", "bundle.js")
	if _, err := os.Stat(clientBundle); err == nil {
		if err := js.Insert("bundle.js", vfs.FileEntry(vfs.FileOfLocal(vfs.NewLocalFile(clientBundle)))); err != nil {
			return err
		}
	} else {
		e.logger.Warn("client runtime not found, emitting without it", "path", clientBundle)
	}

	bundle, err = bundle.InsertEntry("js", vfs.FolderEntry(vfs.FolderOf(js)))
	if err != nil {
		return fmt.Errorf("failed to add client scripts: %w", err)
	}

	staticDir := filepath.Join(e.assetsRoot, "static")
	if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
		resources, err := bundle.Resources.Merge(vfs.FolderOfLocal(vfs.NewLocalFolder(staticDir)))
		if err != nil {
			return fmt.Errorf("failed to merge static assets: %w", err)
		}
		bundle.Resources = resources
	}

	if err := bundle.Resources.WriteInto(e.dir); err != nil {
		return fmt.Errorf("failed to write site to %s: %w", e.dir, err)
	}
	return nil
}

// renderManifest serializes the manifest into the js/manifest.js script.
// The emitted script always assigns window.MANIFEST; with compression the
// payload is an LZ4 frame wrapped in Base64 for the client to inflate.
func (e *Html) renderManifest(manifest entities.Manifest) ([]byte, error) {
	raw, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize manifest: %w", err)
	}

	if !e.compress {
		return fmt.Appendf(nil, "window.MANIFEST = %s;\n", raw), nil
	}

	var compressed bytes.Buffer
	w := lz4.NewWriter(&compressed)
	if _, err := w.Write(raw); err != nil {
		return nil, fmt.Errorf("failed to compress manifest: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress manifest: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(compressed.Bytes())
	return fmt.Appendf(nil, "window.MANIFEST = {\"encoding\": \"lz4+base64\", \"data\": %q};\n", encoded), nil
}
