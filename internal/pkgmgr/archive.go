package pkgmgr

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// unpackArchive opens raw as an LZ4-compressed POSIX tar archive and
// unpacks it at dir. The extraction goes into a temporary sibling
// directory first and is renamed into place, so a failed install never
// leaves a torn version directory behind.
func unpackArchive(raw []byte, dir string) error {
	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", parent, err)
	}

	tmp, err := os.MkdirTemp(parent, ".install-")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	archive := tar.NewReader(lz4.NewReader(bytes.NewReader(raw)))
	for {
		header, err := archive.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("corrupt archive: %w", err)
		}
		if err := extractEntry(archive, header, tmp); err != nil {
			return err
		}
	}

	if err := os.Rename(tmp, dir); err != nil {
		return fmt.Errorf("failed to finalize install: %w", err)
	}
	return nil
}

func extractEntry(archive *tar.Reader, header *tar.Header, root string) error {
	target, err := safeJoin(root, header.Name)
	if err != nil {
		return err
	}

	switch header.Typeflag {
	case tar.TypeDir:
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", target, err)
		}
	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
		}
		out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(header.Mode)&0o777)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", target, err)
		}
		if _, err := io.Copy(out, archive); err != nil {
			out.Close()
			return fmt.Errorf("failed to extract %s: %w", header.Name, err)
		}
		if err := out.Close(); err != nil {
			return fmt.Errorf("failed to extract %s: %w", header.Name, err)
		}
	case tar.TypeXGlobalHeader, tar.TypeXHeader:
		// Metadata records; nothing to materialize.
	default:
		return fmt.Errorf("unsupported archive entry type %d for %s", header.Typeflag, header.Name)
	}
	return nil
}

// safeJoin resolves an archive member name beneath root, rejecting
// absolute paths and traversal escapes.
func safeJoin(root, name string) (string, error) {
	cleaned := filepath.Clean(name)
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry %q escapes the install directory", name)
	}
	return filepath.Join(root, cleaned), nil
}
