package vfs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteInto flushes the folder tree beneath path, creating directories as
// needed. Virtual files write their bytes, local files copy, and a linked
// file reaching this point is a programming error upstream.
func (f Folder) WriteInto(path string) error {
	virt, err := f.ToVirtual()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}

	for name, entry := range virt.Entries {
		target := filepath.Join(path, name)
		switch {
		case entry.Folder != nil:
			if err := entry.Folder.WriteInto(target); err != nil {
				return err
			}
		case entry.File != nil:
			if err := writeFile(*entry.File, target); err != nil {
				return err
			}
		default:
			return fmt.Errorf("empty entry at %q", name)
		}
	}

	return nil
}

func writeFile(f File, target string) error {
	switch {
	case f.Virtual != nil:
		if err := os.WriteFile(target, f.Virtual.Content, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		return nil
	case f.Local != nil:
		return copyFile(f.Local.Path, target)
	case f.Linked != nil:
		return fmt.Errorf("cannot write %s: %w", target, ErrLinkedFileUnresolved)
	default:
		return fmt.Errorf("empty file at %s", target)
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}
