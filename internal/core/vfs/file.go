// Package vfs implements the hybrid virtual filesystem bundles carry their
// resources in. Files and folders are tagged unions: fully in-memory
// ("virtual"), references to paths on the local disk ("local", enabling
// zero-copy forwarding), or handles to files held open inside a generator
// process ("linked"). The whole tree serializes over the IPC link and
// flushes to a target directory when a site is emitted.
package vfs

import (
	"errors"
	"fmt"
	"os"
)

// ErrLinkedFileUnresolved is returned when a linked file survives until an
// operation that needs real bytes. Linked files must be dereferenced over
// IPC before the bundle is emitted.
var ErrLinkedFileUnresolved = errors.New("linked file was never resolved")

// VirtualFile holds file contents in memory.
type VirtualFile struct {
	Content []byte `json:"content" msgpack:"content"`
}

// NewVirtualFile creates an in-memory file with the given contents.
func NewVirtualFile(content []byte) *VirtualFile {
	return &VirtualFile{Content: content}
}

// OpenVirtualFile reads a local path fully into memory.
func OpenVirtualFile(path string) (*VirtualFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &VirtualFile{Content: content}, nil
}

// LocalFile references a file on disk by path without loading it.
type LocalFile struct {
	Path string `json:"path" msgpack:"path"`
}

// NewLocalFile creates a reference to a file on disk.
func NewLocalFile(path string) *LocalFile {
	return &LocalFile{Path: path}
}

// LinkedFileHandle identifies a file held open inside a generator process.
type LinkedFileHandle uint32

// LinkedFile refers to a file owned by the peer process. It must be
// dereferenced over IPC before emit time.
type LinkedFile struct {
	Handle LinkedFileHandle `json:"handle" msgpack:"handle"`
}

// File is a tagged union over the three file flavors. Exactly one of the
// fields is non-nil.
type File struct {
	Virtual *VirtualFile `json:"virtual,omitempty" msgpack:"virtual,omitempty"`
	Local   *LocalFile   `json:"local,omitempty" msgpack:"local,omitempty"`
	Linked  *LinkedFile  `json:"linked,omitempty" msgpack:"linked,omitempty"`
}

// FileOf wraps a VirtualFile.
func FileOf(f *VirtualFile) File {
	return File{Virtual: f}
}

// FileOfLocal wraps a LocalFile.
func FileOfLocal(f *LocalFile) File {
	return File{Local: f}
}

// FileOfLinked wraps a LinkedFile.
func FileOfLinked(f *LinkedFile) File {
	return File{Linked: f}
}
