package vfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func virtualFileEntry(content string) Entry {
	return FileEntry(FileOf(NewVirtualFile([]byte(content))))
}

func TestVirtualFolder_Insert(t *testing.T) {
	folder := NewVirtualFolder()
	require.NoError(t, folder.Insert("readme.md", virtualFileEntry("hello")))

	entry, ok := folder.Entries["readme.md"]
	require.True(t, ok)
	require.NotNil(t, entry.File)
	assert.Equal(t, []byte("hello"), entry.File.Virtual.Content)
}

func TestVirtualFolder_InsertNestedPathDecomposes(t *testing.T) {
	folder := NewVirtualFolder()
	require.NoError(t, folder.Insert("a/b/c.txt", virtualFileEntry("deep")))

	a := folder.Entries["a"]
	require.NotNil(t, a.Folder)
	b := a.Folder.Virtual.Entries["b"]
	require.NotNil(t, b.Folder)
	c := b.Folder.Virtual.Entries["c.txt"]
	require.NotNil(t, c.File)
	assert.Equal(t, []byte("deep"), c.File.Virtual.Content)
}

func TestVirtualFolder_InsertCollisionFails(t *testing.T) {
	folder := NewVirtualFolder()
	require.NoError(t, folder.Insert("x", virtualFileEntry("one")))
	assert.Error(t, folder.Insert("x", virtualFileEntry("two")))
}

func TestVirtualFolder_InsertFolderIntoFolderMerges(t *testing.T) {
	left := NewVirtualFolder()
	require.NoError(t, left.Insert("shared/a.txt", virtualFileEntry("a")))

	extra := NewVirtualFolder()
	require.NoError(t, extra.Insert("b.txt", virtualFileEntry("b")))

	require.NoError(t, left.Insert("shared", FolderEntry(FolderOf(extra))))

	shared := left.Entries["shared"].Folder.Virtual
	assert.Contains(t, shared.Entries, "a.txt")
	assert.Contains(t, shared.Entries, "b.txt")
}

func TestVirtualFolder_InsertThroughFileFails(t *testing.T) {
	folder := NewVirtualFolder()
	require.NoError(t, folder.Insert("x", virtualFileEntry("file")))
	assert.Error(t, folder.Insert("x/y.txt", virtualFileEntry("nested")))
}

func TestLocalFolder_ToVirtual(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"), []byte("content"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))

	virt, err := NewLocalFolder(dir).ToVirtual()
	require.NoError(t, err)

	file := virt.Entries["file.txt"]
	require.NotNil(t, file.File)
	// Local files stay references; contents are not loaded.
	require.NotNil(t, file.File.Local)

	sub := virt.Entries["sub"]
	require.NotNil(t, sub.Folder)
	require.NotNil(t, sub.Folder.Local)
}

func TestFolder_Merge_DisjointIsCommutative(t *testing.T) {
	build := func(name, content string) Folder {
		f := NewVirtualFolder()
		require.NoError(t, f.Insert(name, virtualFileEntry(content)))
		return FolderOf(f)
	}
	a := build("a.txt", "a")
	b := build("b.txt", "b")

	ab, err := a.Merge(b)
	require.NoError(t, err)
	ba, err := b.Merge(a)
	require.NoError(t, err)

	names := func(f Folder) []string {
		var out []string
		for name := range f.Virtual.Entries {
			out = append(out, name)
		}
		return out
	}
	assert.ElementsMatch(t, names(ab), names(ba))
	assert.Equal(t, []byte("a"), ab.Virtual.Entries["a.txt"].File.Virtual.Content)
	assert.Equal(t, []byte("a"), ba.Virtual.Entries["a.txt"].File.Virtual.Content)
}

func TestFolder_Merge_LeftBiasOnFiles(t *testing.T) {
	left := NewVirtualFolder()
	require.NoError(t, left.Insert("same.txt", virtualFileEntry("left")))
	right := NewVirtualFolder()
	require.NoError(t, right.Insert("same.txt", virtualFileEntry("right")))

	merged, err := FolderOf(left).Merge(FolderOf(right))
	require.NoError(t, err)
	assert.Equal(t, []byte("left"), merged.Virtual.Entries["same.txt"].File.Virtual.Content)
}

func TestFolder_Merge_RecursesIntoFolders(t *testing.T) {
	left := NewVirtualFolder()
	require.NoError(t, left.Insert("docs/a.txt", virtualFileEntry("a")))
	right := NewVirtualFolder()
	require.NoError(t, right.Insert("docs/b.txt", virtualFileEntry("b")))

	merged, err := FolderOf(left).Merge(FolderOf(right))
	require.NoError(t, err)

	docs := merged.Virtual.Entries["docs"].Folder.Virtual
	assert.Contains(t, docs.Entries, "a.txt")
	assert.Contains(t, docs.Entries, "b.txt")
}

func TestFolder_Merge_FileFolderConflictFails(t *testing.T) {
	left := NewVirtualFolder()
	require.NoError(t, left.Insert("x", virtualFileEntry("file")))
	right := NewVirtualFolder()
	require.NoError(t, right.Insert("x/y.txt", virtualFileEntry("nested")))

	_, err := FolderOf(left).Merge(FolderOf(right))
	assert.Error(t, err)
}

func TestFolder_ZeroValueBehavesAsEmpty(t *testing.T) {
	var folder Folder
	virt, err := folder.ToVirtual()
	require.NoError(t, err)
	assert.Empty(t, virt.Entries)
}
