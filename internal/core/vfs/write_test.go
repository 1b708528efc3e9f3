package vfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolder_WriteInto(t *testing.T) {
	src := t.TempDir()
	localPath := filepath.Join(src, "local.bin")
	require.NoError(t, os.WriteFile(localPath, []byte{0x01, 0x02}, 0o644))

	folder := NewVirtualFolder()
	require.NoError(t, folder.Insert("readme.md", virtualFileEntry("# hi")))
	require.NoError(t, folder.Insert("assets/data.bin", FileEntry(FileOfLocal(NewLocalFile(localPath)))))

	out := filepath.Join(t.TempDir(), "site")
	require.NoError(t, FolderOf(folder).WriteInto(out))

	written, err := os.ReadFile(filepath.Join(out, "readme.md"))
	require.NoError(t, err)
	assert.Equal(t, []byte("# hi"), written)

	copied, err := os.ReadFile(filepath.Join(out, "assets", "data.bin"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, copied)
}

func TestFolder_WriteInto_LocalFolderIsMaterialized(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "nested", "f.txt"), []byte("x"), 0o644))

	out := filepath.Join(t.TempDir(), "out")
	require.NoError(t, FolderOfLocal(NewLocalFolder(src)).WriteInto(out))

	content, err := os.ReadFile(filepath.Join(out, "nested", "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), content)
}

func TestFolder_WriteInto_LinkedFileIsAnError(t *testing.T) {
	folder := NewVirtualFolder()
	require.NoError(t, folder.Insert("dangling", FileEntry(FileOfLinked(&LinkedFile{Handle: 7}))))

	err := FolderOf(folder).WriteInto(filepath.Join(t.TempDir(), "out"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLinkedFileUnresolved)
}

func TestFolder_WriteInto_MissingLocalFileSurfaces(t *testing.T) {
	folder := NewVirtualFolder()
	require.NoError(t, folder.Insert("gone", FileEntry(FileOfLocal(NewLocalFile("/no/such/file")))))

	assert.Error(t, FolderOf(folder).WriteInto(filepath.Join(t.TempDir(), "out")))
}
