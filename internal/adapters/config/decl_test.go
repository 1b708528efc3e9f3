package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDecl(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drydoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDeclLoader_LoadGenerateTree(t *testing.T) {
	path := writeDecl(t, `
decl:
  type: generate
  id: root
  using: copy
  with:
    path: README.md
  children:
    - type: generate
      id: sub
      using: markdown@^1
      with:
        path: docs/guide.md
`)

	decl, err := NewDeclLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, decl.Generate)

	assert.Equal(t, "root", decl.Generate.ID)
	assert.Equal(t, "copy", decl.Generate.Using)
	assert.Equal(t, map[string]string{"path": "README.md"}, decl.Generate.With)

	require.Len(t, decl.Generate.Children, 1)
	child := decl.Generate.Children[0]
	require.NotNil(t, child.Generate)
	assert.Equal(t, "sub", child.Generate.ID)
	assert.Equal(t, "markdown@^1", child.Generate.Using)
}

func TestDeclLoader_BareDocumentWithoutDeclKey(t *testing.T) {
	path := writeDecl(t, `
type: generate
id: docs
using: copy
`)

	decl, err := NewDeclLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, decl.Generate)
	assert.Equal(t, "docs", decl.Generate.ID)
}

func TestDeclLoader_TypeDefaultsToGenerate(t *testing.T) {
	path := writeDecl(t, `
decl:
  id: docs
  using: copy
`)

	decl, err := NewDeclLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, decl.Generate)
}

func TestDeclLoader_ImportNode(t *testing.T) {
	path := writeDecl(t, `
decl:
  type: import
  path: sub/inner.yaml
`)

	decl, err := NewDeclLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, decl.Import)
	assert.Equal(t, "sub/inner.yaml", decl.Import.Path)
}

func TestDeclLoader_ImportWithoutPathFails(t *testing.T) {
	path := writeDecl(t, `
decl:
  type: import
`)

	_, err := NewDeclLoader().Load(context.Background(), path)
	assert.Error(t, err)
}

func TestDeclLoader_ScalarParamsCoerceToStrings(t *testing.T) {
	path := writeDecl(t, `
decl:
  id: docs
  using: copy
  with:
    depth: 3
    strict: true
`)

	decl, err := NewDeclLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"depth": "3", "strict": "true"}, decl.Generate.With)
}

func TestDeclLoader_PreprocessorRuns(t *testing.T) {
	path := writeDecl(t, `
decl:
  id: docs
  using: copy
  with:
    name: $(echo generated)
`)

	decl, err := NewDeclLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "generated", decl.Generate.With["name"])
}

func TestDeclLoader_UnknownTypeFails(t *testing.T) {
	path := writeDecl(t, `
decl:
  type: teleport
  id: docs
`)

	_, err := NewDeclLoader().Load(context.Background(), path)
	assert.Error(t, err)
}

func TestDeclLoader_MissingFileFails(t *testing.T) {
	_, err := NewDeclLoader().Load(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
