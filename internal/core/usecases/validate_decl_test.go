package usecases

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semio-ai/drydoc/internal/core/entities"
)

func codes(issues []ValidationIssue) []string {
	var out []string
	for _, issue := range issues {
		out = append(out, issue.Code)
	}
	return out
}

func TestValidateDecl_CleanTree(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "drydoc.yaml")
	decls := &fakeDecls{decls: map[string]entities.Decl{
		configPath: generateNode("root", "copy", nil,
			generateNode("a", "markdown@^1", nil),
			generateNode("b", "copy", nil)),
	}}

	issues, err := NewValidateDecl(decls).Execute(context.Background(), configPath)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestValidateDecl_FlagsMissingIDAndUsing(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "drydoc.yaml")
	decls := &fakeDecls{decls: map[string]entities.Decl{
		configPath: generateNode("", "", nil),
	}}

	issues, err := NewValidateDecl(decls).Execute(context.Background(), configPath)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"missing_id", "missing_using"}, codes(issues))
}

func TestValidateDecl_FlagsBadUsing(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "drydoc.yaml")
	decls := &fakeDecls{decls: map[string]entities.Decl{
		configPath: generateNode("docs", "copy@not a req", nil),
	}}

	issues, err := NewValidateDecl(decls).Execute(context.Background(), configPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"bad_using"}, codes(issues))
}

func TestValidateDecl_FlagsDuplicateSiblingIDs(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "drydoc.yaml")
	decls := &fakeDecls{decls: map[string]entities.Decl{
		configPath: generateNode("root", "copy", nil,
			generateNode("twin", "copy", nil),
			generateNode("twin", "copy", nil)),
	}}

	issues, err := NewValidateDecl(decls).Execute(context.Background(), configPath)
	require.NoError(t, err)
	assert.Contains(t, codes(issues), "duplicate_id")
}

func TestValidateDecl_FlagsImportCycle(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.yaml")
	bPath := filepath.Join(dir, "b.yaml")
	decls := &fakeDecls{decls: map[string]entities.Decl{
		aPath: {Import: &entities.ImportDecl{Path: "b.yaml"}},
		bPath: {Import: &entities.ImportDecl{Path: "a.yaml"}},
	}}

	issues, err := NewValidateDecl(decls).Execute(context.Background(), aPath)
	require.NoError(t, err)
	assert.Contains(t, codes(issues), "import_cycle")
}

func TestValidateDecl_FlagsUnreadableImport(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "drydoc.yaml")
	decls := &fakeDecls{decls: map[string]entities.Decl{
		configPath: {Import: &entities.ImportDecl{Path: "missing.yaml"}},
	}}

	issues, err := NewValidateDecl(decls).Execute(context.Background(), configPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"unreadable_import"}, codes(issues))
}

func TestValidateDecl_UnreadableConfigIsAnIssueNotAnError(t *testing.T) {
	issues, err := NewValidateDecl(&fakeDecls{decls: map[string]entities.Decl{}}).
		Execute(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"unreadable_config"}, codes(issues))
}
