package usecases

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/semio-ai/drydoc/internal/core/entities"
)

// ValidationIssue is one problem found in a declaration tree.
type ValidationIssue struct {
	// Code is the issue code (e.g. "missing_id", "duplicate_id",
	// "bad_using", "import_cycle", "unreadable_import")
	Code string
	// Message is the human-readable description
	Message string
	// Path is the declaration file the issue was found in
	Path string
}

// ValidateDecl checks a declaration tree for structural problems without
// resolving or running any generator: missing ids, unparseable generator
// references, duplicate sibling ids, unreadable imports and import cycles.
type ValidateDecl struct {
	decls DeclLoader
}

// NewValidateDecl creates the validation use case.
func NewValidateDecl(decls DeclLoader) *ValidateDecl {
	return &ValidateDecl{decls: decls}
}

// Execute loads and walks the declaration tree rooted at configPath and
// returns every issue found. The returned error reports failures of the
// validation itself, not of the tree.
func (uc *ValidateDecl) Execute(ctx context.Context, configPath string) ([]ValidationIssue, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", configPath, err)
	}

	decl, err := uc.decls.Load(ctx, absPath)
	if err != nil {
		return []ValidationIssue{{
			Code:    "unreadable_config",
			Message: err.Error(),
			Path:    absPath,
		}}, nil
	}

	var issues []ValidationIssue
	uc.walk(ctx, decl, absPath, map[string]bool{absPath: true}, &issues)
	return issues, nil
}

func (uc *ValidateDecl) walk(ctx context.Context, decl entities.Decl, declPath string, visited map[string]bool, issues *[]ValidationIssue) {
	switch {
	case decl.Import != nil:
		uc.walkImport(ctx, *decl.Import, declPath, visited, issues)
	case decl.Generate != nil:
		uc.walkNode(ctx, *decl.Generate, declPath, visited, issues)
	default:
		*issues = append(*issues, ValidationIssue{
			Code:    "empty_node",
			Message: "declaration node has no variant",
			Path:    declPath,
		})
	}
}

func (uc *ValidateDecl) walkImport(ctx context.Context, imp entities.ImportDecl, declPath string, visited map[string]bool, issues *[]ValidationIssue) {
	absPath := imp.Path
	if !filepath.IsAbs(absPath) {
		absPath = filepath.Join(filepath.Dir(declPath), imp.Path)
	}

	if visited[absPath] {
		*issues = append(*issues, ValidationIssue{
			Code:    "import_cycle",
			Message: fmt.Sprintf("%s is imported again along the same chain", absPath),
			Path:    declPath,
		})
		return
	}
	visited[absPath] = true
	defer delete(visited, absPath)

	inner, err := uc.decls.Load(ctx, absPath)
	if err != nil {
		*issues = append(*issues, ValidationIssue{
			Code:    "unreadable_import",
			Message: err.Error(),
			Path:    declPath,
		})
		return
	}
	uc.walk(ctx, inner, absPath, visited, issues)
}

func (uc *ValidateDecl) walkNode(ctx context.Context, node entities.GenerateDecl, declPath string, visited map[string]bool, issues *[]ValidationIssue) {
	if node.ID == "" {
		*issues = append(*issues, ValidationIssue{
			Code:    "missing_id",
			Message: "generate node is missing an id",
			Path:    declPath,
		})
	}

	if node.Using == "" {
		*issues = append(*issues, ValidationIssue{
			Code:    "missing_using",
			Message: fmt.Sprintf("node %q names no generator", node.ID),
			Path:    declPath,
		})
	} else if _, _, err := entities.ParseUsing(node.Using); err != nil {
		*issues = append(*issues, ValidationIssue{
			Code:    "bad_using",
			Message: err.Error(),
			Path:    declPath,
		})
	}

	seen := map[string]bool{}
	for _, child := range node.Children {
		if child.Generate != nil {
			id := child.Generate.ID
			if id != "" && seen[id] {
				*issues = append(*issues, ValidationIssue{
					Code:    "duplicate_id",
					Message: fmt.Sprintf("node %q has two children named %q", node.ID, id),
					Path:    declPath,
				})
			}
			seen[id] = true
		}
		uc.walk(ctx, child, declPath, visited, issues)
	}
}
