package usecases

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/semio-ai/drydoc/internal/core/entities"
)

// rootContextID is the generation context every request in a build uses.
// Contexts exist for generators that batch work; the driver runs one.
const rootContextID uint32 = 0

// BuildSite walks a declaration tree depth-first, dispatches every node to
// its generator, and merges child bundles into their parents bottom-up.
//
// Children under a parent are generated sequentially; the manifest merge
// is left-biased, so any parallel refinement must preserve sibling order
// effects per name.
type BuildSite struct {
	generators GeneratorService
	decls      DeclLoader
	logger     Logger
	progress   ProgressReporter
}

// NewBuildSite creates the build use case with the given adapters.
func NewBuildSite(generators GeneratorService, decls DeclLoader) *BuildSite {
	return &BuildSite{
		generators: generators,
		decls:      decls,
		logger:     NopLogger(),
		progress:   NopProgressReporter(),
	}
}

// WithLogger sets the logger.
func (uc *BuildSite) WithLogger(logger Logger) *BuildSite {
	uc.logger = logger
	return uc
}

// WithProgress sets the progress reporter.
func (uc *BuildSite) WithProgress(progress ProgressReporter) *BuildSite {
	uc.progress = progress
	return uc
}

// Execute builds the bundle described by the declaration file at
// configPath.
func (uc *BuildSite) Execute(ctx context.Context, configPath string) (entities.Bundle, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return entities.Bundle{}, fmt.Errorf("failed to resolve %s: %w", configPath, err)
	}

	decl, err := uc.decls.Load(ctx, absPath)
	if err != nil {
		return entities.Bundle{}, err
	}

	bundle, err := uc.genDecl(ctx, decl, nil, absPath)
	if err != nil {
		return entities.Bundle{}, err
	}

	if err := bundle.Manifest.Validate(); err != nil {
		uc.logger.Warn("built manifest failed validation", "error", err.Error())
	}
	return bundle, nil
}

// genDecl resolves one declaration node. Imports re-enter the walk with
// the imported file as the new declaration path; generate nodes recurse
// into their children first, then dispatch to the generator and fold the
// child bundles in.
func (uc *BuildSite) genDecl(ctx context.Context, decl entities.Decl, parent *entities.Namespace, declPath string) (entities.Bundle, error) {
	switch {
	case decl.Import != nil:
		return uc.genImport(ctx, *decl.Import, parent, declPath)
	case decl.Generate != nil:
		return uc.genNode(ctx, *decl.Generate, parent, declPath)
	default:
		return entities.Bundle{}, fmt.Errorf("declaration in %s has no variant", declPath)
	}
}

func (uc *BuildSite) genImport(ctx context.Context, imp entities.ImportDecl, parent *entities.Namespace, declPath string) (entities.Bundle, error) {
	absPath := imp.Path
	if !filepath.IsAbs(absPath) {
		absPath = filepath.Join(filepath.Dir(declPath), imp.Path)
	}

	uc.logger.Debug("importing declaration", "path", absPath)
	inner, err := uc.decls.Load(ctx, absPath)
	if err != nil {
		return entities.Bundle{}, fmt.Errorf("failed to import %s: %w", imp.Path, err)
	}
	return uc.genDecl(ctx, inner, parent, absPath)
}

func (uc *BuildSite) genNode(ctx context.Context, node entities.GenerateDecl, parent *entities.Namespace, declPath string) (entities.Bundle, error) {
	if node.ID == "" {
		return entities.Bundle{}, fmt.Errorf("generate node in %s is missing an id", declPath)
	}

	var ns *entities.Namespace
	if parent == nil {
		ns = entities.NewNamespace(node.ID)
	} else {
		ns = parent.Child(node.ID)
	}

	var children []entities.Bundle
	for _, child := range node.Children {
		sub, err := uc.genDecl(ctx, child, ns, declPath)
		if err != nil {
			return entities.Bundle{}, err
		}
		children = append(children, sub)
	}

	name, req, err := entities.ParseUsing(node.Using)
	if err != nil {
		return entities.Bundle{}, fmt.Errorf("node %q: %w", node.ID, err)
	}

	uc.progress.ReportInfo(fmt.Sprintf("Generating %s (%s)", ns, name))
	client, err := uc.generators.GetOrStart(ctx, name, req)
	if err != nil {
		return entities.Bundle{}, fmt.Errorf("failed to start generator %s: %w", name, err)
	}

	bundle, err := client.Generate(ctx, rootContextID, ns.String(), node.With, declPath)
	if err != nil {
		return entities.Bundle{}, fmt.Errorf("generator %s failed for %q: %w", name, ns, err)
	}

	for _, sub := range children {
		bundle, err = bundle.Merge(sub)
		if err != nil {
			return entities.Bundle{}, fmt.Errorf("failed to merge children of %q: %w", ns, err)
		}
	}
	return bundle, nil
}
