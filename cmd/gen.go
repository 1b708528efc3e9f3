package cmd

import (
	"context"
	"fmt"

	"github.com/semio-ai/drydoc/internal/adapters/cli"
	"github.com/semio-ai/drydoc/internal/adapters/config"
	"github.com/semio-ai/drydoc/internal/adapters/emitter"
	"github.com/semio-ai/drydoc/internal/adapters/logging"
	"github.com/semio-ai/drydoc/internal/core/entities"
	"github.com/semio-ai/drydoc/internal/core/usecases"
	"github.com/semio-ai/drydoc/internal/generator"
	"github.com/semio-ai/drydoc/internal/pkgmgr"
)

// GenCommand builds the documentation site described by a declaration
// file.
type GenCommand struct {
	configPath    string
	outputDir     string
	repositoryURL string
	repositoryDir string
	compress      bool
}

// NewGenCommand creates a new gen command for the given declaration file.
func NewGenCommand(configPath string) *GenCommand {
	defaults := config.DefaultSettings()
	return &GenCommand{
		configPath:    configPath,
		outputDir:     defaults.Build.Output,
		repositoryURL: defaults.Repository.URL,
		repositoryDir: defaults.Repository.Dir,
	}
}

// WithOutputDir sets the output directory.
func (c *GenCommand) WithOutputDir(dir string) *GenCommand {
	c.outputDir = dir
	return c
}

// WithRepositoryURL sets the package repository base URL.
func (c *GenCommand) WithRepositoryURL(url string) *GenCommand {
	c.repositoryURL = url
	return c
}

// WithRepositoryDir sets the local package store directory.
func (c *GenCommand) WithRepositoryDir(dir string) *GenCommand {
	c.repositoryDir = dir
	return c
}

// WithCompressedManifest enables LZ4+Base64 wrapping of the embedded
// manifest.
func (c *GenCommand) WithCompressedManifest(compress bool) *GenCommand {
	c.compress = compress
	return c
}

// Execute runs the build: resolve the declaration tree, dispatch every
// node to its generator, merge the bundles and emit the site.
func (c *GenCommand) Execute(ctx context.Context) error {
	bundle, supervisor, err := c.build(ctx)
	if supervisor != nil {
		defer supervisor.Close()
	}
	if err != nil {
		return err
	}

	logger := logging.Init(Verbose)
	html := emitter.NewHtml(c.outputDir).
		WithCompression(c.compress).
		WithLogger(logger)
	if err := html.Emit(ctx, bundle); err != nil {
		return err
	}

	cli.NewProgressReporter().ReportSuccess(fmt.Sprintf("Site written to %s", c.outputDir))
	return nil
}

// build resolves the declaration tree into a merged bundle. The returned
// supervisor still owns the spawned generators; callers close it.
func (c *GenCommand) build(ctx context.Context) (entities.Bundle, *generator.Supervisor, error) {
	logger := logging.Init(Verbose)
	progress := cli.NewProgressReporter()

	fetcher := pkgmgr.NewHTTPFetcher(c.repositoryURL)
	manager := pkgmgr.NewManager(fetcher, c.repositoryDir, pkgmgr.WithLogger(logger))
	supervisor := generator.NewSupervisor(manager,
		generator.WithLogger(logger),
		generator.WithProgress(progress))

	buildSite := usecases.NewBuildSite(supervisor, config.NewDeclLoader()).
		WithLogger(logger).
		WithProgress(progress)

	bundle, err := buildSite.Execute(ctx, c.configPath)
	if err != nil {
		return entities.Bundle{}, supervisor, err
	}
	return bundle, supervisor, nil
}
