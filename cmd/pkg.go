package cmd

import (
	"context"
	"fmt"

	"github.com/semio-ai/drydoc/internal/adapters/logging"
	"github.com/semio-ai/drydoc/internal/core/entities"
	"github.com/semio-ai/drydoc/internal/pkgmgr"
	"github.com/semio-ai/drydoc/internal/ui"
)

// PkgGetCommand installs a generator package into the local store.
type PkgGetCommand struct {
	name          string
	versionReq    string
	repositoryURL string
	repositoryDir string
}

// NewPkgGetCommand creates a new pkg get command.
func NewPkgGetCommand(name string) *PkgGetCommand {
	return &PkgGetCommand{name: name, versionReq: "*"}
}

// WithVersionReq sets the version requirement (defaults to "*").
func (c *PkgGetCommand) WithVersionReq(req string) *PkgGetCommand {
	c.versionReq = req
	return c
}

// WithRepository sets the repository URL and store directory.
func (c *PkgGetCommand) WithRepository(url, dir string) *PkgGetCommand {
	c.repositoryURL = url
	c.repositoryDir = dir
	return c
}

// Execute resolves and installs the package.
func (c *PkgGetCommand) Execute(ctx context.Context) error {
	req, err := entities.ParseVersionReq(c.versionReq)
	if err != nil {
		return err
	}

	manager := pkgmgr.NewManager(
		pkgmgr.NewHTTPFetcher(c.repositoryURL),
		c.repositoryDir,
		pkgmgr.WithLogger(logging.Init(Verbose)))

	installed, err := manager.Get(ctx, c.name, req)
	if err != nil {
		return err
	}

	ui.NewOutput().Success("%s@%s installed at %s", c.name, installed.Version, installed.Dir)
	return nil
}

// PkgInstalledCommand lists packages present in the local store.
type PkgInstalledCommand struct {
	packageFilter string
	repositoryURL string
	repositoryDir string
}

// NewPkgInstalledCommand creates a new pkg installed command.
func NewPkgInstalledCommand() *PkgInstalledCommand {
	return &PkgInstalledCommand{}
}

// WithPackageFilter restricts the listing to one package name.
func (c *PkgInstalledCommand) WithPackageFilter(name string) *PkgInstalledCommand {
	c.packageFilter = name
	return c
}

// WithRepository sets the repository URL and store directory.
func (c *PkgInstalledCommand) WithRepository(url, dir string) *PkgInstalledCommand {
	c.repositoryURL = url
	c.repositoryDir = dir
	return c
}

// Execute prints every installed (package, version) pair.
func (c *PkgInstalledCommand) Execute(ctx context.Context) error {
	manager := pkgmgr.NewManager(
		pkgmgr.NewHTTPFetcher(c.repositoryURL),
		c.repositoryDir)

	installed, err := manager.ListInstalled()
	if err != nil {
		return err
	}

	for _, pkg := range installed {
		if c.packageFilter != "" && pkg.Name != c.packageFilter {
			continue
		}
		fmt.Printf("%s@%s\n", pkg.Name, pkg.Version)
	}
	return nil
}
