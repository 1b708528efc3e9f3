package pkgmgr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/semio-ai/drydoc/internal/core/entities"
	"github.com/semio-ai/drydoc/internal/core/usecases"
)

// Resolution errors.
var (
	ErrPackageNotFound = errors.New("package not found")
	ErrVersionNotFound = errors.New("no version satisfies the requirement for this target")
)

// indexFetchConcurrency bounds concurrent package.json fetches while the
// remote index refreshes.
const indexFetchConcurrency = 8

// InstalledPackage is the result of a successful resolution: where the
// artifact lives on disk, which version won, and its metadata.
type InstalledPackage struct {
	Dir      string
	Version  entities.Version
	Artifact entities.Artifact
}

// InstalledVersion is one entry of the local store listing.
type InstalledVersion struct {
	Name    string
	Version entities.Version
}

// Manager resolves (name, version requirement, host triple) to a local
// installation directory, downloading, verifying and unpacking artifacts
// on first use. The remote index is fetched once and cached for the life
// of the manager. Calls serialize on an internal lock: simultaneous
// installs of the same package queue rather than race.
type Manager struct {
	fetcher Fetcher
	dir     string
	host    entities.TargetTriple
	logger  usecases.Logger

	mu    sync.Mutex
	cache *remoteCache
}

type remoteCache struct {
	repository entities.Repository
	packages   map[string]entities.Package
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithHostTriple overrides the target triple resolution runs against.
func WithHostTriple(t entities.TargetTriple) ManagerOption {
	return func(m *Manager) { m.host = t }
}

// WithLogger attaches a logger.
func WithLogger(l usecases.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates a manager over the given fetcher and store directory.
func NewManager(fetcher Fetcher, dir string, opts ...ManagerOption) *Manager {
	m := &Manager{
		fetcher: fetcher,
		dir:     dir,
		host:    entities.HostTriple(),
		logger:  usecases.NopLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get resolves name against the requirement and returns the installed
// package, fetching and unpacking the artifact if the version is not in
// the store yet.
func (m *Manager) Get(ctx context.Context, name string, req entities.VersionReq) (InstalledPackage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.update(ctx); err != nil {
		return InstalledPackage{}, err
	}

	pkg, ok := m.cache.packages[name]
	if !ok {
		return InstalledPackage{}, fmt.Errorf("%q: %w", name, ErrPackageNotFound)
	}

	best, ref, found := m.bestMatch(pkg, req)
	if !found {
		return InstalledPackage{}, fmt.Errorf("%s@%s: %w", name, req, ErrVersionNotFound)
	}

	dir := filepath.Join(m.dir, name, best.String())
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		m.logger.Info("package not found locally, fetching", "package", name, "version", best.String())
		bytes, err := m.fetcher.Artifact(ctx, ref)
		if err != nil {
			return InstalledPackage{}, fmt.Errorf("failed to fetch %s@%s: %w", name, best, err)
		}
		if err := unpackArchive(bytes, dir); err != nil {
			return InstalledPackage{}, fmt.Errorf("failed to install %s@%s: %w", name, best, err)
		}
		m.logger.Info("installed package", "package", name, "version", best.String())
	} else if err != nil {
		return InstalledPackage{}, fmt.Errorf("failed to stat %s: %w", dir, err)
	}

	artifact, err := readArtifact(dir)
	if err != nil {
		return InstalledPackage{}, err
	}

	return InstalledPackage{Dir: dir, Version: best, Artifact: artifact}, nil
}

// ListInstalled enumerates the store two levels deep, parsing each leaf
// directory name as a version. Entries that are not version directories
// are skipped.
func (m *Manager) ListInstalled() ([]InstalledVersion, error) {
	packages, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read store %s: %w", m.dir, err)
	}

	var ret []InstalledVersion
	for _, pkg := range packages {
		if !pkg.IsDir() {
			continue
		}
		versions, err := os.ReadDir(filepath.Join(m.dir, pkg.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read store %s: %w", m.dir, err)
		}
		for _, ver := range versions {
			if !ver.IsDir() {
				continue
			}
			version, err := entities.ParseVersion(ver.Name())
			if err != nil {
				continue
			}
			ret = append(ret, InstalledVersion{Name: pkg.Name(), Version: version})
		}
	}
	return ret, nil
}

// update refreshes the remote cache if it has not been fetched yet. The
// repository index is fetched first, then every package's version table,
// concurrently but bounded.
func (m *Manager) update(ctx context.Context) error {
	if m.cache != nil {
		return nil
	}

	repo, err := m.fetcher.Repository(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch repository index: %w", err)
	}

	packages := make(map[string]entities.Package, len(repo.Packages))
	var packagesMu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(indexFetchConcurrency)
	for _, name := range repo.Packages {
		group.Go(func() error {
			pkg, err := m.fetcher.Package(groupCtx, name)
			if err != nil {
				return fmt.Errorf("failed to fetch package %s: %w", name, err)
			}
			packagesMu.Lock()
			packages[pkg.Name] = pkg
			packagesMu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	m.cache = &remoteCache{repository: repo, packages: packages}
	return nil
}

// bestMatch picks the highest version that both satisfies the requirement
// and publishes an artifact for the host triple.
func (m *Manager) bestMatch(pkg entities.Package, req entities.VersionReq) (entities.Version, entities.ArtifactRef, bool) {
	var (
		best    entities.Version
		bestRef entities.ArtifactRef
		found   bool
	)
	for _, pv := range pkg.Versions {
		ref, ok := pv.TargetArtifacts[m.host]
		if !ok || !req.Matches(pv.Version) {
			continue
		}
		if !found || best.Less(pv.Version) {
			best, bestRef, found = pv.Version, ref, true
		}
	}
	return best, bestRef, found
}

func readArtifact(dir string) (entities.Artifact, error) {
	path := filepath.Join(dir, "artifact.json")
	content, err := os.ReadFile(path)
	if err != nil {
		return entities.Artifact{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var artifact entities.Artifact
	if err := json.Unmarshal(content, &artifact); err != nil {
		return entities.Artifact{}, fmt.Errorf("invalid %s: %w", path, err)
	}
	return artifact, nil
}
