// Package pkgmgr implements the content-addressed package manager: a
// remote JSON index fetched over HTTPS, a local store of installed
// versions, SHA-256 integrity checking and atomic unpacking of LZ4
// compressed tar archives.
package pkgmgr

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/semio-ai/drydoc/internal/core/entities"
)

// ChecksumError reports that downloaded artifact bytes did not hash to the
// digest the index advertised.
type ChecksumError struct {
	Expected string
	Actual   string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch (expected: %s, actual: %s)", e.Expected, e.Actual)
}

// Fetcher retrieves the remote index and artifact bytes. Implementations
// verify artifact integrity before returning bytes.
type Fetcher interface {
	// Repository fetches the top-level package index.
	Repository(ctx context.Context) (entities.Repository, error)

	// Package fetches the full version table of one package.
	Package(ctx context.Context, name string) (entities.Package, error)

	// Artifact fetches the artifact bytes and verifies them against the
	// reference digest. A mismatch returns *ChecksumError.
	Artifact(ctx context.Context, ref entities.ArtifactRef) ([]byte, error)
}

// HTTPFetcher fetches the index from `<base>/repository.json` and
// `<base>/<pkg>/package.json`, and artifacts from their advertised URLs.
// Artifact URLs may also use the file scheme for local repositories.
type HTTPFetcher struct {
	base   string
	client *http.Client
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher creates a fetcher rooted at the given repository base URL.
func NewHTTPFetcher(base string) *HTTPFetcher {
	return &HTTPFetcher{
		base:   base,
		client: &http.Client{Timeout: 5 * time.Minute},
	}
}

// Repository implements Fetcher.
func (f *HTTPFetcher) Repository(ctx context.Context) (entities.Repository, error) {
	var repo entities.Repository
	if err := f.getJSON(ctx, f.base+"/repository.json", &repo); err != nil {
		return entities.Repository{}, err
	}
	return repo, nil
}

// Package implements Fetcher.
func (f *HTTPFetcher) Package(ctx context.Context, name string) (entities.Package, error) {
	var pkg entities.Package
	if err := f.getJSON(ctx, fmt.Sprintf("%s/%s/package.json", f.base, name), &pkg); err != nil {
		return entities.Package{}, err
	}
	return pkg, nil
}

// Artifact implements Fetcher.
func (f *HTTPFetcher) Artifact(ctx context.Context, ref entities.ArtifactRef) ([]byte, error) {
	bytes, err := f.getBytes(ctx, ref.URL)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(bytes)
	actual := hex.EncodeToString(sum[:])
	if actual != ref.SHA256 {
		return nil, &ChecksumError{Expected: ref.SHA256, Actual: actual}
	}
	return bytes, nil
}

func (f *HTTPFetcher) getJSON(ctx context.Context, rawURL string, v any) error {
	bytes, err := f.getBytes(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(bytes, v); err != nil {
		return fmt.Errorf("invalid response from %s: %w", rawURL, err)
	}
	return nil
}

func (f *HTTPFetcher) getBytes(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if parsed.Scheme == "file" {
		content, err := os.ReadFile(parsed.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", parsed.Path, err)
		}
		return content, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: %s", rawURL, res.Status)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rawURL, err)
	}
	return body, nil
}
