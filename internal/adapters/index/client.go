// Package index implements the PackageIndex port: an HTTP registry client
// with a local lookup cache, and a static in-memory index for offline use.
package index

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/shedtool/shed/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	defaultRegistryBase = "https://index.shedtool.dev/v2/lookup"
	httpClientTimeout   = 30 * time.Second
)

// Client implements ports.PackageIndex against an HTTP registry with a local
// file cache. Cached lookups are served without touching the network, so a
// resolution against a warm cache is a pure function of its inputs.
type Client struct {
	baseURL    string
	cacheDir   string
	httpClient *http.Client
}

// NewClient creates a new registry-backed PackageIndex with the default
// registry endpoint and cache directory. Construction has no side effects;
// the cache directory is created lazily on the first write.
func NewClient() *Client {
	return newClientWithPath(defaultRegistryBase, domain.DefaultIndexCachePath())
}

// newClientWithPath creates a Client with a custom endpoint and cache path
// (used for testing).
func newClientWithPath(baseURL, cachePath string) *Client {
	return &Client{
		baseURL:  baseURL,
		cacheDir: filepath.Clean(cachePath),
		httpClient: &http.Client{
			Timeout: httpClientTimeout,
		},
	}
}

// Lookup returns the available candidates for a name, consulting the local
// cache before the registry.
func (c *Client) Lookup(ctx context.Context, name string) ([]domain.Candidate, error) {
	cachePath := c.getCachePath(name)
	if releases, err := c.loadFromCache(cachePath); err == nil {
		return toCandidates(releases), nil
	}

	resp, err := c.queryRegistry(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := c.saveToCache(cachePath, name, resp.Releases); err != nil {
		// A cache write failure is not fatal for the lookup.
		_ = err
	}

	return toCandidates(resp.Releases), nil
}

// getHash generates a SHA-256 hash from a package name, used as a
// deterministic cache filename.
func getHash(name string) string {
	hash := sha256.Sum256([]byte(name))
	return hex.EncodeToString(hash[:])
}

func (c *Client) getCachePath(name string) string {
	return filepath.Join(c.cacheDir, getHash(name)+".json")
}

func (c *Client) loadFromCache(path string) ([]ReleaseDTO, error) {
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrIndexCacheReadFailed
		}
		return nil, zerr.Wrap(err, domain.ErrIndexCacheReadFailed.Error())
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, zerr.Wrap(err, domain.ErrIndexCacheReadFailed.Error())
	}

	if len(entry.Releases) == 0 {
		return nil, domain.ErrIndexCacheReadFailed
	}

	return entry.Releases, nil
}

func (c *Client) saveToCache(path, name string, releases []ReleaseDTO) error {
	entry := cacheEntry{
		Name:      name,
		Releases:  releases,
		Timestamp: time.Now(),
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrIndexCacheWriteFailed.Error())
	}

	if err := atomicWriteFile(path, data); err != nil {
		return zerr.Wrap(err, domain.ErrIndexCacheWriteFailed.Error())
	}

	return nil
}

// atomicWriteFile writes data to a file atomically by writing to a temp file
// and renaming it.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, "index-cache-*.json")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := tmpFile.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// queryRegistry fetches the candidates for a name from the registry.
func (c *Client) queryRegistry(ctx context.Context, name string) (*lookupResponse, error) {
	lookupURL := fmt.Sprintf("%s?name=%s", c.baseURL, url.QueryEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, http.NoBody)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrIndexRequestFailed.Error())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrIndexRequestFailed.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		notFound := zerr.Wrap(domain.ErrPackageNotFound, fmt.Sprintf("package %q", name))
		return nil, zerr.With(notFound, "name", name)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := zerr.Wrap(domain.ErrIndexRequestFailed, fmt.Sprintf("registry returned status %d for %q", resp.StatusCode, name))
		apiErr = zerr.With(apiErr, "status_code", resp.StatusCode)
		return nil, zerr.With(apiErr, "name", name)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrIndexRequestFailed.Error())
	}

	var lookup lookupResponse
	if err := json.Unmarshal(body, &lookup); err != nil {
		return nil, zerr.Wrap(err, domain.ErrIndexParseFailed.Error())
	}

	if len(lookup.Releases) == 0 {
		notFound := zerr.Wrap(domain.ErrPackageNotFound, fmt.Sprintf("package %q has no releases", name))
		return nil, zerr.With(notFound, "name", name)
	}

	return &lookup, nil
}

func toCandidates(releases []ReleaseDTO) []domain.Candidate {
	candidates := make([]domain.Candidate, len(releases))
	for i, rel := range releases {
		candidates[i] = domain.Candidate{
			Version: domain.NewInternedString(rel.Version),
			Artifact: domain.Artifact{
				Registry: domain.NewInternedString(rel.Registry),
				Rev:      domain.NewInternedString(rel.Rev),
				AttrPath: domain.NewInternedString(rel.AttrPath),
			},
		}
	}
	return candidates
}
