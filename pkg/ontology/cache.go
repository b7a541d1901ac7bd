package ontology

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/singleflight"

	"github.com/bigbio/sdrf-go/pkg/logger"
)

var cacheLog = logger.New("ontology:cache")

var (
	// ErrUnknownOntology indicates an acronym with no registered source.
	ErrUnknownOntology = errors.New("unknown ontology")

	// ErrOntologyUnavailable indicates an index could not be produced: no
	// valid cached copy and the download failed or was disallowed.
	ErrOntologyUnavailable = errors.New("ontology unavailable")
)

// Config controls where ontology artifacts are cached and how they are
// fetched. The zero value is usable; defaults are applied by NewCache.
type Config struct {
	// Root is the cache directory. Defaults to
	// <user cache dir>/sdrf-go/ontologies.
	Root string

	// BaseURL is the artifact download prefix. Defaults to DefaultBaseURL.
	BaseURL string

	// Registry pins acronyms to artifacts and checksums. Defaults to
	// DefaultRegistry().
	Registry Registry

	// Client is the HTTP client used for downloads.
	Client *http.Client

	// CacheOnly forbids network access; a missing or corrupt cached
	// artifact becomes ErrOntologyUnavailable instead of a download.
	CacheOnly bool

	// MaxRetries bounds download retry attempts. Defaults to 3.
	MaxRetries uint64
}

// DefaultRoot returns the default on-disk cache directory.
func DefaultRoot() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user cache dir: %w", err)
	}
	return filepath.Join(base, "sdrf-go", "ontologies"), nil
}

// Cache materializes ontology indices on demand. Artifacts are stored on
// disk under their registered names, verified by checksum on every load,
// and parsed into in-memory indices at most once per process. Concurrent
// requests for the same acronym share a single fetch.
type Cache struct {
	cfg    Config
	group  singleflight.Group
	mu     sync.Mutex
	loaded map[string]*Index
}

// NewCache builds a cache from cfg, filling in defaults.
func NewCache(cfg Config) (*Cache, error) {
	if cfg.Root == "" {
		root, err := DefaultRoot()
		if err != nil {
			return nil, err
		}
		cfg.Root = root
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Registry == nil {
		cfg.Registry = DefaultRegistry()
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 60 * time.Second}
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	return &Cache{cfg: cfg, loaded: make(map[string]*Index)}, nil
}

// Root returns the cache directory in use.
func (c *Cache) Root() string { return c.cfg.Root }

// Ensure returns the index for acronym, fetching and verifying the backing
// artifact if needed. Verification is fail-closed: without a
// checksum-valid artifact no index is returned.
func (c *Cache) Ensure(ctx context.Context, acronym string) (*Index, error) {
	c.mu.Lock()
	if ix, ok := c.loaded[acronym]; ok {
		c.mu.Unlock()
		return ix, nil
	}
	c.mu.Unlock()

	result, err, _ := c.group.Do(acronym, func() (any, error) {
		return c.load(ctx, acronym, false)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Index), nil
}

func (c *Cache) load(ctx context.Context, acronym string, force bool) (*Index, error) {
	src, err := c.cfg.Registry.Lookup(acronym)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(c.cfg.Root, src.Artifact)
	if !force && c.verify(path, src.SHA256) {
		cacheLog.Printf("using cached %s index at %s", acronym, path)
	} else {
		if c.cfg.CacheOnly {
			return nil, fmt.Errorf("%w: %s has no valid cached index and downloads are disabled", ErrOntologyUnavailable, acronym)
		}
		if err := c.fetch(ctx, src, path); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrOntologyUnavailable, acronym, err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOntologyUnavailable, acronym, err)
	}
	defer f.Close()

	ix, err := ParseIndex(f, acronym)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOntologyUnavailable, err)
	}

	c.mu.Lock()
	c.loaded[acronym] = ix
	c.mu.Unlock()
	cacheLog.Printf("loaded %s index with %d terms", acronym, ix.Len())
	return ix, nil
}

// verify reports whether path exists and hashes to want.
func (c *Cache) verify(path, want string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return false
	}
	got := hex.EncodeToString(h.Sum(nil))
	if got != want {
		cacheLog.Printf("checksum mismatch for %s: got %s want %s", path, got, want)
		return false
	}
	return true
}

// fetch downloads one artifact with retries, verifies the payload checksum,
// and installs it atomically via a temp file and rename. A partially
// written or corrupt payload never lands at the final path.
func (c *Cache) fetch(ctx context.Context, src Source, path string) error {
	if err := os.MkdirAll(c.cfg.Root, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	artifactURL, err := url.JoinPath(c.cfg.BaseURL, src.Artifact)
	if err != nil {
		return fmt.Errorf("failed to build artifact URL: %w", err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.cfg.MaxRetries), ctx)
	return backoff.Retry(func() error {
		cacheLog.Printf("downloading %s", artifactURL)
		return c.downloadOnce(ctx, artifactURL, src.SHA256, path)
	}, policy)
}

func (c *Cache) downloadOnce(ctx context.Context, artifactURL, wantSHA256, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artifactURL, nil)
	if err != nil {
		return backoff.Permanent(err)
	}

	resp, err := c.cfg.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return backoff.Permanent(fmt.Errorf("artifact not published: %s", artifactURL))
	case resp.StatusCode >= 500:
		return fmt.Errorf("server returned %s for %s", resp.Status, artifactURL)
	default:
		return backoff.Permanent(fmt.Errorf("unexpected status %s for %s", resp.Status, artifactURL))
	}

	tmp, err := os.CreateTemp(c.cfg.Root, filepath.Base(path)+".download-*")
	if err != nil {
		return backoff.Permanent(err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tmp, h), resp.Body); err != nil {
		return fmt.Errorf("failed to read artifact body: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	got := hex.EncodeToString(h.Sum(nil))
	if got != wantSHA256 {
		return fmt.Errorf("checksum mismatch for %s: got %s want %s", artifactURL, got, wantSHA256)
	}
	return os.Rename(tmp.Name(), path)
}

// DownloadAll fetches every registered artifact, bounded-concurrently.
// With force set, valid cached copies are refetched anyway.
func (c *Cache) DownloadAll(ctx context.Context, force bool) error {
	return c.Download(ctx, c.cfg.Registry.Acronyms(), force)
}

// Download fetches the given acronyms' artifacts, bounded-concurrently.
func (c *Cache) Download(ctx context.Context, acronyms []string, force bool) error {
	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(4)
	for _, acronym := range acronyms {
		p.Go(func(ctx context.Context) error {
			_, err, _ := c.group.Do(acronym, func() (any, error) {
				if force {
					c.mu.Lock()
					delete(c.loaded, acronym)
					c.mu.Unlock()
				}
				return c.load(ctx, acronym, force)
			})
			return err
		})
	}
	return p.Wait()
}

// Entry describes one registered ontology's cache state.
type Entry struct {
	Acronym  string `json:"acronym"`
	Artifact string `json:"artifact"`
	Cached   bool   `json:"cached"`
	Valid    bool   `json:"valid"`
	Terms    int    `json:"terms,omitempty"`
}

// Info reports the cache state of every registered ontology without
// triggering downloads. Entries are sorted by acronym.
func (c *Cache) Info() []Entry {
	entries := make([]Entry, 0, len(c.cfg.Registry))
	for _, acronym := range c.cfg.Registry.Acronyms() {
		src := c.cfg.Registry[acronym]
		path := filepath.Join(c.cfg.Root, src.Artifact)
		entry := Entry{Acronym: acronym, Artifact: src.Artifact}
		if _, err := os.Stat(path); err == nil {
			entry.Cached = true
			entry.Valid = c.verify(path, src.SHA256)
		}
		c.mu.Lock()
		if ix, ok := c.loaded[acronym]; ok {
			entry.Terms = ix.Len()
		}
		c.mu.Unlock()
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Acronym < entries[j].Acronym })
	return entries
}

// Invalidate drops one ontology's cached artifact and in-memory index, so
// the next Ensure refetches it.
func (c *Cache) Invalidate(acronym string) error {
	src, err := c.cfg.Registry.Lookup(acronym)
	if err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.loaded, acronym)
	c.mu.Unlock()

	path := filepath.Join(c.cfg.Root, src.Artifact)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// Clear removes all cached artifacts and forgets loaded indices.
func (c *Cache) Clear() error {
	c.mu.Lock()
	c.loaded = make(map[string]*Index)
	c.mu.Unlock()

	for _, src := range c.cfg.Registry {
		path := filepath.Join(c.cfg.Root, src.Artifact)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return nil
}
