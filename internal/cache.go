package internal

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	tt "github.com/gnolang/luthor/internal/types"
)

const (
	cacheFileName   = "token_cache.gob"
	cacheVersion    = 1
	defaultCacheAge = 24 * time.Hour
)

// Fingerprint hashes the given parts into a hex string. Callers use it to
// identify the token configuration a result was produced with.
func Fingerprint(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		// length prefix keeps ("ab","c") and ("a","bc") apart
		fmt.Fprintf(h, "%d:", len(p))
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// sourceStamp identifies the content of a source file at caching time.
type sourceStamp struct {
	Hash    string
	ModTime time.Time
	Size    int64
}

func (s sourceStamp) equal(other sourceStamp) bool {
	return s.Hash == other.Hash && s.Size == other.Size && s.ModTime.Equal(other.ModTime)
}

type cacheEntry struct {
	Stamp       sourceStamp
	Fingerprint string
	Result      tt.Result
	StoredAt    time.Time
}

// cacheFile is the on-disk layout. A file with another version is ignored.
type cacheFile struct {
	Version int
	Entries map[string]cacheEntry
}

// Cache keeps tokenizing results on disk between runs. Every entry carries
// the fingerprint of the configuration that produced it, so results made
// with another token set are never served, whichever process wrote them.
type Cache struct {
	dir         string
	fingerprint string

	mu      sync.Mutex
	maxAge  time.Duration
	entries map[string]cacheEntry
}

// NewCache opens the cache in dir for results produced under fingerprint.
func NewCache(dir string, fingerprint string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	c := &Cache{
		dir:         dir,
		fingerprint: fingerprint,
		maxAge:      defaultCacheAge,
		entries:     make(map[string]cacheEntry),
	}
	if err := c.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}
	return c, nil
}

// Fingerprint returns the configuration fingerprint the cache serves.
func (c *Cache) Fingerprint() string { return c.fingerprint }

func (c *Cache) path() string { return filepath.Join(c.dir, cacheFileName) }

func (c *Cache) load() error {
	f, err := os.Open(c.path())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	var data cacheFile
	if err := gob.NewDecoder(f).Decode(&data); err != nil {
		return fmt.Errorf("failed to decode %s: %w", c.path(), err)
	}
	if data.Version != cacheVersion || data.Entries == nil {
		return nil
	}
	c.entries = data.Entries
	return nil
}

// save writes the entries to a temporary file and renames it into place so
// that a concurrent reader never sees a partial file. c.mu must be held.
func (c *Cache) save() error {
	tmp, err := os.CreateTemp(c.dir, cacheFileName+".*")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	err = gob.NewEncoder(tmp).Encode(cacheFile{Version: cacheVersion, Entries: c.entries})
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}
	return os.Rename(tmp.Name(), c.path())
}

// Set stores the result for filename under the cache's fingerprint.
func (c *Cache) Set(filename string, result tt.Result) error {
	stamp, err := stampFile(filename)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[filename] = cacheEntry{
		Stamp:       stamp,
		Fingerprint: c.fingerprint,
		Result:      result,
		StoredAt:    time.Now(),
	}
	return c.save()
}

// Get returns the cached result for filename if it was produced under the
// same fingerprint, is younger than the max age and the file is unchanged.
func (c *Cache) Get(filename string) (tt.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[filename]
	if !ok {
		return tt.Result{}, false
	}
	if entry.Fingerprint != c.fingerprint {
		// belongs to another configuration; leave it on disk
		return tt.Result{}, false
	}
	if time.Since(entry.StoredAt) > c.maxAge {
		delete(c.entries, filename)
		return tt.Result{}, false
	}
	stamp, err := stampFile(filename)
	if err != nil || !stamp.equal(entry.Stamp) {
		delete(c.entries, filename)
		return tt.Result{}, false
	}
	return entry.Result, true
}

func (c *Cache) SetMaxAge(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxAge = d
}

// InvalidateAll drops every entry, including those of other fingerprints.
func (c *Cache) InvalidateAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
	return c.save()
}

func stampFile(filename string) (sourceStamp, error) {
	f, err := os.Open(filename)
	if err != nil {
		return sourceStamp{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return sourceStamp{}, fmt.Errorf("failed to get file info: %w", err)
	}

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return sourceStamp{}, fmt.Errorf("failed to calculate hash: %w", err)
	}
	return sourceStamp{
		Hash:    hex.EncodeToString(h.Sum(nil)),
		ModTime: info.ModTime(),
		Size:    info.Size(),
	}, nil
}
