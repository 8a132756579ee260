package internal

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	tt "github.com/gnolang/parseit/internal/types"
)

const (
	cacheFileName = "parseit_cache.gob"

	// DefaultCacheMaxAge is the age after which entries are discarded.
	DefaultCacheMaxAge = 24 * time.Hour
)

type CacheEntry struct {
	Hash         uint64
	Fingerprint  uint64
	Matches      []tt.Match
	CreatedAt    time.Time
	LastAccessed time.Time
}

// Cache stores match results per file on disk. An entry is valid while the
// file content, the rule fingerprint and every dependency file are
// unchanged and the entry is younger than the max age.
type Cache struct {
	CacheDir         string
	entries          map[string]CacheEntry
	mutex            sync.RWMutex
	maxAge           time.Duration
	dependencyFiles  []string
	dependencyHashes map[string]uint64
}

func NewCache(cacheDir string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	cache := &Cache{
		CacheDir:         cacheDir,
		entries:          make(map[string]CacheEntry),
		maxAge:           DefaultCacheMaxAge,
		dependencyHashes: make(map[string]uint64),
	}

	if err := cache.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}

	return cache, nil
}

func (c *Cache) path() string {
	return filepath.Join(c.CacheDir, cacheFileName)
}

func (c *Cache) load() error {
	file, err := os.Open(c.path())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	if err := gob.NewDecoder(file).Decode(&c.entries); err != nil {
		return fmt.Errorf("failed to decode cache file: %w", err)
	}
	return nil
}

func (c *Cache) save() error {
	file, err := os.Create(c.path())
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(c.entries); err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}
	return nil
}

// Set records the matches found in content under the rule fingerprint.
func (c *Cache) Set(filename string, content []byte, fingerprint uint64, matches []tt.Match) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	c.entries[filename] = CacheEntry{
		Hash:         xxhash.Sum64(content),
		Fingerprint:  fingerprint,
		Matches:      matches,
		CreatedAt:    now,
		LastAccessed: now,
	}
	return c.save()
}

// Get returns the cached matches for filename if they are still valid for
// content and fingerprint. Invalid entries are dropped.
func (c *Cache) Get(filename string, content []byte, fingerprint uint64) ([]tt.Match, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[filename]
	if !exists {
		return nil, false
	}

	if c.isEntryInvalid(entry, content, fingerprint) {
		delete(c.entries, filename)
		return nil, false
	}

	entry.LastAccessed = time.Now()
	c.entries[filename] = entry
	return entry.Matches, true
}

func (c *Cache) isEntryInvalid(entry CacheEntry, content []byte, fingerprint uint64) bool {
	if c.maxAge > 0 && time.Since(entry.CreatedAt) > c.maxAge {
		return true
	}
	if entry.Hash != xxhash.Sum64(content) || entry.Fingerprint != fingerprint {
		return true
	}
	return c.haveDependenciesChanged()
}

// SetDependencies records files whose change invalidates every entry, such
// as the configuration file.
func (c *Cache) SetDependencies(files ...string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.dependencyFiles = files
	c.dependencyHashes = make(map[string]uint64, len(files))
	for _, file := range files {
		hash, err := getFileHash(file)
		if err != nil {
			return fmt.Errorf("failed to get hash for %s: %w", file, err)
		}
		c.dependencyHashes[file] = hash
	}
	return nil
}

func (c *Cache) haveDependenciesChanged() bool {
	for _, file := range c.dependencyFiles {
		hash, err := getFileHash(file)
		if err != nil || hash != c.dependencyHashes[file] {
			return true
		}
	}
	return false
}

// SetMaxAge sets the entry lifetime. Zero disables expiry.
func (c *Cache) SetMaxAge(duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.maxAge = duration
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}

func (c *Cache) InvalidateAll() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]CacheEntry)
	_ = c.save() // ignore error as this is a manual operation
}

func getFileHash(filename string) (uint64, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(content), nil
}
