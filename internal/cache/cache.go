// Package cache keeps generated Go source on disk so unchanged mixin files
// are not recompiled.
package cache

import (
	"crypto/md5"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const cacheFileName = "mxml_cache.gob"

type Entry struct {
	Hash      string
	Output    []byte
	Mixins    int
	CreatedAt time.Time
}

type Cache struct {
	CacheDir string
	entries  map[string]Entry
	mutex    sync.Mutex
	maxAge   time.Duration
}

// New opens the cache stored in cacheDir, creating the directory if needed.
func New(cacheDir string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	c := &Cache{
		CacheDir: cacheDir,
		entries:  make(map[string]Entry),
	}
	if err := c.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}
	return c, nil
}

func (c *Cache) load() error {
	file, err := os.Open(filepath.Join(c.CacheDir, cacheFileName))
	if os.IsNotExist(err) {
		return nil // cache file doesn't exist yet. This is fine.
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
	file, err := os.Create(filepath.Join(c.CacheDir, cacheFileName))
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(c.entries); err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}
	return nil
}

// Hash returns the key material for src compiled under the given settings.
func Hash(src []byte, fingerprint string) string {
	h := md5.New()
	h.Write([]byte(fingerprint))
	h.Write([]byte{0})
	h.Write(src)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Set records the output generated for filename from a source with hash.
func (c *Cache) Set(filename, hash string, output []byte, mixins int) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[filename] = Entry{
		Hash:      hash,
		Output:    output,
		Mixins:    mixins,
		CreatedAt: time.Now(),
	}
	return c.save()
}

// Get returns the cached entry for filename if it was generated from a
// source with the same hash and has not expired.
func (c *Cache) Get(filename, hash string) (Entry, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[filename]
	if !exists {
		return Entry{}, false
	}
	if entry.Hash != hash || (c.maxAge > 0 && time.Since(entry.CreatedAt) > c.maxAge) {
		delete(c.entries, filename)
		return Entry{}, false
	}
	return entry, true
}

// SetMaxAge expires entries older than d. Zero disables expiry.
func (c *Cache) SetMaxAge(d time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.maxAge = d
}

// InvalidateAll drops every entry and persists the empty cache.
func (c *Cache) InvalidateAll() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]Entry)
	return c.save()
}
