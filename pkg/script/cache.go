package script

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type cacheEntry struct {
	modTime time.Time
	size    int64
	content string
}

// FileCache holds plugin file text keyed by absolute path. An entry is
// reused only while the file's modification time is unchanged. It is safe
// for concurrent use and is typically shared by every Loader of a process.
type FileCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	reads   int
}

// NewFileCache creates an empty cache.
func NewFileCache() *FileCache {
	return &FileCache{
		entries: make(map[string]cacheEntry),
	}
}

// Load returns the content of path, reading the file only when it is not
// cached or its modification time differs from the cached one.
func (c *FileCache) Load(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%q is not a regular file", abs)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[abs]; ok && entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
		return entry.content, nil
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", err
	}
	c.reads++
	c.entries[abs] = cacheEntry{
		modTime: info.ModTime(),
		size:    info.Size(),
		content: string(data),
	}
	return string(data), nil
}

// Invalidate drops the entry for path.
func (c *FileCache) Invalidate(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	c.mu.Lock()
	delete(c.entries, abs)
	c.mu.Unlock()
}

// Len returns the number of cached files.
func (c *FileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Reads returns how many times a file was read from disk.
func (c *FileCache) Reads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}
