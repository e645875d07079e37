package index

import (
	"encoding/gob"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// artifactVersion is bumped whenever the on-disk layout changes; older
// artifacts are treated as cache misses.
const artifactVersion = 1

// artifact bundles the fitted vocabulary, weights and corpus into one
// unit so a load can never mix a vectorizer from one build with a matrix
// from another.
type artifact struct {
	Version int
	Index   Index
}

// Cache persists the index as a single versioned artifact, written
// atomically. Invalidation is explicit: removing the artifact forces the
// next build.
type Cache struct {
	path string
}

// NewCache creates a cache at the given artifact path.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Save writes the index artifact via a temp file and rename so readers
// never observe a partial write.
func (c *Cache) Save(ix *Index) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".index-*")
	if err != nil {
		return fmt.Errorf("creating temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(artifact{Version: artifactVersion, Index: *ix}); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), c.path)
}

// Load returns the cached index, or nil when the artifact is missing,
// unreadable, from another version, or internally inconsistent. Corruption
// is a cache miss, never a wrong-scores index.
func (c *Cache) Load() *Index {
	f, err := os.Open(c.path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var a artifact
	if err := gob.NewDecoder(f).Decode(&a); err != nil {
		log.Printf("Index artifact %s unreadable, rebuilding: %v", c.path, err)
		return nil
	}
	if a.Version != artifactVersion {
		log.Printf("Index artifact %s has version %d, want %d; rebuilding", c.path, a.Version, artifactVersion)
		return nil
	}
	ix := a.Index
	if len(ix.Rows) != len(ix.Entries) || len(ix.IDF) != len(ix.Vocab) {
		log.Printf("Index artifact %s shape mismatch (%d rows, %d entries); rebuilding",
			c.path, len(ix.Rows), len(ix.Entries))
		return nil
	}
	return &ix
}

// Invalidate removes the artifact. A missing artifact is not an error.
func (c *Cache) Invalidate() error {
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Exists reports whether an artifact is present on disk.
func (c *Cache) Exists() bool {
	_, err := os.Stat(c.path)
	return err == nil
}
