// Package feedback persists accepted (query, response) examples and
// invalidates the cached index so the next build includes them. This is
// the only runtime mutation path into the corpus.
package feedback

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Invalidator removes cached index artifacts. Satisfied by index.Cache.
type Invalidator interface {
	Invalidate() error
}

// Store appends accepted examples to the feedback log.
type Store struct {
	path  string
	cache Invalidator
	mu    sync.Mutex
}

// NewStore creates a store writing to path, invalidating cache on each
// accepted example.
func NewStore(path string, cache Invalidator) *Store {
	return &Store{path: path, cache: cache}
}

type record struct {
	Input    string  `json:"input"`
	Response string  `json:"response"`
	T        float64 `json:"t"`
}

// Accept appends exactly one record and deletes the cached index
// artifact, forcing the next retrieval-path access to rebuild over the
// now-larger corpus.
func (s *Store) Accept(input, response string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating feedback dir: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening feedback log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(record{
		Input:    input,
		Response: response,
		T:        float64(time.Now().UnixNano()) / float64(time.Second),
	})
	if err != nil {
		return fmt.Errorf("marshaling feedback: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing feedback: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(); err != nil {
			return fmt.Errorf("invalidating index cache: %w", err)
		}
	}
	return nil
}
