package session

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/StyNW7/Zenium/pkg/models"
)

const shardCount = 16

type shard struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

// MemoryRepository is the default in-process store: a sharded map with
// per-shard locking. It has no persistence guarantee across restarts.
type MemoryRepository struct {
	shards [shardCount]*shard
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	r := &MemoryRepository{}
	for i := range r.shards {
		r.shards[i] = &shard{sessions: make(map[string]models.Session)}
	}
	return r
}

func (r *MemoryRepository) shardFor(id string) *shard {
	h := fnv.New32a()
	h.Write([]byte(id))
	return r.shards[h.Sum32()%shardCount]
}

// Get returns a copy of the session so callers never share mutable state
// with the store.
func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	sh := r.shardFor(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	s, ok := sh.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copySession(s), nil
}

func (r *MemoryRepository) Put(ctx context.Context, s *models.Session) error {
	sh := r.shardFor(s.ID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.sessions[s.ID] = *copySession(*s)
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	sh := r.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(sh.sessions, id)
	return nil
}

func (r *MemoryRepository) List(ctx context.Context, userID string) ([]*models.Session, error) {
	var out []*models.Session
	for _, sh := range r.shards {
		sh.mu.RLock()
		for _, s := range sh.sessions {
			if userID == "" || s.UserID == userID {
				out = append(out, copySession(s))
			}
		}
		sh.mu.RUnlock()
	}
	return out, nil
}

func copySession(s models.Session) *models.Session {
	history := make([]models.Turn, len(s.History))
	copy(history, s.History)
	s.History = history
	return &s
}
