package note

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Store persists saved notes.
type Store interface {
	Save(ctx context.Context, n Note) error
	List(ctx context.Context) ([]Note, error)
}

// MemoryStore keeps notes in insertion order, suitable for tests and local runs.
type MemoryStore struct {
	mu    sync.RWMutex
	items []Note
	keys  map[Key]struct{}
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{keys: make(map[Key]struct{})}
}

// Save appends a note unless its name and date are already taken.
func (s *MemoryStore) Save(_ context.Context, n Note) error {
	key := n.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keys[key]; ok {
		return ErrDuplicate
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	s.keys[key] = struct{}{}
	s.items = append(s.items, n)
	return nil
}

// List returns a copy of all stored notes.
func (s *MemoryStore) List(_ context.Context) ([]Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Note{}, s.items...), nil
}
