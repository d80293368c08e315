// Package memory implements core.Store in process memory.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/notekeep/pkg/core"
)

// Store is a map-backed core.Store. The zero value is not usable; use New.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New creates an empty store, optionally seeded with initial values.
func New(seed map[string][]byte) *Store {
	s := &Store{data: make(map[string][]byte, len(seed))}
	for k, v := range seed {
		s.data[k] = slices.Clone(v)
	}
	return s
}

// Get implements core.Store. The returned slice is a copy.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, core.ErrNotFound
	}
	return slices.Clone(v), nil
}

// Put implements core.Store.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = slices.Clone(value)
	return nil
}

// Delete implements core.Store. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.data))
}

var _ core.Store = (*Store)(nil)

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "memory"
}
