package memory

import (
	"context"
	"sync"

	"github.com/aretw0/ordinal/pkg/domain"
)

// Store implements ports.DefaultsStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.Defaults
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.Defaults),
	}
}

// Save stores a copy of the defaults.
func (s *Store) Save(ctx context.Context, key string, defaults *domain.Defaults) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = *defaults
	return nil
}

// Load returns a copy so callers can't mutate the stored value by pointer.
func (s *Store) Load(ctx context.Context, key string) (*domain.Defaults, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.data[key]
	if !ok {
		return nil, domain.ErrDefaultsNotFound
	}
	return &d, nil
}

// Delete removes the defaults.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
