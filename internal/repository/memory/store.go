package memory

import (
	"context"
	"sync"

	"todo-list/internal/repository"
)

// Store is an in-process KeyValueStore. Contents are lost on Close.
type Store struct {
	mu sync.RWMutex
	m  map[string]string
}

var _ repository.KeyValueStore = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{m: make(map[string]string)}
}

// NewWithValues returns a store pre-populated with values.
func NewWithValues(values map[string]string) *Store {
	s := New()
	for k, v := range values {
		s.m[k] = v
	}
	return s
}

// Get returns the value stored under key and whether it was present.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok, nil
}

// Set replaces the value stored under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.m[key] = value
	s.mu.Unlock()
	return nil
}

// Close drops every stored value.
func (s *Store) Close() error {
	s.mu.Lock()
	s.m = make(map[string]string)
	s.mu.Unlock()
	return nil
}
