package kvstore

import (
	"context"
	"sync"

	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/organizer"
)

// MemoryStore is an in-memory implementation of the KeyValue interface.
// Values are copied on the way in and out, so callers can't alias the stored
// bytes. Safe for concurrent use. Useful for testing.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStore creates a new empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

// Get returns the value stored under key, or organizer.ErrKeyNotFound.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return nil, organizer.ErrKeyNotFound
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set stores value under key, replacing any prior value.
func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = stored
	return nil
}

// Compile-time check that MemoryStore implements the KeyValue interface
var _ organizer.KeyValue = (*MemoryStore)(nil)
