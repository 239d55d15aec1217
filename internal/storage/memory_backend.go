package storage

import (
	"context"
	"sync"
)

// MemoryBackend implements KVStore in process memory.
//
// Used by tests and by callers that want a throwaway store. Values are copied
// on the way in and out so callers cannot mutate stored bytes.
type MemoryBackend struct {
	mu    sync.RWMutex
	items map[string][]byte

	// GetErr and SetErr, when non-nil, are returned by Get and Set instead of
	// touching the map.
	GetErr error
	SetErr error
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		items: make(map[string][]byte),
	}
}

// Get returns a copy of the value stored under key.
func (b *MemoryBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.GetErr != nil {
		return nil, false, b.GetErr
	}
	value, ok := b.items[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

// Set stores a copy of value under key.
func (b *MemoryBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.SetErr != nil {
		return b.SetErr
	}
	b.items[key] = append([]byte(nil), value...)
	return nil
}
