package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aretw0/senglish/pkg/domain"
)

// Bag implements ports.StateBag in memory.
// Safe for concurrent use.
type Bag struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewBag creates a new in-memory state bag.
func NewBag() *Bag {
	return &Bag{
		data: make(map[string][]byte),
	}
}

// Set stores the value. Values are kept encoded so callers never share
// mutable state with the bag, matching the persistent backends.
func (b *Bag) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %q: %w", key, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = data
	return nil
}

// Get retrieves the value from memory.
func (b *Bag) Get(ctx context.Context, key string) (any, error) {
	b.mu.RLock()
	data, ok := b.data[key]
	b.mu.RUnlock()

	if !ok {
		return nil, domain.ErrKeyNotFound
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal value for %q: %w", key, err)
	}
	return v, nil
}

// Delete removes the key.
func (b *Bag) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
	return nil
}

// Keys returns the stored keys.
func (b *Bag) Keys(ctx context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.data))
	for k := range b.data {
		keys = append(keys, k)
	}
	return keys, nil
}
