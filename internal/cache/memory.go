package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// MemoryCache is an in-process Cache backed by ristretto. It is the default
// backend when no Redis address is configured.
type MemoryCache struct {
	store      *ristretto.Cache[string, []byte]
	defaultTTL time.Duration
}

// NewMemoryCache creates an in-process cache bounded to roughly maxBytes of
// cached payloads.
func NewMemoryCache(maxBytes int64, defaultTTL time.Duration) (*MemoryCache, error) {
	store, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: 1e5,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ristretto cache: %w", err)
	}
	return &MemoryCache{store: store, defaultTTL: defaultTTL}, nil
}

func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, ok := m.store.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	return value, nil
}

func (m *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	m.store.SetWithTTL(key, value, int64(len(value)), ttl)
	// Waiting makes the write visible to an immediate follow-up Get, which
	// keeps read-through semantics deterministic within one request.
	m.store.Wait()
	return nil
}

func (m *MemoryCache) GetJSON(ctx context.Context, key string, dest any) error {
	return getJSON(ctx, m, key, dest)
}

func (m *MemoryCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	return setJSON(ctx, m, key, value, ttl)
}

func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	m.store.Del(key)
	return nil
}

// Close releases the underlying ristretto resources.
func (m *MemoryCache) Close() {
	m.store.Close()
}
