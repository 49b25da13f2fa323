package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a key has no value.
var ErrNotFound = errors.New("cache: key not found")

// Cache is a simple key-value interface used to memoize analytics provider
// responses. Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value by key, ErrNotFound if absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with a TTL. Zero TTL means the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// GetJSON retrieves and unmarshals JSON data.
	GetJSON(ctx context.Context, key string, dest any) error

	// SetJSON marshals and stores JSON data.
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error
}

// Standard TTLs for different response families.
var (
	// Market insight and analytics responses go stale quickly.
	InsightTTL = 5 * time.Minute

	// Collection and marketplace metadata barely changes.
	MetadataTTL = 24 * time.Hour
)

func getJSON(ctx context.Context, c Cache, key string, dest any) error {
	data, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal cached value: %w", err)
	}
	return nil
}

func setJSON(ctx context.Context, c Cache, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return c.Set(ctx, key, data, ttl)
}
