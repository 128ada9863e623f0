package cache

import (
	"context"
	"time"
)

// NullCache discards everything and always misses. The pipeline falls back
// to it when no cache is configured (or --no-cache is set), so every scene
// and artifact is recomputed from the trace on each run.
type NullCache struct{}

// NewNullCache returns the shared no-op cache.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get always misses.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the data.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete is a no-op.
func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close is a no-op.
func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)
