package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/snappy"
)

// Compressed wraps a Cache and snappy-compresses stored values.
type Compressed struct {
	inner Cache
}

// NewCompressed wraps inner with snappy compression.
func NewCompressed(inner Cache) Cache {
	return &Compressed{inner: inner}
}

// Get retrieves and decompresses a value.
func (c *Compressed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.inner.Get(ctx, key)
	if err != nil || !ok {
		return nil, ok, err
	}
	out, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return out, true, nil
}

// Set compresses and stores a value.
func (c *Compressed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, key, snappy.Encode(nil, data), ttl)
}

// Delete removes a value.
func (c *Compressed) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

// Close closes the wrapped cache.
func (c *Compressed) Close() error {
	return c.inner.Close()
}

var _ Cache = (*Compressed)(nil)
