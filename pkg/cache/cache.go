// Package cache stores computed layouts between runs.
//
// A [Cache] is a plain byte store with TTLs. Backends:
//
//   - [NullCache]: never stores anything
//   - [FileCache]: one file per key under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for long-running servers
//
// [Compressed] wraps any backend and snappy-compresses values. Keys come from
// a [Keyer] so that deployments can scope them with [NewScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. Get reports a miss as
// (nil, false, nil); errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// TTLLayout is the default lifetime of a cached layout.
const TTLLayout = 24 * time.Hour

// LayoutKeyOpts are the layout parameters that take part in a cache key.
type LayoutKeyOpts struct {
	Strategy string `json:"strategy"`
	Seed     uint64 `json:"seed"`
}

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey returns the key for a layout of the graph with the given
	// content hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
}

// DefaultKeyer derives keys by hashing their components.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<strategy>:<seed>:<sha256 of graphHash>".
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return layoutKey(graphHash, opts)
}
