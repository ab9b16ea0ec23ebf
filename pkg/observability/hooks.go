// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Components accept a [Hooks] value through
// their options and call into it as they work; the zero value of every field is
// replaced by a no-op implementation.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Inject implementations explicitly, never through package state
//
// # Usage
//
// Wire hooks at application startup:
//
//	reg := metrics.NewRegistry()
//	sync := synchronizer.New(dispatcher, synchronizer.Options{Hooks: reg.Hooks()})
//
// Components call hooks to emit events:
//
//	hooks.Layout.OnLayoutStart(strategy, vertexCount)
//	// ... run layout ...
//	hooks.Layout.OnLayoutComplete(strategy, duration)
package observability

import "time"

// =============================================================================
// Sync Hooks
// =============================================================================

// SyncHooks receives events from the topology synchronizer.
type SyncHooks interface {
	// OnApply records an incremental feed operation and whether it changed state.
	OnApply(op string, changed bool)

	// OnMerge records a snapshot merge.
	OnMerge(added, removed int, duration time.Duration)

	// OnEdgeDropped records an edge rejected for a missing endpoint.
	OnEdgeDropped(edgeID string)

	// OnSize records the current model size after a change.
	OnSize(vertices, edges, alarms, situations int)
}

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from layout recalculation.
type LayoutHooks interface {
	OnLayoutStart(strategy string, vertexCount int)
	OnLayoutComplete(strategy string, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(keyType string, size int)
}

// =============================================================================
// Dispatch Hooks
// =============================================================================

// DispatchHooks receives events from the change dispatcher.
type DispatchHooks interface {
	// OnPublish records a buffered change of the given kind.
	OnPublish(kind string)

	// OnDrain records a drained batch and how long delivery took.
	OnDrain(count int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSyncHooks is a no-op implementation of SyncHooks.
type NoopSyncHooks struct{}

func (NoopSyncHooks) OnApply(string, bool)            {}
func (NoopSyncHooks) OnMerge(int, int, time.Duration) {}
func (NoopSyncHooks) OnEdgeDropped(string)            {}
func (NoopSyncHooks) OnSize(int, int, int, int)       {}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(string, int)              {}
func (NoopLayoutHooks) OnLayoutComplete(string, time.Duration) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(string)      {}
func (NoopCacheHooks) OnCacheMiss(string)     {}
func (NoopCacheHooks) OnCacheSet(string, int) {}

// NoopDispatchHooks is a no-op implementation of DispatchHooks.
type NoopDispatchHooks struct{}

func (NoopDispatchHooks) OnPublish(string)           {}
func (NoopDispatchHooks) OnDrain(int, time.Duration) {}

// =============================================================================
// Hook Set
// =============================================================================

// Hooks bundles one implementation per event category. Nil fields are filled
// with no-ops by [Hooks.WithDefaults].
type Hooks struct {
	Sync     SyncHooks
	Layout   LayoutHooks
	Cache    CacheHooks
	Dispatch DispatchHooks
}

// Noop returns a hook set where every category is a no-op.
func Noop() Hooks {
	return Hooks{
		Sync:     NoopSyncHooks{},
		Layout:   NoopLayoutHooks{},
		Cache:    NoopCacheHooks{},
		Dispatch: NoopDispatchHooks{},
	}
}

// WithDefaults returns h with every nil category replaced by its no-op.
func (h Hooks) WithDefaults() Hooks {
	if h.Sync == nil {
		h.Sync = NoopSyncHooks{}
	}
	if h.Layout == nil {
		h.Layout = NoopLayoutHooks{}
	}
	if h.Cache == nil {
		h.Cache = NoopCacheHooks{}
	}
	if h.Dispatch == nil {
		h.Dispatch = NoopDispatchHooks{}
	}
	return h
}
