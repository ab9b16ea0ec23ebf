// Package pkg holds the arnet libraries.
//
// # Overview
//
// arnet keeps an in-memory network topology (vertices, edges, alarms and
// situations) consistent with a stream of feed messages, positions it with a
// pluggable layout strategy and publishes every accepted change to
// observers. The libraries are organized as:
//
//  1. [topology] - the graph model and the alarm/situation store
//  2. [synchronizer] - the single authority that applies feed operations
//  3. [layout] - diagonal, spring and force strategies, plus a cached wrapper
//  4. [dispatch] - the buffered, priority-ordered change stream
//  5. [feed] - message envelopes, replay, location filtering and fixtures
//  6. [graph] - the serialized, positioned layout document
//  7. [cache], [render/nodelink], [metrics], [observability] - supporting
//     infrastructure
//
// # Data Flow
//
//	feed message / snapshot
//	         ↓
//	    feed.Filter
//	         ↓
//	synchronizer.Synchronizer ──→ layout.Strategy
//	         ↓
//	dispatch.Dispatcher ──→ dispatch.Observer (CLI, TUI, HTTP)
//
// [topology]: github.com/matzehuels/arnet/pkg/topology
// [synchronizer]: github.com/matzehuels/arnet/pkg/synchronizer
// [layout]: github.com/matzehuels/arnet/pkg/layout
// [dispatch]: github.com/matzehuels/arnet/pkg/dispatch
// [feed]: github.com/matzehuels/arnet/pkg/feed
// [graph]: github.com/matzehuels/arnet/pkg/graph
// [cache]: github.com/matzehuels/arnet/pkg/cache
// [render/nodelink]: github.com/matzehuels/arnet/pkg/render/nodelink
// [metrics]: github.com/matzehuels/arnet/pkg/metrics
// [observability]: github.com/matzehuels/arnet/pkg/observability
package pkg
