// Package topology holds the canonical in-memory model of a network topology.
//
// The package has two stores:
//
//   - [Graph]: vertices and edges keyed by id, with insertion-ordered
//     iteration and a position arena indexed by vertex id
//   - [Store]: alarms and situations keyed by reduction key, each with its
//     own position arena
//
// Identity data ([Vertex], [Edge], [Alarm], [Situation]) is immutable value
// data. Positions live beside it in plain [Point] records so that layout
// strategies can rewrite coordinates without touching identity.
//
// # Invariants
//
//   - Vertex ids, edge ids and reduction keys are unique and non-empty.
//   - [Graph.AddEdge] admits an edge only when both endpoints are present and
//     returns [ErrMissingEndpoint] otherwise.
//   - [Graph.RemoveVertex] does not cascade: incident edges stay in the graph
//     as dangling edges until the caller removes them. Dangling edges are
//     ignored by [Graph.NeighborCount] and by [Graph.LiveEdges].
//
// # Concurrency
//
// Neither Graph nor Store is safe for concurrent use. The synchronizer owns
// both and guards each with its own mutex.
package topology
