// Package synchronizer reconciles an external topology feed with the
// in-memory model and decides when layout must be recomputed.
//
// A [Synchronizer] owns a [topology.Graph] guarded by the graph mutex and a
// [topology.Store] guarded by the alarm mutex, so vertex/edge updates and
// alarm/situation updates can proceed concurrently. Every accepted change is
// published to a [Publisher], normally a [dispatch.Dispatcher].
//
// # Operations
//
//   - [Synchronizer.Merge]: full reconciliation against a snapshot
//   - ApplyVertexUpsert, ApplyVertexDelete, ApplyEdgeUpsert, ApplyEdgeDelete,
//     ApplyAlarmUpsert, ApplyAlarmDelete, ApplySituationUpsert,
//     ApplySituationDelete: single-item deltas
//   - [Synchronizer.ApplyEvent]: fire-and-forget notifications
//
// All operations are total: unknown ids on delete are no-ops, duplicate ids on
// upsert are updates, and edges whose endpoints are unknown are dropped with a
// warning.
//
// # Relayout Policy
//
// Adding or removing a vertex always recomputes the layout. Edge changes do
// so only when [Options.RelayoutOnEdgeChange] is set. A merge recomputes at
// most once, after all four collections have been reconciled, when any vertex
// add/remove, any alarm or situation add/remove, or (under the edge policy)
// any edge add/remove occurred.
//
// Layout runs synchronously while both locks are held; the lock order is
// always graph, then alarms.
package synchronizer
