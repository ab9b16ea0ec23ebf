// Package feed decodes topology stream messages and delivers them to a
// [Consumer].
//
// A stream is a sequence of JSON envelopes {"type": ..., "payload": ...},
// one per line when recorded to a file. [Decode] parses an envelope,
// [Dispatch] routes it to the matching Consumer method and [Replay] drives a
// whole recording.
//
// # Message Types
//
//   - Topology: a full snapshot (vertices, edges, alarms, situations)
//   - Vertex, Node, VertexDelete: vertex upsert and delete
//   - Edge, EdgeDelete: edge upsert (endpoints included) and delete
//   - Alarm, AlarmDelete: alarm upsert and delete; isSituation routes to the
//     situation methods
//   - Situation, SituationDelete: situation upsert and delete
//   - Event: a fire-and-forget notification
//
// [Filter] restricts a consumer to vertices at given locations. [LoadSnapshot]
// reads a snapshot fixture from JSON, YAML or TOML, and [MockSnapshot]
// returns a small built-in topology for demos.
package feed
