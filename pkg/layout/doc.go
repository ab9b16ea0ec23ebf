// Package layout computes 2-D positions for a topology.
//
// Every algorithm implements [Strategy]: Apply rewrites the position arenas of
// a [topology.Graph] and [topology.Store] in place and never touches identity
// data. Strategies are stateless between calls apart from their immutable
// configuration, so one value may be reused across recalculations.
//
// # Strategies
//
//   - [Diagonal]: vertices, then alarms, then situations, each sorted by key,
//     at successive integer diagonal coordinates (n, n)
//   - [Spring]: a Fruchterman-Reingold spring embedder started from a seeded
//     random placement in the unit square
//   - [Force]: a D3-style simulation with link relaxation, gravity, pairwise
//     charge and position-Verlet integration, started from the current
//     positions so that repeated layouts stay stable
//
// Use [New] to build a strategy by name:
//
//	s, err := layout.New("force", 0)
//	s.Apply(g, store)
//
// [Cached] wraps a strategy with a [cache.Cache] so that an unchanged
// topology is not laid out twice.
//
// # Determinism
//
// Given identical inputs (same ids inserted in the same order, same edges,
// same prior positions, same seed) every strategy produces bit-identical
// output. Randomness comes only from a math/rand/v2 PCG source seeded from
// the strategy seed.
package layout
