package layout

import (
	"slices"

	"github.com/matzehuels/arnet/pkg/topology"
)

// Diagonal places every element on the line y = x at successive integer
// coordinates: vertices sorted by id first, then alarms and situations sorted
// by reduction key.
type Diagonal struct{}

// Name returns "diagonal".
func (Diagonal) Name() string { return NameDiagonal }

// Apply implements [Strategy].
func (Diagonal) Apply(g *topology.Graph, s *topology.Store) {
	n := 0.0
	next := func() topology.Point {
		p := topology.Point{X: n, Y: n}
		n++
		return p
	}

	ids := g.VertexIDs()
	slices.Sort(ids)
	for _, id := range ids {
		g.SetPosition(id, next())
	}
	if s == nil {
		return
	}

	var keys []string
	for _, a := range s.Alarms() {
		keys = append(keys, a.ReductionKey)
	}
	slices.Sort(keys)
	for _, k := range keys {
		s.SetAlarmPosition(k, next())
	}

	keys = keys[:0]
	for _, sit := range s.Situations() {
		keys = append(keys, sit.ReductionKey)
	}
	slices.Sort(keys)
	for _, k := range keys {
		s.SetSituationPosition(k, next())
	}
}
