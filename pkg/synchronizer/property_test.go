package synchronizer

import (
	"fmt"
	"maps"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/arnet/pkg/dispatch"
	"github.com/matzehuels/arnet/pkg/layout"
	"github.com/matzehuels/arnet/pkg/topology"
)

const universe = 8

// pairs enumerates the undirected vertex pairs of the universe.
var pairs = func() [][2]int {
	var out [][2]int
	for i := range universe {
		for j := i + 1; j < universe; j++ {
			out = append(out, [2]int{i, j})
		}
	}
	return out
}()

// maskSnapshot builds a snapshot from bitmasks over the universe. Edges are
// included even when an endpoint is absent.
func maskSnapshot(vmask uint8, emask uint32) topology.Snapshot {
	var snap topology.Snapshot
	for i := range universe {
		if vmask&(1<<i) != 0 {
			snap.Vertices = append(snap.Vertices, vertex(fmt.Sprintf("v%d", i)))
		}
	}
	for k, p := range pairs {
		if emask&(1<<k) != 0 {
			snap.Edges = append(snap.Edges, topology.Edge{
				ID:       fmt.Sprintf("e%d-%d", p[0], p[1]),
				SourceID: fmt.Sprintf("v%d", p[0]),
				TargetID: fmt.Sprintf("v%d", p[1]),
			})
		}
	}
	return snap
}

// admitted returns the vertex and edge ids a merge of snap must leave.
func admitted(snap topology.Snapshot) (vertices, edges map[string]bool) {
	vertices = make(map[string]bool)
	edges = make(map[string]bool)
	for _, v := range snap.Vertices {
		vertices[v.ID] = true
	}
	for _, e := range snap.Edges {
		if vertices[e.SourceID] && vertices[e.TargetID] {
			edges[e.ID] = true
		}
	}
	return vertices, edges
}

func minus(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool)
	for k := range a {
		if !b[k] {
			out[k] = true
		}
	}
	return out
}

func TestMergeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	newSync := func() (*Synchronizer, *capture) {
		pub := &capture{}
		return New(pub, Options{Strategy: layout.Diagonal{}}), pub
	}

	properties.Property("merge is idempotent", prop.ForAll(
		func(vmask uint8, emask uint32) bool {
			s, pub := newSync()
			snap := maskSnapshot(vmask, emask)
			s.Merge(snap)
			pub.take()
			r := s.Merge(snap)
			return r == (MergeResult{}) && len(pub.take()) == 0
		},
		gen.UInt8(), gen.UInt32(),
	))

	properties.Property("edges are admitted only between known vertices", prop.ForAll(
		func(vmask uint8, emask uint32) bool {
			s, _ := newSync()
			s.Merge(maskSnapshot(vmask, emask))
			known := make(map[string]bool)
			for _, v := range s.Vertices() {
				known[v.ID] = true
			}
			for _, e := range s.Edges() {
				if !known[e.SourceID] || !known[e.TargetID] {
					return false
				}
			}
			return true
		},
		gen.UInt8(), gen.UInt32(),
	))

	properties.Property("second merge converges to the new snapshot", prop.ForAll(
		func(v1 uint8, e1 uint32, v2 uint8, e2 uint32) bool {
			s, pub := newSync()
			s1, s2 := maskSnapshot(v1, e1), maskSnapshot(v2, e2)
			s.Merge(s1)
			pub.take()
			r := s.Merge(s2)
			changes := pub.take()

			wantV, wantE := admitted(s2)
			gotV, gotE := make(map[string]bool), make(map[string]bool)
			for _, v := range s.Vertices() {
				gotV[v.ID] = true
			}
			for _, e := range s.Edges() {
				gotE[e.ID] = true
			}
			if !maps.Equal(gotV, wantV) || !maps.Equal(gotE, wantE) {
				return false
			}

			oldV, oldE := admitted(s1)
			return maps.Equal(idsOf(changes, dispatch.KindVertexUpserted), minus(wantV, oldV)) &&
				maps.Equal(idsOf(changes, dispatch.KindVertexRemoved), minus(oldV, wantV)) &&
				maps.Equal(idsOf(changes, dispatch.KindEdgeUpserted), minus(wantE, oldE)) &&
				maps.Equal(idsOf(changes, dispatch.KindEdgeRemoved), minus(oldE, wantE)) &&
				r.VerticesAdded == len(minus(wantV, oldV)) &&
				r.VerticesRemoved == len(minus(oldV, wantV))
		},
		gen.UInt8(), gen.UInt32(), gen.UInt8(), gen.UInt32(),
	))

	properties.Property("relayout follows structural change", prop.ForAll(
		func(v1 uint8, v2 uint8) bool {
			s, _ := newSync()
			s.Merge(maskSnapshot(v1, 0))
			r := s.Merge(maskSnapshot(v2, 0))
			return r.Relayout == (v1 != v2)
		},
		gen.UInt8(), gen.UInt8(),
	))

	properties.TestingRun(t)
}
