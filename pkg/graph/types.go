package graph

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/arnet/pkg/topology"
)

// Layout is the serialized form of a positioned topology.
type Layout struct {
	Strategy   string   `json:"strategy"`
	Seed       uint64   `json:"seed,omitempty"`
	Nodes      []Node   `json:"nodes"`
	Edges      []Edge   `json:"edges"`
	Alarms     []Marker `json:"alarms,omitempty"`
	Situations []Marker `json:"situations,omitempty"`
}

// Node is a positioned vertex.
type Node struct {
	ID       string  `json:"id"`
	Label    string  `json:"label,omitempty"`
	Type     string  `json:"type,omitempty"`
	Location string  `json:"location,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is an undirected link between two nodes.
type Edge struct {
	ID       string `json:"id"`
	From     string `json:"from"`
	To       string `json:"to"`
	Protocol string `json:"protocol,omitempty"`
}

// Marker is a positioned alarm or situation.
type Marker struct {
	Key      string  `json:"key"`
	VertexID string  `json:"vertex_id,omitempty"`
	Severity string  `json:"severity"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// Bounds returns the bounding box of all node positions. An empty layout
// has a zero box.
func (l Layout) Bounds() (minX, minY, maxX, maxY float64) {
	if len(l.Nodes) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range l.Nodes {
		minX, maxX = min(minX, n.X), max(maxX, n.X)
		minY, maxY = min(minY, n.Y), max(maxY, n.Y)
	}
	return minX, minY, maxX, maxY
}

// Node returns the node with the given id.
func (l Layout) Node(id string) (Node, bool) {
	i, ok := slices.BinarySearchFunc(l.Nodes, id, func(n Node, id string) int { return cmp.Compare(n.ID, id) })
	if !ok {
		return Node{}, false
	}
	return l.Nodes[i], true
}

// =============================================================================
// Topology <-> Layout Conversion
// =============================================================================

// FromTopology captures the vertices, live edges, alarms and situations of a
// topology with their current positions. Every list is sorted by id.
func FromTopology(g *topology.Graph, s *topology.Store, strategy string, seed uint64) Layout {
	out := Layout{Strategy: strategy, Seed: seed, Nodes: []Node{}, Edges: []Edge{}}

	for _, v := range g.Vertices() {
		p, _ := g.Position(v.ID)
		out.Nodes = append(out.Nodes, Node{
			ID:       v.ID,
			Label:    v.Label,
			Type:     string(v.Type),
			Location: v.Location,
			X:        p.X,
			Y:        p.Y,
		})
	}
	slices.SortFunc(out.Nodes, func(a, b Node) int { return cmp.Compare(a.ID, b.ID) })

	for _, e := range g.LiveEdges() {
		out.Edges = append(out.Edges, Edge{ID: e.ID, From: e.SourceID, To: e.TargetID, Protocol: e.Protocol})
	}
	slices.SortFunc(out.Edges, func(a, b Edge) int { return cmp.Compare(a.ID, b.ID) })

	if s == nil {
		return out
	}
	for _, a := range s.Alarms() {
		p, _ := s.AlarmPosition(a.ReductionKey)
		out.Alarms = append(out.Alarms, Marker{
			Key: a.ReductionKey, VertexID: a.VertexID, Severity: a.Severity.String(), X: p.X, Y: p.Y,
		})
	}
	slices.SortFunc(out.Alarms, byKey)

	for _, sit := range s.Situations() {
		p, _ := s.SituationPosition(sit.ReductionKey)
		out.Situations = append(out.Situations, Marker{
			Key: sit.ReductionKey, VertexID: sit.VertexID, Severity: sit.Severity.String(), X: p.X, Y: p.Y,
		})
	}
	slices.SortFunc(out.Situations, byKey)
	return out
}

func byKey(a, b Marker) int { return cmp.Compare(a.Key, b.Key) }

// Restore writes the positions in l back into g and s. It reports false and
// leaves g and s untouched when l lacks a position for any vertex, alarm or
// situation currently in the model.
func (l Layout) Restore(g *topology.Graph, s *topology.Store) bool {
	nodes := make(map[string]topology.Point, len(l.Nodes))
	for _, n := range l.Nodes {
		nodes[n.ID] = topology.Point{X: n.X, Y: n.Y}
	}
	alarms := markerPoints(l.Alarms)
	situations := markerPoints(l.Situations)

	for _, id := range g.VertexIDs() {
		if _, ok := nodes[id]; !ok {
			return false
		}
	}
	if s != nil {
		for _, a := range s.Alarms() {
			if _, ok := alarms[a.ReductionKey]; !ok {
				return false
			}
		}
		for _, sit := range s.Situations() {
			if _, ok := situations[sit.ReductionKey]; !ok {
				return false
			}
		}
	}

	for id, p := range nodes {
		g.SetPosition(id, p)
	}
	if s != nil {
		for k, p := range alarms {
			s.SetAlarmPosition(k, p)
		}
		for k, p := range situations {
			s.SetSituationPosition(k, p)
		}
	}
	return true
}

func markerPoints(ms []Marker) map[string]topology.Point {
	out := make(map[string]topology.Point, len(ms))
	for _, m := range ms {
		out[m.Key] = topology.Point{X: m.X, Y: m.Y}
	}
	return out
}
