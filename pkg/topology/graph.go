package topology

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	// ErrInvalidID is returned when a vertex id, edge id or reduction key is
	// empty.
	ErrInvalidID = errors.New("id must not be empty")

	// ErrMissingEndpoint is returned by [Graph.AddEdge] when the source or
	// target vertex is not in the graph.
	ErrMissingEndpoint = errors.New("edge endpoint not in graph")
)

// Graph stores vertices and edges keyed by id. Iteration order is insertion
// order; replacing an existing vertex or edge keeps its original slot.
//
// The zero value is not usable - use NewGraph.
type Graph struct {
	vertices    map[string]Vertex
	vertexOrder []string
	edges       map[string]Edge
	edgeOrder   []string
	incident    map[string][]string // vertex id -> incident edge ids
	positions   map[string]Point
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		vertices:  make(map[string]Vertex),
		edges:     make(map[string]Edge),
		incident:  make(map[string][]string),
		positions: make(map[string]Point),
	}
}

// AddVertex inserts v, or replaces the vertex with the same id in place. A
// replaced vertex keeps its position; a new vertex starts at the origin.
func (g *Graph) AddVertex(v Vertex) error {
	if v.ID == "" {
		return ErrInvalidID
	}
	if _, ok := g.vertices[v.ID]; !ok {
		g.vertexOrder = append(g.vertexOrder, v.ID)
		g.positions[v.ID] = Origin
	}
	g.vertices[v.ID] = v
	return nil
}

// RemoveVertex removes the vertex with the given id and its position.
// Incident edges are left in place.
func (g *Graph) RemoveVertex(id string) (Vertex, bool) {
	v, ok := g.vertices[id]
	if !ok {
		return Vertex{}, false
	}
	delete(g.vertices, id)
	delete(g.positions, id)
	g.vertexOrder = slices.DeleteFunc(g.vertexOrder, func(s string) bool { return s == id })
	return v, true
}

// Vertex returns the vertex with the given id.
func (g *Graph) Vertex(id string) (Vertex, bool) {
	v, ok := g.vertices[id]
	return v, ok
}

// HasVertex reports whether a vertex with the given id exists.
func (g *Graph) HasVertex(id string) bool {
	_, ok := g.vertices[id]
	return ok
}

// Vertices returns all vertices in insertion order.
func (g *Graph) Vertices() []Vertex {
	out := make([]Vertex, len(g.vertexOrder))
	for i, id := range g.vertexOrder {
		out[i] = g.vertices[id]
	}
	return out
}

// VertexIDs returns all vertex ids in insertion order.
func (g *Graph) VertexIDs() []string { return slices.Clone(g.vertexOrder) }

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int { return len(g.vertices) }

// AddEdge inserts e, or replaces the edge with the same id in place. Both
// endpoints must already be in the graph.
func (g *Graph) AddEdge(e Edge) error {
	if e.ID == "" {
		return ErrInvalidID
	}
	if !g.HasVertex(e.SourceID) {
		return fmt.Errorf("%w: source %q of edge %q", ErrMissingEndpoint, e.SourceID, e.ID)
	}
	if !g.HasVertex(e.TargetID) {
		return fmt.Errorf("%w: target %q of edge %q", ErrMissingEndpoint, e.TargetID, e.ID)
	}
	if old, ok := g.edges[e.ID]; ok {
		g.unlink(old)
	} else {
		g.edgeOrder = append(g.edgeOrder, e.ID)
	}
	g.edges[e.ID] = e
	g.incident[e.SourceID] = append(g.incident[e.SourceID], e.ID)
	if e.TargetID != e.SourceID {
		g.incident[e.TargetID] = append(g.incident[e.TargetID], e.ID)
	}
	return nil
}

// RemoveEdge removes the edge with the given id.
func (g *Graph) RemoveEdge(id string) (Edge, bool) {
	e, ok := g.edges[id]
	if !ok {
		return Edge{}, false
	}
	g.unlink(e)
	delete(g.edges, id)
	g.edgeOrder = slices.DeleteFunc(g.edgeOrder, func(s string) bool { return s == id })
	return e, true
}

func (g *Graph) unlink(e Edge) {
	for _, end := range []string{e.SourceID, e.TargetID} {
		ids := slices.DeleteFunc(g.incident[end], func(s string) bool { return s == e.ID })
		if len(ids) == 0 {
			delete(g.incident, end)
		} else {
			g.incident[end] = ids
		}
	}
}

// Edge returns the edge with the given id.
func (g *Graph) Edge(id string) (Edge, bool) {
	e, ok := g.edges[id]
	return e, ok
}

// Edges returns all edges in insertion order, including dangling ones.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edgeOrder))
	for i, id := range g.edgeOrder {
		out[i] = g.edges[id]
	}
	return out
}

// LiveEdges returns the edges whose endpoints are both present, in insertion
// order.
func (g *Graph) LiveEdges() []Edge {
	out := make([]Edge, 0, len(g.edgeOrder))
	for _, id := range g.edgeOrder {
		if e := g.edges[id]; g.live(e) {
			out = append(out, e)
		}
	}
	return out
}

// EdgeCount returns the number of edges, including dangling ones.
func (g *Graph) EdgeCount() int { return len(g.edges) }

func (g *Graph) live(e Edge) bool {
	return g.HasVertex(e.SourceID) && g.HasVertex(e.TargetID)
}

// IncidentEdges returns the ids of live edges touching the vertex.
func (g *Graph) IncidentEdges(id string) []string {
	var out []string
	for _, eid := range g.incident[id] {
		if g.live(g.edges[eid]) {
			out = append(out, eid)
		}
	}
	return out
}

// Degree returns the number of live edges touching the vertex.
func (g *Graph) Degree(id string) int { return len(g.IncidentEdges(id)) }

// NeighborCount returns the number of distinct vertices adjacent to id over
// live edges, excluding id itself.
func (g *Graph) NeighborCount(id string) int {
	seen := make(map[string]struct{})
	for _, eid := range g.IncidentEdges(id) {
		e := g.edges[eid]
		other := e.TargetID
		if other == id {
			other = e.SourceID
		}
		if other != id {
			seen[other] = struct{}{}
		}
	}
	return len(seen)
}

// Position returns the stored position of a vertex.
func (g *Graph) Position(id string) (Point, bool) {
	p, ok := g.positions[id]
	return p, ok
}

// SetPosition stores the position of a vertex. Unknown ids are ignored.
func (g *Graph) SetPosition(id string, p Point) {
	if g.HasVertex(id) {
		g.positions[id] = p
	}
}

// Positions returns a copy of all vertex positions.
func (g *Graph) Positions() map[string]Point {
	return maps.Clone(g.positions)
}
