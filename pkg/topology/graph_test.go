package topology

import (
	"errors"
	"slices"
	"testing"
)

func newTestGraph(t *testing.T, ids ...string) *Graph {
	t.Helper()
	g := NewGraph()
	for _, id := range ids {
		if err := g.AddVertex(Vertex{ID: id, Type: VertexNode}); err != nil {
			t.Fatalf("AddVertex(%q) error: %v", id, err)
		}
	}
	return g
}

func TestAddVertex(t *testing.T) {
	g := NewGraph()
	if err := g.AddVertex(Vertex{}); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("AddVertex(empty) = %v, want ErrInvalidID", err)
	}

	g = newTestGraph(t, "b", "a", "c")
	if got, want := g.VertexIDs(), []string{"b", "a", "c"}; !slices.Equal(got, want) {
		t.Errorf("VertexIDs() = %v, want %v", got, want)
	}
	if p, ok := g.Position("a"); !ok || p != Origin {
		t.Errorf("Position(a) = %v, %v, want origin", p, ok)
	}
}

func TestAddVertexReplaceKeepsSlotAndPosition(t *testing.T) {
	g := newTestGraph(t, "a", "b")
	g.SetPosition("a", Point{X: 3, Y: 4})

	if err := g.AddVertex(Vertex{ID: "a", Label: "router"}); err != nil {
		t.Fatal(err)
	}
	if got := g.VertexIDs(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("VertexIDs() = %v, want [a b]", got)
	}
	if v, _ := g.Vertex("a"); v.Label != "router" {
		t.Errorf("Label = %q, want router", v.Label)
	}
	if p, _ := g.Position("a"); p != (Point{X: 3, Y: 4}) {
		t.Errorf("Position(a) = %v, want {3 4}", p)
	}
}

func TestAddEdge(t *testing.T) {
	tests := []struct {
		name    string
		edge    Edge
		wantErr error
	}{
		{"valid", Edge{ID: "e1", SourceID: "a", TargetID: "b"}, nil},
		{"empty id", Edge{SourceID: "a", TargetID: "b"}, ErrInvalidID},
		{"missing source", Edge{ID: "e1", SourceID: "x", TargetID: "b"}, ErrMissingEndpoint},
		{"missing target", Edge{ID: "e1", SourceID: "a", TargetID: "x"}, ErrMissingEndpoint},
		{"self loop", Edge{ID: "e1", SourceID: "a", TargetID: "a"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGraph(t, "a", "b")
			err := g.AddEdge(tt.edge)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddEdge() error = %v, want %v", err, tt.wantErr)
			}
			wantCount := 0
			if tt.wantErr == nil {
				wantCount = 1
			}
			if g.EdgeCount() != wantCount {
				t.Errorf("EdgeCount() = %d, want %d", g.EdgeCount(), wantCount)
			}
		})
	}
}

func TestAddEdgeReplaceRewiresIncidence(t *testing.T) {
	g := newTestGraph(t, "a", "b", "c")
	_ = g.AddEdge(Edge{ID: "e1", SourceID: "a", TargetID: "b"})
	_ = g.AddEdge(Edge{ID: "e1", SourceID: "a", TargetID: "c"})

	if g.EdgeCount() != 1 {
		t.Fatalf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if g.Degree("b") != 0 {
		t.Errorf("Degree(b) = %d, want 0", g.Degree("b"))
	}
	if g.Degree("c") != 1 {
		t.Errorf("Degree(c) = %d, want 1", g.Degree("c"))
	}
}

func TestRemoveVertexLeavesDanglingEdges(t *testing.T) {
	g := newTestGraph(t, "a", "b", "c")
	_ = g.AddEdge(Edge{ID: "ab", SourceID: "a", TargetID: "b"})
	_ = g.AddEdge(Edge{ID: "bc", SourceID: "b", TargetID: "c"})

	if _, ok := g.RemoveVertex("b"); !ok {
		t.Fatal("RemoveVertex(b) = false, want true")
	}
	if _, ok := g.RemoveVertex("b"); ok {
		t.Error("second RemoveVertex(b) = true, want false")
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
	if n := len(g.LiveEdges()); n != 0 {
		t.Errorf("len(LiveEdges()) = %d, want 0", n)
	}
	if n := g.NeighborCount("a"); n != 0 {
		t.Errorf("NeighborCount(a) = %d, want 0", n)
	}
	if _, ok := g.Position("b"); ok {
		t.Error("Position(b) still present after removal")
	}

	// The vertex comes back and its edges reattach.
	_ = g.AddVertex(Vertex{ID: "b"})
	if n := len(g.LiveEdges()); n != 2 {
		t.Errorf("len(LiveEdges()) after re-add = %d, want 2", n)
	}
}

func TestNeighborCount(t *testing.T) {
	g := newTestGraph(t, "hub", "a", "b", "c")
	for _, e := range []Edge{
		{ID: "1", SourceID: "hub", TargetID: "a"},
		{ID: "2", SourceID: "b", TargetID: "hub"},
		{ID: "3", SourceID: "hub", TargetID: "a"}, // parallel
		{ID: "4", SourceID: "hub", TargetID: "hub"},
		{ID: "5", SourceID: "hub", TargetID: "c"},
	} {
		if err := g.AddEdge(e); err != nil {
			t.Fatal(err)
		}
	}

	tests := map[string]int{"hub": 3, "a": 1, "b": 1, "c": 1, "missing": 0}
	for id, want := range tests {
		if got := g.NeighborCount(id); got != want {
			t.Errorf("NeighborCount(%q) = %d, want %d", id, got, want)
		}
	}
	if got := g.Degree("hub"); got != 5 {
		t.Errorf("Degree(hub) = %d, want 5", got)
	}
}

func TestRemoveEdge(t *testing.T) {
	g := newTestGraph(t, "a", "b")
	_ = g.AddEdge(Edge{ID: "e", SourceID: "a", TargetID: "b"})

	if _, ok := g.RemoveEdge("e"); !ok {
		t.Fatal("RemoveEdge(e) = false")
	}
	if _, ok := g.RemoveEdge("e"); ok {
		t.Error("second RemoveEdge(e) = true")
	}
	if g.Degree("a") != 0 || g.Degree("b") != 0 {
		t.Errorf("degrees = %d, %d, want 0, 0", g.Degree("a"), g.Degree("b"))
	}
}

func TestSetPositionIgnoresUnknown(t *testing.T) {
	g := newTestGraph(t, "a")
	g.SetPosition("ghost", Point{X: 1})
	if _, ok := g.Position("ghost"); ok {
		t.Error("SetPosition stored a position for an unknown vertex")
	}
	pos := g.Positions()
	pos["a"] = Point{X: 9}
	if p, _ := g.Position("a"); p != Origin {
		t.Error("Positions() did not return a copy")
	}
}
