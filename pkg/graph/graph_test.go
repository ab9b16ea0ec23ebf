package graph

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/arnet/pkg/topology"
)

func buildTopology(t *testing.T) (*topology.Graph, *topology.Store) {
	t.Helper()
	g := topology.NewGraph()
	for _, id := range []string{"c", "a", "b"} {
		if err := g.AddVertex(topology.Vertex{ID: id, Label: strings.ToUpper(id), Type: topology.VertexNode}); err != nil {
			t.Fatal(err)
		}
	}
	_ = g.AddEdge(topology.Edge{ID: "e2", SourceID: "b", TargetID: "c"})
	_ = g.AddEdge(topology.Edge{ID: "e1", SourceID: "a", TargetID: "b"})
	g.SetPosition("a", topology.Point{X: 1, Y: 2})

	s := topology.NewStore()
	_ = s.UpsertAlarm(topology.Alarm{ReductionKey: "k", Severity: topology.SeverityMajor, VertexID: "a"})
	_ = s.UpsertSituation(topology.Situation{ReductionKey: "sit"})
	return g, s
}

func TestFromTopology(t *testing.T) {
	g, s := buildTopology(t)
	l := FromTopology(g, s, "force", 7)

	if l.Strategy != "force" || l.Seed != 7 {
		t.Errorf("Strategy, Seed = %q, %d", l.Strategy, l.Seed)
	}
	var ids []string
	for _, n := range l.Nodes {
		ids = append(ids, n.ID)
	}
	if got := strings.Join(ids, ","); got != "a,b,c" {
		t.Errorf("node order = %s, want a,b,c", got)
	}
	if n, ok := l.Node("a"); !ok || n.X != 1 || n.Y != 2 {
		t.Errorf("Node(a) = %+v, %v", n, ok)
	}
	if len(l.Edges) != 2 || l.Edges[0].ID != "e1" {
		t.Errorf("Edges = %+v, want sorted e1,e2", l.Edges)
	}
	if len(l.Alarms) != 1 || l.Alarms[0].Severity != "MAJOR" {
		t.Errorf("Alarms = %+v", l.Alarms)
	}
}

func TestFromTopologySkipsDanglingEdges(t *testing.T) {
	g, s := buildTopology(t)
	g.RemoveVertex("c")

	l := FromTopology(g, s, "force", 0)
	if len(l.Edges) != 1 {
		t.Fatalf("len(Edges) = %d, want 1", len(l.Edges))
	}
	if err := l.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestRestore(t *testing.T) {
	g, s := buildTopology(t)
	g.SetPosition("b", topology.Point{X: 5, Y: 5})
	s.SetAlarmPosition("k", topology.Point{X: 9, Y: 9})
	l := FromTopology(g, s, "force", 0)

	g2, s2 := buildTopology(t)
	if !l.Restore(g2, s2) {
		t.Fatal("Restore() = false")
	}
	if p, _ := g2.Position("b"); p != (topology.Point{X: 5, Y: 5}) {
		t.Errorf("Position(b) = %v", p)
	}
	if p, _ := s2.AlarmPosition("k"); p != (topology.Point{X: 9, Y: 9}) {
		t.Errorf("AlarmPosition(k) = %v", p)
	}

	_ = g2.AddVertex(topology.Vertex{ID: "new"})
	g2.SetPosition("b", topology.Point{})
	if l.Restore(g2, s2) {
		t.Error("Restore() = true for a model with an unknown vertex")
	}
	if p, _ := g2.Position("b"); p != (topology.Point{}) {
		t.Error("failed Restore() modified positions")
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	g, s := buildTopology(t)
	l := FromTopology(g, s, "spring", 3)

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile() error: %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile() error: %v", err)
	}
	if len(got.Nodes) != 3 || got.Strategy != "spring" || got.Seed != 3 {
		t.Errorf("ReadLayoutFile() = %+v", got)
	}
}

func TestUnmarshalLayoutValidation(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"invalid json", `{`, "unmarshal layout"},
		{"empty id", `{"nodes":[{"id":""}]}`, "empty id"},
		{"duplicate", `{"nodes":[{"id":"a"},{"id":"a"}]}`, "duplicate"},
		{"unknown endpoint", `{"nodes":[{"id":"a"}],"edges":[{"id":"e","from":"a","to":"b"}]}`, "unknown node"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalLayout([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("UnmarshalLayout() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	l := Layout{Nodes: []Node{{ID: "a", X: -1, Y: 2}, {ID: "b", X: 3, Y: -4}}}
	minX, minY, maxX, maxY := l.Bounds()
	if minX != -1 || minY != -4 || maxX != 3 || maxY != 2 {
		t.Errorf("Bounds() = %v %v %v %v", minX, minY, maxX, maxY)
	}
	if a, b, c, d := (Layout{}).Bounds(); a != 0 || b != 0 || c != 0 || d != 0 {
		t.Error("Bounds() of empty layout should be zero")
	}
}
