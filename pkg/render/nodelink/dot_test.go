package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/arnet/pkg/graph"
)

func sampleLayout() graph.Layout {
	return graph.Layout{
		Strategy: "diagonal",
		Nodes: []graph.Node{
			{ID: "a", Label: "Router", Type: "Node", Location: "Lab", X: 0, Y: 0},
			{ID: "b", X: 1, Y: 1},
			{ID: "c", X: 2, Y: 2},
		},
		Edges: []graph.Edge{
			{ID: "ab", From: "a", To: "b", Protocol: "LLDP"},
			{ID: "bc", From: "b", To: "c"},
		},
		Alarms: []graph.Marker{
			{Key: "k1", VertexID: "b", Severity: "MINOR"},
			{Key: "k2", VertexID: "b", Severity: "CRITICAL"},
			{Key: "k3", Severity: "MAJOR"},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleLayout(), Options{Scale: 2})

	for _, want := range []string{
		"graph G {",
		`"a" [label="Router", pos="0.0000,0.0000!"]`,
		`"b" [label="b", pos="2.0000,-2.0000!", fillcolor=tomato]`,
		`"a" -- "b";`,
		`"b" -- "c";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q in:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "->") {
		t.Error("ToDOT() should produce an undirected graph")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(sampleLayout(), Options{Scale: 1, Detailed: true})

	if !strings.Contains(dot, `label="Router\ntype: Node\nlocation: Lab"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
	if !strings.Contains(dot, `label="b\nalarms: 2"`) {
		t.Errorf("alarm count missing:\n%s", dot)
	}
	if !strings.Contains(dot, `[label="LLDP", fontsize=9]`) {
		t.Errorf("protocol label missing:\n%s", dot)
	}
}

func TestToDOTAutoScale(t *testing.T) {
	dot := ToDOT(sampleLayout(), Options{})
	if !strings.Contains(dot, `pos="8.0000,-8.0000!"`) {
		t.Errorf("auto scale should fit the layout into %v inches:\n%s", DefaultExtent, dot)
	}

	single := graph.Layout{Nodes: []graph.Node{{ID: "only", X: 3, Y: 4}}}
	if !strings.Contains(ToDOT(single, Options{}), `pos="3.0000,-4.0000!"`) {
		t.Error("single node layout should keep unit scale")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	plain := []byte("<svg></svg>")
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("normalizeViewBox() should leave svg without viewBox untouched")
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	svg, err := RenderSVG(context.Background(), ToDOT(sampleLayout(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), `viewBox="0 0 `) {
		t.Errorf("RenderSVG() output not normalized: %.200s", svg)
	}
}
