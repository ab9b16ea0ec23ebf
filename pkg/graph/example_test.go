package graph_test

import (
	"fmt"

	"github.com/matzehuels/arnet/pkg/graph"
	"github.com/matzehuels/arnet/pkg/topology"
)

func ExampleFromTopology() {
	g := topology.NewGraph()
	_ = g.AddVertex(topology.Vertex{ID: "router", Type: topology.VertexNode})
	_ = g.AddVertex(topology.Vertex{ID: "switch", Type: topology.VertexNode})
	_ = g.AddEdge(topology.Edge{ID: "uplink", SourceID: "router", TargetID: "switch"})
	g.SetPosition("switch", topology.Point{X: 0.03, Y: 0})

	l := graph.FromTopology(g, nil, "force", 0)
	for _, n := range l.Nodes {
		fmt.Printf("%s (%.2f, %.2f)\n", n.ID, n.X, n.Y)
	}
	// Output:
	// router (0.00, 0.00)
	// switch (0.03, 0.00)
}
