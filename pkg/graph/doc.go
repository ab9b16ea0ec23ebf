// Package graph provides the serialization format for computed layouts.
//
// A [Layout] is a flat, id-sorted record of every vertex, live edge, alarm
// and situation in a topology together with its position. It is the payload
// of the layout cache, the body of the HTTP topology endpoint and the output
// of `arnet layout`.
//
// # Converting
//
//	l := graph.FromTopology(g, store, "force", 0)   // model -> Layout
//	ok := l.Restore(g, store)                       // Layout -> positions
//
// # Serialization
//
//	data, _ := graph.MarshalLayout(l)         // Layout -> []byte
//	l, _ = graph.UnmarshalLayout(data)        // []byte -> Layout
//	graph.WriteLayoutFile(l, "layout.json")   // Layout -> file
//	l, _ = graph.ReadLayoutFile("layout.json")
//
// Layouts are validated on decode: node ids must be unique and non-empty, and
// edges must reference known nodes.
package graph
