// Package nodelink renders positioned topologies as node-link diagrams.
//
// # Usage
//
//	dot := nodelink.ToDOT(l, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [ToDOT] emits an undirected graph in which each node carries a pinned
// pos="x,y!" attribute, so the drawing reflects the layout strategy rather
// than a Graphviz layout. Y is flipped because Graphviz places the origin at
// the bottom left. Nodes referenced by alarms or situations are filled by
// the highest severity among them.
//
// [RenderSVG] runs the neato engine through [github.com/goccy/go-graphviz],
// which honors pinned positions. [RenderPDF] and [RenderPNG] additionally
// require librsvg.
package nodelink
