// Package render draws positioned topologies.
//
// The [nodelink] subpackage turns a [graph.Layout] into Graphviz DOT with
// every node pinned at its computed position, and renders it to SVG in
// process. [ToPDF] and [ToPNG] convert any SVG further using the external
// rsvg-convert tool from librsvg.
//
//	dot := nodelink.ToDOT(l, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//
// [nodelink]: github.com/matzehuels/arnet/pkg/render/nodelink
// [graph.Layout]: github.com/matzehuels/arnet/pkg/graph.Layout
package render
