package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/arnet/pkg/graph"
	"github.com/matzehuels/arnet/pkg/render"
	"github.com/matzehuels/arnet/pkg/topology"
)

// DefaultExtent is the size in inches of the longer side of an auto-scaled
// drawing.
const DefaultExtent = 8.0

// Options configures node-link diagram rendering.
type Options struct {
	// Scale is the number of inches per layout unit. Zero fits the layout
	// into DefaultExtent.
	Scale float64

	// Detailed adds type, location and alarm counts to node labels.
	Detailed bool
}

// severityColors maps severities to node fill colors.
var severityColors = map[topology.Severity]string{
	topology.SeverityIndeterminate: "white",
	topology.SeverityCleared:       "white",
	topology.SeverityNormal:        "palegreen",
	topology.SeverityWarning:       "lightblue",
	topology.SeverityMinor:         "khaki",
	topology.SeverityMajor:         "orange",
	topology.SeverityCritical:      "tomato",
}

// ToDOT converts a layout to Graphviz DOT with every node pinned at its
// computed position. Nodes are filled by the highest severity among the
// alarms and situations that reference them.
func ToDOT(l graph.Layout, opts Options) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = fitScale(l)
	}
	worst, counts := markerSummary(l)

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.1,0.05\"];\n")
	buf.WriteString("  edge [color=gray40];\n")
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(n, counts[n.ID], opts.Detailed)),
			fmt.Sprintf("pos=\"%s,%s!\"", fmtCoord(n.X*scale), fmtCoord(0 - n.Y*scale)),
		}
		if sev, ok := worst[n.ID]; ok {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%s", severityColors[sev]))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		if e.Protocol != "" && opts.Detailed {
			fmt.Fprintf(&buf, "  %q -- %q [label=%q, fontsize=9];\n", e.From, e.To, e.Protocol)
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fitScale(l graph.Layout) float64 {
	minX, minY, maxX, maxY := l.Bounds()
	extent := max(maxX-minX, maxY-minY)
	if extent == 0 {
		return 1
	}
	return DefaultExtent / extent
}

func fmtCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func markerSummary(l graph.Layout) (map[string]topology.Severity, map[string]int) {
	worst := make(map[string]topology.Severity)
	counts := make(map[string]int)
	for _, markers := range [][]graph.Marker{l.Alarms, l.Situations} {
		for _, m := range markers {
			if m.VertexID == "" {
				continue
			}
			counts[m.VertexID]++
			sev, err := topology.ParseSeverity(m.Severity)
			if err != nil {
				continue
			}
			if cur, ok := worst[m.VertexID]; !ok || sev > cur {
				worst[m.VertexID] = sev
			}
		}
	}
	return worst, counts
}

func fmtLabel(n graph.Node, alarms int, detailed bool) string {
	if !detailed {
		return n.DisplayLabel()
	}
	parts := []string{n.DisplayLabel()}
	if n.Type != "" {
		parts = append(parts, "type: "+n.Type)
	}
	if n.Location != "" {
		parts = append(parts, "location: "+n.Location)
	}
	if alarms > 0 {
		parts = append(parts, fmt.Sprintf("alarms: %d", alarms))
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders DOT produced by [ToDOT] to SVG. It uses the neato engine
// so that pinned positions are respected.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized svg header with one whose
// viewBox starts at the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPDF renders DOT to PDF by way of SVG.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders DOT to PNG by way of SVG at the given scale factor.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
