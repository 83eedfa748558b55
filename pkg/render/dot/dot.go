package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/archviz/pkg/diagram"
	"github.com/matzehuels/archviz/pkg/render"
	"github.com/matzehuels/archviz/pkg/render/convert"
)

// Options configures DOT generation.
type Options struct {
	// Theme supplies node fills and edge colors. The zero value uses
	// [render.DefaultTheme].
	Theme render.Theme

	// Direction overrides the diagram's root direction when set.
	Direction diagram.Direction
}

// ToDOT converts a diagram to Graphviz DOT source.
func ToDOT(d *diagram.Diagram, opts Options) string {
	theme := opts.Theme
	if theme.Palette == nil {
		theme = render.DefaultTheme()
	}
	dir := opts.Direction
	if dir == diagram.DirectionDefault {
		dir = d.Direction()
	}
	rankdir := "TB"
	if dir == diagram.LeftToRight {
		rankdir = "LR"
	}

	w := &writer{d: d, theme: theme, anchors: make(map[string]string)}
	w.line(0, "digraph G {")
	w.line(1, "rankdir=%s;", rankdir)
	w.line(1, "compound=true;")
	w.line(1, "bgcolor=%q;", colorOr(theme.Background, "transparent"))
	w.line(1, "fontname=\"Helvetica\";")
	if label := titleLabel(d); label != "" {
		w.line(1, "labelloc=t;")
		w.line(1, "fontsize=20;")
		w.line(1, "label=%q;", label)
	}
	w.line(1, "node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\", fontsize=12, fontcolor=%q, color=%q, margin=\"0.2,0.1\"];",
		theme.NodeText, theme.NodeStroke)
	w.line(1, "edge [fontname=\"Helvetica\", fontsize=10, fontcolor=%q];", theme.EdgeText)
	w.line(1, "ranksep=0.6;")
	w.line(1, "nodesep=0.4;")
	w.buf.WriteString("\n")

	w.children(d.Root(), 1)

	w.buf.WriteString("\n")
	for _, e := range d.Edges() {
		w.edge(e)
	}
	w.line(0, "}")
	return w.buf.String()
}

type writer struct {
	d       *diagram.Diagram
	theme   render.Theme
	buf     bytes.Buffer
	anchors map[string]string // group ID -> node used as its edge endpoint
}

func (w *writer) line(depth int, format string, args ...any) {
	w.buf.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(&w.buf, format, args...)
	w.buf.WriteByte('\n')
}

func (w *writer) children(g *diagram.Group, depth int) {
	for _, c := range g.Children() {
		if c.Kind == diagram.KindNode {
			w.node(c.ID, depth)
			continue
		}
		w.cluster(c.ID, depth)
	}
}

func (w *writer) node(id string, depth int) {
	n, _ := w.d.Node(id)
	label := n.DisplayLabel()
	if n.Annotation != "" {
		label += "\n" + n.Annotation
	}
	w.line(depth, "%q [label=%q, fillcolor=%q];", id, label, w.theme.Fill(n.Style))
}

func (w *writer) cluster(id string, depth int) {
	g, _ := w.d.Group(id)
	label := g.Label
	if label == "" {
		label = g.ID
	}
	w.line(depth, "subgraph %q {", "cluster_"+id)
	w.line(depth+1, "label=%q;", label)
	w.line(depth+1, "labeljust=l;")
	w.line(depth+1, "style=\"rounded,filled\";")
	w.line(depth+1, "fillcolor=%q;", w.theme.GroupFill)
	w.line(depth+1, "color=%q;", w.theme.GroupStroke)
	w.line(depth+1, "fontcolor=%q;", w.theme.GroupText)
	w.children(g, depth+1)
	if w.anchor(id) == "" {
		placeholder := "__group_" + id
		w.line(depth+1, "%q [shape=point, style=invis, label=\"\"];", placeholder)
		w.anchors[id] = placeholder
	}
	w.line(depth, "}")
}

// anchor returns the first node inside group id, searching depth-first.
func (w *writer) anchor(id string) string {
	if a, ok := w.anchors[id]; ok {
		return a
	}
	g, _ := w.d.Group(id)
	var found string
	for _, c := range g.Children() {
		if c.Kind == diagram.KindNode {
			found = c.ID
		} else {
			found = w.anchor(c.ID)
		}
		if found != "" {
			break
		}
	}
	if found != "" {
		w.anchors[id] = found
	}
	return found
}

func (w *writer) edge(e diagram.Edge) {
	from, to := e.Source, e.Target
	var attrs []string
	if w.d.Kind(from) == diagram.KindGroup {
		attrs = append(attrs, fmt.Sprintf("ltail=%q", "cluster_"+from))
		from = w.anchor(from)
	}
	if w.d.Kind(to) == diagram.KindGroup {
		attrs = append(attrs, fmt.Sprintf("lhead=%q", "cluster_"+to))
		to = w.anchor(to)
	}
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	if e.Style.Line != diagram.Solid {
		attrs = append(attrs, "style="+e.Style.Line.String())
	}
	attrs = append(attrs, fmt.Sprintf("color=%q", w.theme.Stroke(e.Style.Color)))
	switch e.Style.Arrow {
	case diagram.ArrowNone:
		attrs = append(attrs, "dir=none")
	case diagram.ArrowBoth:
		attrs = append(attrs, "dir=both")
	}
	w.line(1, "%q -> %q [%s];", from, to, strings.Join(attrs, ", "))
}

func titleLabel(d *diagram.Diagram) string {
	switch {
	case d.Title() != "" && d.Subtitle() != "":
		return d.Title() + "\n" + d.Subtitle()
	case d.Title() != "":
		return d.Title()
	}
	return d.Subtitle()
}

func colorOr(c, fallback string) string {
	if c == "" {
		return fallback
	}
	return c
}

// RenderSVG renders DOT source to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

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

// normalizeViewBox rewrites the root element so width and height are pixels
// matching the viewBox, instead of Graphviz's points.
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

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders DOT source as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return convert.ToPDF(svg)
}

// RenderPNG renders DOT source as PNG via SVG conversion. A scale of 2.0
// produces a 2x resolution image.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return convert.ToPNG(svg, scale)
}
