// Package dot renders diagrams with the Graphviz engine.
//
// This is an alternative to the native layout and scene pipeline: [ToDOT]
// translates the diagram model directly into DOT, letting Graphviz place the
// nodes. Groups become clusters, edges keep their style, color and arrows.
//
//	src := dot.ToDOT(d, dot.Options{Theme: render.DefaultTheme()})
//	svg, err := dot.RenderSVG(ctx, src)
//
// Graphviz runs in-process through goccy/go-graphviz (WebAssembly), so no
// system installation is needed for SVG. PNG and PDF go through
// [convert.ToPNG] and [convert.ToPDF].
//
// Per-group directions are not expressible in DOT; only the root direction
// sets rankdir.
//
// [convert.ToPNG]: github.com/matzehuels/archviz/pkg/render/convert
// [convert.ToPDF]: github.com/matzehuels/archviz/pkg/render/convert
package dot
