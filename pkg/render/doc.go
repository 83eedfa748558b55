// Package render turns a laid-out diagram into a backend-neutral scene.
//
// # Overview
//
// [Render] is a pure function of the diagram, its [layout.Layout] and a
// [Theme]. It emits an ordered list of drawing operations ([Op]) wrapped in a
// [Scene]. Backends replay the scene through the three-call [Canvas]
// abstraction:
//
//	scene := render.Render(d, l, render.DefaultTheme())
//	scene.Draw(canvas)
//
// Drawing order is fixed: background, title, groups and nodes in pre-order
// (containers before their contents), edges, then the legend. Rendering the
// same inputs twice yields identical scenes.
//
// # Edges
//
// An edge runs between the border anchors of its endpoint rectangles: the
// points where the center-to-center segment leaves each box. When one box
// contains the other, the container anchors on its side nearest the
// contained box. Line styles map to dash patterns ([DashPattern]) and arrows
// are two short strokes at the arrow tip.
//
// # Backends
//
//   - [svg]: vector output
//   - [raster]: PNG through fogleman/gg
//   - [dot]: Graphviz engine, independent of this scene
//   - [convert]: SVG to PNG and PDF conversion
//
// [Recorder] is a headless [Canvas] for tests.
//
// [svg]: github.com/matzehuels/archviz/pkg/render/svg
// [raster]: github.com/matzehuels/archviz/pkg/render/raster
// [dot]: github.com/matzehuels/archviz/pkg/render/dot
// [convert]: github.com/matzehuels/archviz/pkg/render/convert
package render
