// Package layout assigns rectangles to every node and group of a diagram.
//
// # Overview
//
// [Compute] walks the group tree of a [diagram.Diagram] and produces a
// [Layout]: one [Rect] per node and group, plus the canvas, the title band
// and the legend band. Coordinates use a top-left origin with Y increasing
// downward, in user units (pixels at scale 1).
//
// # Policy
//
// Each group arranges its children either as a vertical stack (top to bottom,
// the default) or as a horizontal row (left to right). Children keep their
// insertion order and are start-aligned on the cross axis, so the nodes of a
// row share the same top edge.
//
// A group's box is the union of its children, grown by [Options.Padding] on
// every side, plus a label band of [Options.LabelHeight] above the content.
// Node sizes come from their text: the label and annotation lines are
// measured with a fixed per-character width, then clamped to
// [Options.NodeMinWidth] and [Options.NodeMinHeight].
//
// Direction resolution:
//
//   - a group's own direction wins
//   - otherwise it inherits from the enclosing group
//   - the root uses [Options.Direction] when set, then the diagram's direction
//
// # Canvas
//
// The canvas holds a margin of [Options.Padding] around everything. When the
// diagram has a title or subtitle, a title band is reserved at the top. When
// [Options.Legend] is set and at least one style tag is used, a legend band
// is reserved at the bottom. Canvas dimensions are rounded up to whole units
// so raster exports match them exactly.
//
// # Limits
//
// Compute fails with LAYOUT_OVERFLOW when the canvas exceeds
// [Options.MaxWidth] or [Options.MaxHeight]. A zero limit means unlimited.
//
// The result depends only on the diagram and the options: computing twice
// yields identical coordinates.
package layout
