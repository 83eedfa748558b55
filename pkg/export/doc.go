// Package export encodes scenes and writes them to disk.
//
// # Formats
//
//   - [Raster]: PNG through the gg backend
//   - [Vector]: SVG
//   - [Document]: PDF, converted from SVG with rsvg-convert
//
// [FormatFromPath] picks the format from the extension (.png, .svg, .pdf).
//
// # Atomic writes
//
// [Export] and [WriteFile] write into a temporary file in the destination
// directory, sync it, close it and rename it over the target. On every error
// path the handle is closed and the temporary file removed, so a failed
// export never leaves a partial file behind. All failures carry the
// EXPORT_IO code and wrap the underlying cause.
//
// Concurrent exports to distinct paths are independent. Concurrent exports
// to the same path are not coordinated: the last rename wins.
//
// # Round trips
//
// [ReadDimensions] re-reads the pixel size of an exported PNG or the viewBox
// size of an exported SVG. At scale 1 both equal the layout canvas.
package export
