// Package soft implements the layer engines on the CPU.
//
// Engines rasterise into frames that implement render.PixelFrame: polygons
// and strokes through golang.org/x/image/vector, symbols and glyphs by
// blitting from the shared atlases. Point classes keep an R-tree so a draw
// only touches what the view can show.
package soft
