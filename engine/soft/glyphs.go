package soft

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/zappa672/RLIDisplay/assets"
)

// placedGlyph is an atlas cell at a horizontal pen offset.
type placedGlyph struct {
	cell image.Rectangle
	x    float64
}

// run is laid-out text: glyph cells plus the total advance.
type run struct {
	glyphs []placedGlyph
	width  float64
}

// atlasRun lays out s using the atlas cell widths as advances. Runes
// missing from the atlas are skipped.
func atlasRun(atlas *assets.Atlas, s string) run {
	var r run
	for _, c := range s {
		cell, ok := atlas.Lookup(string(c))
		if !ok {
			continue
		}
		r.glyphs = append(r.glyphs, placedGlyph{cell: cell, x: r.width})
		r.width += float64(cell.Dx())
	}
	return r
}

// drawRun tints the glyph coverage of r with col, centred on (x, y).
func drawRun(dst *image.RGBA, atlas *assets.Atlas, r run, x, y float64, col image.Image) {
	left := x - r.width/2
	for _, g := range r.glyphs {
		top := y - float64(g.cell.Dy())/2
		at := image.Pt(int(math.Round(left+g.x)), int(math.Round(top)))
		dr := image.Rectangle{Min: at, Max: at.Add(g.cell.Size())}
		draw.DrawMask(dst, dr, col, image.Point{}, atlas.Image, g.cell.Min, draw.Over)
	}
}
