package assets

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// GlyphSize is the pixel size glyphs are rasterised at.
const GlyphSize = 14

// glyphRunes is the character set of the glyph atlas: printable ASCII plus
// the degree sign used in bearings.
var glyphRunes = func() []rune {
	rs := make([]rune, 0, 96)
	for r := rune(0x20); r < 0x7f; r++ {
		rs = append(rs, r)
	}
	return append(rs, '°')
}()

// GlyphMetrics describes the line geometry of the glyph atlas.
type GlyphMetrics struct {
	Size    float64
	Ascent  int
	Descent int
}

// FontData returns the font the glyph atlas is rasterised from. Shapers use
// it so their advances match the atlas cells.
func FontData() []byte {
	return goregular.TTF
}

// buildGlyphAtlas rasterises glyphRunes into one row of cells. Each cell is
// the glyph's advance wide and a full line high, with the baseline at
// Ascent. Coverage is stored in alpha over white.
func buildGlyphAtlas() (*image.RGBA, map[string]image.Rectangle, GlyphMetrics, error) {
	f, err := opentype.Parse(FontData())
	if err != nil {
		return nil, nil, GlyphMetrics{}, fmt.Errorf("assets: parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    GlyphSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, nil, GlyphMetrics{}, fmt.Errorf("assets: create face: %w", err)
	}
	defer func() {
		_ = face.Close()
	}()

	m := face.Metrics()
	metrics := GlyphMetrics{Size: GlyphSize, Ascent: m.Ascent.Ceil(), Descent: m.Descent.Ceil()}
	height := metrics.Ascent + metrics.Descent

	widths := make([]int, len(glyphRunes))
	total := 0
	for i, r := range glyphRunes {
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			continue
		}
		widths[i] = adv.Ceil()
		total += widths[i]
	}

	img := image.NewRGBA(image.Rect(0, 0, max(total, 1), height))
	entries := make(map[string]image.Rectangle, len(glyphRunes))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
	}
	x := 0
	for i, r := range glyphRunes {
		if widths[i] == 0 {
			continue
		}
		d.Dot = fixed.P(x, metrics.Ascent)
		d.DrawString(string(r))
		entries[string(r)] = image.Rect(x, 0, x+widths[i], height)
		x += widths[i]
	}
	return img, entries, metrics, nil
}
