package assets

import (
	"fmt"
	"image"

	"github.com/zappa672/RLIDisplay/render"
	"github.com/zappa672/RLIDisplay/s52"
)

// Kind identifies one of the shared atlases.
type Kind int

const (
	KindPattern Kind = iota
	KindLine
	KindSymbol
	KindGlyph
)

// String returns the atlas kind name.
func (k Kind) String() string {
	switch k {
	case KindPattern:
		return "pattern"
	case KindLine:
		return "line"
	case KindSymbol:
		return "symbol"
	case KindGlyph:
		return "glyph"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ForClass returns the atlas kind a geometry class draws with.
func ForClass(c s52.Class) Kind {
	switch c {
	case s52.ClassArea:
		return KindPattern
	case s52.ClassLine:
		return KindLine
	case s52.ClassMark:
		return KindSymbol
	default:
		return KindGlyph
	}
}

func (k Kind) referenceKind() (s52.AtlasKind, bool) {
	switch k {
	case KindPattern:
		return s52.AtlasPattern, true
	case KindLine:
		return s52.AtlasLine, true
	case KindSymbol:
		return s52.AtlasSymbol, true
	}
	return 0, false
}

// Atlas is an uploaded texture atlas.
type Atlas struct {
	Kind    Kind
	Scheme  string
	Image   *image.RGBA
	Entries map[string]image.Rectangle
	Texture render.TextureID
}

// Lookup returns the rectangle of the named entry. It is safe on a nil
// atlas.
func (a *Atlas) Lookup(name string) (image.Rectangle, bool) {
	if a == nil {
		return image.Rectangle{}, false
	}
	r, ok := a.Entries[name]
	return r, ok
}

// Size returns the atlas dimensions in pixels.
func (a *Atlas) Size() image.Point {
	if a == nil || a.Image == nil {
		return image.Point{}
	}
	return a.Image.Bounds().Size()
}
