package soft

import (
	"image"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/zappa672/RLIDisplay/assets"
	"github.com/zappa672/RLIDisplay/engine"
	"github.com/zappa672/RLIDisplay/render"
	"github.com/zappa672/RLIDisplay/s52"
	"github.com/zappa672/RLIDisplay/shader"
)

type preparedArea struct {
	rings   []orb.Ring
	color   string
	pattern string
	bound   orb.Bound
}

// AreaEngine fills polygons with their colour and, when the pattern atlas
// has the area's pattern, tiles the pattern over the fill.
type AreaEngine struct {
	refs      Colors
	areas     []preparedArea
	atlas     *assets.Atlas
	ras       *vector.Rasterizer
	destroyed bool
}

// NewAreaEngine creates an area engine resolving colours through refs.
func NewAreaEngine(refs Colors) *AreaEngine {
	return &AreaEngine{refs: refs}
}

// Init prepares the rasteriser.
func (e *AreaEngine) Init(render.DeviceHandle) error {
	e.ras = &vector.Rasterizer{}
	return nil
}

// SetData replaces the areas. Polygons without area are dropped.
func (e *AreaEngine) SetData(l *s52.AreaLayer, atlas *assets.Atlas) error {
	e.areas = e.areas[:0]
	e.atlas = atlas
	if l == nil {
		return nil
	}
	for _, a := range l.Areas {
		if len(a.Polygon) == 0 || planar.Area(a.Polygon) == 0 {
			continue
		}
		e.areas = append(e.areas, preparedArea{
			rings:   orientRings(a.Polygon),
			color:   a.Color,
			pattern: a.Pattern,
			bound:   a.Polygon.Bound(),
		})
	}
	return nil
}

// ClearData drops the areas.
func (e *AreaEngine) ClearData() {
	e.areas = nil
	e.atlas = nil
}

// Len returns the number of prepared areas.
func (e *AreaEngine) Len() int { return len(e.areas) }

// Draw fills every area that intersects the view.
func (e *AreaEngine) Draw(frame render.Frame, program shader.Program, view engine.View) error {
	if e.destroyed {
		return ErrDestroyed
	}
	if err := checkProgram(program, s52.ClassArea); err != nil {
		return err
	}
	dst, err := pixels(frame)
	if err != nil {
		return err
	}
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	vb := view.Bound(w, h)

	for _, a := range e.areas {
		if !a.bound.Intersects(vb) {
			continue
		}
		e.trace(a.rings, view, w, h)
		e.ras.Draw(dst, dst.Bounds(), image.NewUniform(resolve(e.refs, a.color, fallbackFill)), image.Point{})

		if a.pattern == "" {
			continue
		}
		if cell, ok := e.atlas.Lookup(a.pattern); ok && !cell.Empty() {
			e.trace(a.rings, view, w, h)
			e.ras.Draw(dst, dst.Bounds(), tile{src: e.atlas.Image, r: cell}, image.Point{})
		}
	}
	return nil
}

func (e *AreaEngine) trace(rings []orb.Ring, view engine.View, w, h int) {
	e.ras.Reset(w, h)
	e.ras.DrawOp = draw.Over
	for _, ring := range rings {
		for i, p := range ring {
			x, y := view.Project(p, w, h)
			if i == 0 {
				e.ras.MoveTo(float32(x), float32(y))
			} else {
				e.ras.LineTo(float32(x), float32(y))
			}
		}
		e.ras.ClosePath()
	}
}

// Destroy releases the engine.
func (e *AreaEngine) Destroy() {
	e.ClearData()
	e.ras = nil
	e.destroyed = true
}

// orientRings returns copies of the polygon rings with the exterior
// counter-clockwise and holes clockwise, so holes cancel the fill under
// the rasteriser's winding accumulation.
func orientRings(p orb.Polygon) []orb.Ring {
	out := make([]orb.Ring, 0, len(p))
	for i, r := range p {
		if len(r) < 3 {
			continue
		}
		c := r.Clone()
		want := orb.CCW
		if i > 0 {
			want = orb.CW
		}
		if c.Orientation() != want {
			c.Reverse()
		}
		out = append(out, c)
	}
	return out
}

var _ engine.Engine[s52.AreaLayer] = (*AreaEngine)(nil)
