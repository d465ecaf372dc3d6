package soft

import (
	"image"
	"math"
	"slices"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	rlidisplay "github.com/zappa672/RLIDisplay"
	"github.com/zappa672/RLIDisplay/assets"
	"github.com/zappa672/RLIDisplay/engine"
	"github.com/zappa672/RLIDisplay/render"
	"github.com/zappa672/RLIDisplay/s52"
	"github.com/zappa672/RLIDisplay/shader"
)

// MarkEngine blits point symbols from the symbol atlas, centred on the
// mark and rotated by the mark rotation plus the view angle.
type MarkEngine struct {
	marks     []s52.Mark
	tree      *rtreego.Rtree
	atlas     *assets.Atlas
	pad       float64
	destroyed bool
}

// NewMarkEngine creates a mark engine.
func NewMarkEngine() *MarkEngine {
	return &MarkEngine{}
}

// Init is a no-op; the engine holds no backend resources.
func (e *MarkEngine) Init(render.DeviceHandle) error {
	return nil
}

// SetData replaces the marks and rebuilds the spatial index.
func (e *MarkEngine) SetData(l *s52.MarkLayer, atlas *assets.Atlas) error {
	e.ClearData()
	e.atlas = atlas
	if l == nil {
		return nil
	}
	e.marks = slices.Clone(l.Marks)
	pts := make([]orb.Point, len(e.marks))
	for i, m := range e.marks {
		pts[i] = m.At
		if r, ok := atlas.Lookup(m.Symbol); ok {
			// A rotated cell reaches at most its half diagonal.
			e.pad = math.Max(e.pad, math.Hypot(float64(r.Dx()), float64(r.Dy()))/2)
		}
	}
	e.tree = indexPoints(pts)
	return nil
}

// ClearData drops the marks.
func (e *MarkEngine) ClearData() {
	e.marks = nil
	e.tree = nil
	e.atlas = nil
	e.pad = 0
}

// Len returns the number of marks.
func (e *MarkEngine) Len() int { return len(e.marks) }

// Draw blits every mark inside the view.
func (e *MarkEngine) Draw(frame render.Frame, program shader.Program, view engine.View) error {
	if e.destroyed {
		return ErrDestroyed
	}
	if err := checkProgram(program, s52.ClassMark); err != nil {
		return err
	}
	dst, err := pixels(frame)
	if err != nil {
		return err
	}
	if e.atlas == nil || e.atlas.Image == nil {
		if len(e.marks) > 0 {
			rlidisplay.Logger().Debug("soft: marks without symbol atlas", "marks", len(e.marks))
		}
		return nil
	}
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()

	for _, i := range visiblePoints(e.tree, view, w, h, e.pad) {
		m := e.marks[i]
		cell, ok := e.atlas.Lookup(m.Symbol)
		if !ok || cell.Empty() {
			continue
		}
		x, y := view.Project(m.At, w, h)
		blitRotated(dst, e.atlas.Image, cell, x, y, m.Rotation+view.Angle)
	}
	return nil
}

// Destroy releases the engine.
func (e *MarkEngine) Destroy() {
	e.ClearData()
	e.destroyed = true
}

// blitRotated draws the src cell centred on (x, y), rotated clockwise by
// deg degrees.
func blitRotated(dst *image.RGBA, src *image.RGBA, cell image.Rectangle, x, y, deg float64) {
	cx := float64(cell.Min.X) + float64(cell.Dx())/2
	cy := float64(cell.Min.Y) + float64(cell.Dy())/2
	if math.Mod(deg, 360) == 0 {
		r := image.Rect(0, 0, cell.Dx(), cell.Dy()).Add(image.Pt(int(math.Round(x-float64(cell.Dx())/2)), int(math.Round(y-float64(cell.Dy())/2))))
		draw.Draw(dst, r, src, cell.Min, draw.Over)
		return
	}
	sin, cos := math.Sincos(deg * math.Pi / 180)
	s2d := f64.Aff3{
		cos, -sin, x - cos*cx + sin*cy,
		sin, cos, y - sin*cx - cos*cy,
	}
	draw.ApproxBiLinear.Transform(dst, s2d, src, cell, draw.Over, nil)
}

var _ engine.Engine[s52.MarkLayer] = (*MarkEngine)(nil)
