package soft

import (
	"image"
	"math"
	"slices"

	"github.com/paulmach/orb"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/zappa672/RLIDisplay/assets"
	"github.com/zappa672/RLIDisplay/engine"
	"github.com/zappa672/RLIDisplay/render"
	"github.com/zappa672/RLIDisplay/s52"
	"github.com/zappa672/RLIDisplay/shader"
)

// Simple line styles, in pixels.
const (
	StyleSolid  = "SOLD"
	StyleDashed = "DASH"
	StyleDotted = "DOTT"
)

var dashPatterns = map[string][2]float64{
	StyleDashed: {6, 3},
	StyleDotted: {1.5, 3},
}

type preparedLine struct {
	path  orb.LineString
	color string
	style string
	width float64
	bound orb.Bound
}

// LineEngine strokes polylines. Simple styles are dashed; a complex style
// found in the line atlas is tiled along the stroke.
type LineEngine struct {
	refs      Colors
	lines     []preparedLine
	atlas     *assets.Atlas
	ras       *vector.Rasterizer
	destroyed bool
}

// NewLineEngine creates a line engine resolving colours through refs.
func NewLineEngine(refs Colors) *LineEngine {
	return &LineEngine{refs: refs}
}

// Init prepares the rasteriser.
func (e *LineEngine) Init(render.DeviceHandle) error {
	e.ras = &vector.Rasterizer{}
	return nil
}

// SetData replaces the lines. Paths with fewer than two points are dropped.
func (e *LineEngine) SetData(l *s52.LineLayer, atlas *assets.Atlas) error {
	e.lines = e.lines[:0]
	e.atlas = atlas
	if l == nil {
		return nil
	}
	for _, ln := range l.Lines {
		if len(ln.Path) < 2 {
			continue
		}
		width := ln.Width
		if width < 1 {
			width = 1
		}
		e.lines = append(e.lines, preparedLine{
			path:  slices.Clone(ln.Path),
			color: ln.Color,
			style: ln.Style,
			width: width,
			bound: ln.Path.Bound(),
		})
	}
	return nil
}

// ClearData drops the lines.
func (e *LineEngine) ClearData() {
	e.lines = nil
	e.atlas = nil
}

// Len returns the number of prepared lines.
func (e *LineEngine) Len() int { return len(e.lines) }

// Draw strokes every line that intersects the view.
func (e *LineEngine) Draw(frame render.Frame, program shader.Program, view engine.View) error {
	if e.destroyed {
		return ErrDestroyed
	}
	if err := checkProgram(program, s52.ClassLine); err != nil {
		return err
	}
	dst, err := pixels(frame)
	if err != nil {
		return err
	}
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	vb := view.Bound(w, h)

	for _, ln := range e.lines {
		if !ln.bound.Pad(ln.width / max(view.Scale(w, h), 1e-12)).Intersects(vb) {
			continue
		}
		pts := make([][2]float64, len(ln.path))
		for i, p := range ln.path {
			pts[i][0], pts[i][1] = view.Project(p, w, h)
		}

		var src image.Image = image.NewUniform(resolve(e.refs, ln.color, fallbackInk))
		runs := [][][2]float64{pts}
		if pattern, ok := dashPatterns[ln.style]; ok {
			clip := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{float64(w), float64(h)}}.Pad(ln.width)
			runs = dash(pts, pattern[0], pattern[1], clip)
		} else if ln.style != "" && ln.style != StyleSolid {
			if cell, ok := e.atlas.Lookup(ln.style); ok && !cell.Empty() {
				src = tile{src: e.atlas.Image, r: cell}
			}
		}

		e.ras.Reset(w, h)
		e.ras.DrawOp = draw.Over
		for _, run := range runs {
			stroke(e.ras, run, ln.width)
		}
		e.ras.Draw(dst, dst.Bounds(), src, image.Point{})
	}
	return nil
}

// Destroy releases the engine.
func (e *LineEngine) Destroy() {
	e.ClearData()
	e.ras = nil
	e.destroyed = true
}

// stroke adds one quad per segment to z, plus an octagon at every interior
// vertex of thick lines to fill the joins. All shapes share one winding
// direction so overlaps accumulate instead of cancelling.
func stroke(z *vector.Rasterizer, pts [][2]float64, width float64) {
	hw := width / 2
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		dx, dy := b[0]-a[0], b[1]-a[1]
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*hw, dx/l*hw
		z.MoveTo(float32(a[0]+nx), float32(a[1]+ny))
		z.LineTo(float32(b[0]+nx), float32(b[1]+ny))
		z.LineTo(float32(b[0]-nx), float32(b[1]-ny))
		z.LineTo(float32(a[0]-nx), float32(a[1]-ny))
		z.ClosePath()
	}
	if width < 3 {
		return
	}
	for i := 1; i < len(pts)-1; i++ {
		c := pts[i]
		for k := 0; k < 8; k++ {
			sin, cos := math.Sincos(-float64(k) * math.Pi / 4)
			x, y := float32(c[0]+cos*hw), float32(c[1]+sin*hw)
			if k == 0 {
				z.MoveTo(x, y)
			} else {
				z.LineTo(x, y)
			}
		}
		z.ClosePath()
	}
}

// dash splits a polyline into the "on" pieces of an on/off pattern. Only
// the parts of segments inside clip are walked; the rest advances the
// pattern phase in constant time.
func dash(pts [][2]float64, on, off float64, clip orb.Bound) [][][2]float64 {
	d := dasher{on: on, off: off, left: on, drawing: true}
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		seg := math.Hypot(b[0]-a[0], b[1]-a[1])
		if seg == 0 {
			continue
		}
		t0, t1, ok := clipSegment(a, b, clip)
		if !ok {
			d.skip(seg)
			continue
		}
		if t0 > 0 {
			d.skip(seg * t0)
		}
		d.walk(lerp(a, b, t0), lerp(a, b, t1))
		if t1 < 1 {
			d.skip(seg * (1 - t1))
		}
	}
	d.flush()
	return d.out
}

// dasher carries the pattern phase across segments.
type dasher struct {
	on, off float64
	left    float64
	drawing bool
	cur     [][2]float64
	out     [][][2]float64
}

func (d *dasher) toggle() {
	d.drawing = !d.drawing
	if d.drawing {
		d.left = d.on
	} else {
		d.left = d.off
	}
}

// walk emits the dashes of the visible segment a-b.
func (d *dasher) walk(a, b [2]float64) {
	seg := math.Hypot(b[0]-a[0], b[1]-a[1])
	if d.drawing && len(d.cur) == 0 {
		d.cur = append(d.cur, a)
	}
	pos := 0.0
	for seg-pos > d.left {
		pos += d.left
		p := lerp(a, b, pos/seg)
		if d.drawing {
			d.out = append(d.out, append(d.cur, p))
			d.cur = nil
		} else {
			d.cur = [][2]float64{p}
		}
		d.toggle()
	}
	d.left -= seg - pos
	if d.drawing {
		d.cur = append(d.cur, b)
	}
}

// skip ends the current dash and advances the phase by l without emitting.
func (d *dasher) skip(l float64) {
	d.flush()
	l = math.Mod(l, d.on+d.off)
	for l >= d.left {
		l -= d.left
		d.toggle()
	}
	d.left -= l
}

func (d *dasher) flush() {
	if d.drawing && len(d.cur) > 1 {
		d.out = append(d.out, d.cur)
	}
	d.cur = nil
}

func lerp(a, b [2]float64, t float64) [2]float64 {
	return [2]float64{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t}
}

// clipSegment returns the parameter range of a-b inside r (Liang-Barsky).
func clipSegment(a, b [2]float64, r orb.Bound) (t0, t1 float64, ok bool) {
	t0, t1 = 0, 1
	dx, dy := b[0]-a[0], b[1]-a[1]
	for _, e := range [4][2]float64{
		{-dx, a[0] - r.Min[0]},
		{dx, r.Max[0] - a[0]},
		{-dy, a[1] - r.Min[1]},
		{dy, r.Max[1] - a[1]},
	} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, false
			}
			t1 = min(t1, t)
		}
	}
	return t0, t1, t0 < t1
}

var _ engine.Engine[s52.LineLayer] = (*LineEngine)(nil)
