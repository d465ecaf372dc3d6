package soft

import (
	"image"
	"math"
	"slices"
	"strconv"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"github.com/zappa672/RLIDisplay/assets"
	"github.com/zappa672/RLIDisplay/engine"
	"github.com/zappa672/RLIDisplay/render"
	"github.com/zappa672/RLIDisplay/s52"
	"github.com/zappa672/RLIDisplay/shader"
)

// Colour tokens of soundings deeper and not deeper than the safety depth.
const (
	ColorSoundingDeep    = "SNDG1"
	ColorSoundingShallow = "SNDG2"
)

// SoundingEngine draws depth figures from the glyph atlas. Soundings no
// deeper than the safety depth use the shallow colour.
type SoundingEngine struct {
	refs      Colors
	safety    func() float64
	soundings []s52.Sounding
	tree      *rtreego.Rtree
	atlas     *assets.Atlas
	destroyed bool
}

// NewSoundingEngine creates a sounding engine. safety is read on every draw
// and may be nil, meaning a safety depth of zero.
func NewSoundingEngine(refs Colors, safety func() float64) *SoundingEngine {
	return &SoundingEngine{refs: refs, safety: safety}
}

// Init is a no-op; the engine holds no backend resources.
func (e *SoundingEngine) Init(render.DeviceHandle) error {
	return nil
}

// SetData replaces the soundings and rebuilds the spatial index.
func (e *SoundingEngine) SetData(l *s52.SoundingLayer, atlas *assets.Atlas) error {
	e.ClearData()
	e.atlas = atlas
	if l == nil {
		return nil
	}
	e.soundings = slices.Clone(l.Soundings)
	pts := make([]orb.Point, len(e.soundings))
	for i, s := range e.soundings {
		pts[i] = s.At
	}
	e.tree = indexPoints(pts)
	return nil
}

// ClearData drops the soundings.
func (e *SoundingEngine) ClearData() {
	e.soundings = nil
	e.tree = nil
	e.atlas = nil
}

// Len returns the number of soundings.
func (e *SoundingEngine) Len() int { return len(e.soundings) }

// Draw draws every sounding inside the view.
func (e *SoundingEngine) Draw(frame render.Frame, program shader.Program, view engine.View) error {
	if e.destroyed {
		return ErrDestroyed
	}
	if err := checkProgram(program, s52.ClassSounding); err != nil {
		return err
	}
	dst, err := pixels(frame)
	if err != nil {
		return err
	}
	if e.atlas == nil {
		return nil
	}
	safety := 0.0
	if e.safety != nil {
		safety = e.safety()
	}
	shallow := image.NewUniform(resolve(e.refs, ColorSoundingShallow, fallbackInk))
	deep := image.NewUniform(resolve(e.refs, ColorSoundingDeep, fallbackFill))

	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	pad := float64(e.atlas.Size().Y) * 3
	for _, i := range visiblePoints(e.tree, view, w, h, pad) {
		s := e.soundings[i]
		col := deep
		if s.Depth <= safety {
			col = shallow
		}
		x, y := view.Project(s.At, w, h)
		drawRun(dst, e.atlas, atlasRun(e.atlas, FormatDepth(s.Depth)), x, y, col)
	}
	return nil
}

// Destroy releases the engine.
func (e *SoundingEngine) Destroy() {
	e.ClearData()
	e.destroyed = true
}

// FormatDepth renders a depth the way charts print it: truncated to
// decimetres below 31 m, to whole metres from there on.
func FormatDepth(d float64) string {
	if math.Abs(d) < 31 {
		v := math.Floor(math.Abs(d)*10) / 10
		if d < 0 {
			v = -v
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.Itoa(int(d))
}

var _ engine.Engine[s52.SoundingLayer] = (*SoundingEngine)(nil)
