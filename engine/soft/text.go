package soft

import (
	"bytes"
	"fmt"
	"image"

	"github.com/go-text/typesetting/di"
	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"github.com/paulmach/orb"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/zappa672/RLIDisplay/assets"
	"github.com/zappa672/RLIDisplay/engine"
	"github.com/zappa672/RLIDisplay/internal/cache"
	"github.com/zappa672/RLIDisplay/render"
	"github.com/zappa672/RLIDisplay/s52"
	"github.com/zappa672/RLIDisplay/shader"
)

type preparedLabel struct {
	at    orb.Point
	color string
	run   run
}

// TextEngine draws labels from the glyph atlas. Labels are shaped once on
// upload with HarfBuzz, one bidi run at a time, and drawn centred on their
// anchor at the atlas size.
type TextEngine struct {
	refs      Colors
	face      *gotext.Face
	shaper    shaping.HarfbuzzShaper
	labels    []preparedLabel
	atlas     *assets.Atlas
	destroyed bool
}

// NewTextEngine creates a text engine resolving colours through refs.
func NewTextEngine(refs Colors) *TextEngine {
	return &TextEngine{refs: refs}
}

// Init parses the atlas font for shaping.
func (e *TextEngine) Init(render.DeviceHandle) error {
	f, err := gotext.ParseTTF(bytes.NewReader(assets.FontData()))
	if err != nil {
		return fmt.Errorf("soft: parse font: %w", err)
	}
	e.face = gotext.NewFace(f.Font)
	return nil
}

// SetData shapes and stores the labels. Without a glyph atlas nothing is
// stored.
func (e *TextEngine) SetData(l *s52.TextLayer, atlas *assets.Atlas) error {
	e.ClearData()
	e.atlas = atlas
	if l == nil || atlas == nil {
		return nil
	}
	for _, lb := range l.Labels {
		if lb.Text == "" {
			continue
		}
		e.labels = append(e.labels, preparedLabel{at: lb.At, color: lb.Color, run: e.cachedLayout(lb.Text)})
	}
	return nil
}

// layoutKey identifies a shaped label. Cells depend on the atlas, so runs
// are not shared between colour schemes.
type layoutKey struct {
	atlas  *assets.Atlas
	shaped bool
	text   string
}

// layouts is shared by all text engines; names such as "Gulf" recur across
// layers and charts.
var layouts = cache.New[layoutKey, run](4096)

// ForgetAtlas drops the cached layouts referring to a closed atlas.
func ForgetAtlas(a *assets.Atlas) int {
	return layouts.Purge(func(k layoutKey) bool { return k.atlas == a })
}

func (e *TextEngine) cachedLayout(text string) run {
	key := layoutKey{atlas: e.atlas, shaped: e.face != nil, text: text}
	return layouts.GetOrCreate(key, func() run { return e.layout(text) })
}

// layout shapes text into atlas cells in visual order.
func (e *TextEngine) layout(text string) run {
	if e.face == nil {
		return atlasRun(e.atlas, text)
	}
	runes := []rune(text)

	p := bidi.Paragraph{}
	_, _ = p.SetString(text, bidi.DefaultDirection(bidi.Neutral))
	ordering, err := p.Order()
	if err != nil {
		return e.shapeRun(runes, 0, len(runes)-1, di.DirectionLTR, run{})
	}

	var r run
	for i := 0; i < ordering.NumRuns(); i++ {
		br := ordering.Run(i)
		start, end := br.Pos()
		dir := di.DirectionLTR
		if br.Direction() == bidi.RightToLeft {
			dir = di.DirectionRTL
		}
		r = e.shapeRun(runes, start, end, dir, r)
	}
	return r
}

// shapeRun shapes runes[start..end] and appends the glyphs to r.
func (e *TextEngine) shapeRun(runes []rune, start, end int, dir di.Direction, r run) run {
	if start < 0 || end >= len(runes) || start > end {
		return r
	}
	out := e.shaper.Shape(shaping.Input{
		Text:      runes,
		RunStart:  start,
		RunEnd:    end + 1,
		Direction: dir,
		Face:      e.face,
		Size:      fixed.I(assets.GlyphSize),
		Script:    language.LookupScript(runes[start]),
		Language:  language.NewLanguage("en"),
	})
	for _, g := range out.Glyphs {
		idx := g.TextIndex()
		if idx >= 0 && idx < len(runes) {
			if cell, ok := e.atlas.Lookup(string(runes[idx])); ok {
				r.glyphs = append(r.glyphs, placedGlyph{cell: cell, x: r.width + float64(g.XOffset)/64})
			}
		}
		r.width += float64(g.Advance) / 64
	}
	return r
}

// ClearData drops the labels.
func (e *TextEngine) ClearData() {
	e.labels = nil
	e.atlas = nil
}

// Len returns the number of labels.
func (e *TextEngine) Len() int { return len(e.labels) }

// Draw draws every label whose anchor is inside the view.
func (e *TextEngine) Draw(frame render.Frame, program shader.Program, view engine.View) error {
	if e.destroyed {
		return ErrDestroyed
	}
	if err := checkProgram(program, s52.ClassText); err != nil {
		return err
	}
	dst, err := pixels(frame)
	if err != nil {
		return err
	}
	if e.atlas == nil {
		return nil
	}
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	s := view.Scale(w, h)
	if s == 0 {
		return nil
	}
	vb := view.Bound(w, h)
	for _, lb := range e.labels {
		if !vb.Pad(lb.run.width / s).Contains(lb.at) {
			continue
		}
		x, y := view.Project(lb.at, w, h)
		drawRun(dst, e.atlas, lb.run, x, y, image.NewUniform(resolve(e.refs, lb.color, fallbackInk)))
	}
	return nil
}

// Destroy releases the engine.
func (e *TextEngine) Destroy() {
	if e.atlas != nil {
		ForgetAtlas(e.atlas)
	}
	e.ClearData()
	e.face = nil
	e.destroyed = true
}

var _ engine.Engine[s52.TextLayer] = (*TextEngine)(nil)
