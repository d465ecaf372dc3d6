package compositor

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	rlidisplay "github.com/zappa672/RLIDisplay"
	"github.com/zappa672/RLIDisplay/assets"
	"github.com/zappa672/RLIDisplay/engine"
	"github.com/zappa672/RLIDisplay/render"
	"github.com/zappa672/RLIDisplay/s52"
	"github.com/zappa672/RLIDisplay/settings"
	"github.com/zappa672/RLIDisplay/shader"
)

// State is the lifecycle state of a Compositor.
type State int

const (
	// StateUninitialized is the state before Init and after Close.
	StateUninitialized State = iota

	// StateReady accepts every operation.
	StateReady

	// StateSwapping is held for the duration of SetChart.
	StateSwapping
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateSwapping:
		return "swapping"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// DrawStats counts the draw calls issued by one composite, per class.
type DrawStats struct {
	Areas     int
	Lines     int
	Marks     int
	Texts     int
	Soundings int
}

// Total returns the number of draw calls.
func (s DrawStats) Total() int {
	return s.Areas + s.Lines + s.Marks + s.Texts + s.Soundings
}

// Compositor is the chart draw orchestrator.
type Compositor struct {
	store   *settings.Store
	backend Backend

	now               func() time.Time
	interval          time.Duration
	textPass          bool
	defaultBackground color.RGBA

	state  State
	closed bool

	target   *render.Target
	programs shader.Library
	atlases  *assets.Set
	refs     s52.References

	areas     *engine.Registry[s52.AreaLayer]
	lines     *engine.Registry[s52.LineLayer]
	marks     *engine.Registry[s52.MarkLayer]
	texts     *engine.Registry[s52.TextLayer]
	soundings *engine.Slot[s52.SoundingLayer]

	chart      string
	background color.RGBA
	view       engine.View

	lastComposite time.Time
	composites    int
	lastStats     DrawStats
}

// New creates an uninitialized compositor. The compositor takes ownership
// of store and saves it on Close; store must not be nil.
func New(store *settings.Store, backend Backend, opts ...Option) *Compositor {
	c := &Compositor{
		store:             store,
		backend:           backend,
		now:               time.Now,
		interval:          DefaultRedrawInterval,
		defaultBackground: DefaultBackground,
		background:        DefaultBackground,
		view:              engine.DefaultView(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init allocates the render target, the shader programs and the shared
// atlases of refs, then composites once. Partially allocated resources are
// released on failure.
func (c *Compositor) Init(width, height int, refs s52.References) error {
	switch {
	case c.closed:
		return ErrClosed
	case c.state != StateUninitialized:
		return ErrAlreadyInitialized
	case refs == nil:
		return ErrNilReferences
	case c.backend.Programs == nil || c.backend.Engines == nil:
		return errors.New("compositor: incomplete backend")
	}

	target := render.NewTarget(c.backend.Framebuffer)
	if err := target.Init(width, height); err != nil {
		return fmt.Errorf("compositor: init target: %w", err)
	}
	programs, err := c.backend.Programs()
	if err != nil {
		target.Destroy()
		return fmt.Errorf("compositor: load programs: %w", err)
	}
	atlases, err := assets.Load(refs, c.backend.Uploader)
	if err != nil {
		programs.Close()
		target.Destroy()
		return fmt.Errorf("compositor: load atlases: %w", err)
	}

	c.target, c.programs, c.atlases, c.refs = target, programs, atlases, refs
	c.buildRegistries()
	c.state = StateReady

	rlidisplay.Logger().Info("compositor: initialized",
		"width", width, "height", height, "scheme", refs.ColorScheme(), "texture", target.TextureID())
	return c.Draw()
}

func (c *Compositor) buildRegistries() {
	f := c.backend.Engines(liveRefs{c}, c.store.SafetyDepth)
	dev := c.backend.Device
	c.areas = engine.NewRegistry(s52.ClassArea, dev, f.Area)
	c.lines = engine.NewRegistry(s52.ClassLine, dev, f.Line)
	c.marks = engine.NewRegistry(s52.ClassMark, dev, f.Mark)
	c.texts = engine.NewRegistry(s52.ClassText, dev, f.Text)
	c.soundings = engine.NewSlot(s52.ClassSounding, dev, f.Sounding)
}

// SetChart replaces the displayed chart. Every engine is cleared first, so
// no layer of the previous chart survives, then the layers of chart are
// uploaded with the atlases of the reference's current colour scheme. A nil
// refs keeps the current reference. Draw is suppressed until the swap is
// complete; SetChart then composites once.
//
// Upload failures do not stop the swap; they are returned together.
func (c *Compositor) SetChart(chart s52.Chart, refs s52.References) error {
	switch c.state {
	case StateUninitialized:
		return ErrNotInitialized
	case StateSwapping:
		return ErrSwapInProgress
	}
	if chart == nil {
		return ErrNilChart
	}
	if refs != nil {
		c.refs = refs
	}

	swap := uuid.New()
	log := rlidisplay.Logger().With("swap", swap.String(), "chart", chart.Name())
	log.Info("compositor: chart swap started")

	c.state = StateSwapping
	errs := c.swap(chart)
	c.state = StateReady

	log.Info("compositor: chart swap finished",
		"areas", c.areas.Len(), "lines", c.lines.Len(), "marks", c.marks.Len(), "texts", c.texts.Len(),
		"soundings", chart.SoundingLayer() != nil, "errors", len(errs))

	errs = append(errs, c.Draw())
	return errors.Join(errs...)
}

func (c *Compositor) swap(chart s52.Chart) []error {
	c.areas.ClearAll()
	c.lines.ClearAll()
	c.marks.ClearAll()
	c.texts.ClearAll()
	c.soundings.Clear()

	c.chart = chart.Name()
	c.background = c.defaultBackground
	if bg, ok := c.refs.Color(s52.ColorNoData); ok {
		c.background = bg
	}

	scheme := c.refs.ColorScheme()
	var errs []error
	errs = upload(errs, c.areas, chart.AreaLayerNames(), chart.AreaLayer, c.atlases.ForClass(s52.ClassArea, scheme))
	errs = upload(errs, c.lines, chart.LineLayerNames(), chart.LineLayer, c.atlases.ForClass(s52.ClassLine, scheme))
	errs = upload(errs, c.marks, chart.MarkLayerNames(), chart.MarkLayer, c.atlases.ForClass(s52.ClassMark, scheme))
	errs = upload(errs, c.texts, chart.TextLayerNames(), chart.TextLayer, c.atlases.ForClass(s52.ClassText, scheme))

	if l := chart.SoundingLayer(); l != nil {
		if err := c.soundings.SetData(l, c.atlases.ForClass(s52.ClassSounding, scheme)); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func upload[L any](errs []error, r *engine.Registry[L], names []string, layer func(string) *L, atlas *assets.Atlas) []error {
	if atlas == nil {
		rlidisplay.Logger().Warn("compositor: missing atlas", "class", r.Class())
	}
	for _, name := range names {
		if err := r.SetLayerData(name, layer(name), atlas); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Update records the view pose and composites if more than the redraw
// interval has passed since the last composite. It reports whether it drew.
func (c *Compositor) Update(center orb.Point, radius, angle float64) (bool, error) {
	c.view = engine.View{Center: center, Radius: radius, Angle: angle}
	if c.state != StateReady {
		return false, nil
	}
	if c.now().Sub(c.lastComposite) <= c.interval {
		return false, nil
	}
	return true, c.Draw()
}

// Draw composites every visible layer into the render target. It does
// nothing before Init and during a chart swap.
//
// A failing engine or program does not stop the composite; the errors are
// returned together after the target is unbound.
func (c *Compositor) Draw() error {
	if c.state != StateReady {
		return nil
	}
	frame, err := c.target.Bind(c.background)
	if err != nil {
		return fmt.Errorf("compositor: bind target: %w", err)
	}

	names := c.visibleLayers()
	var stats DrawStats
	var errs []error
	collect := func(n int, err error) int {
		if err != nil {
			errs = append(errs, err)
		}
		return n
	}

	stats.Areas = collect(drawPass(c, c.areas, frame, names))
	stats.Lines = collect(drawPass(c, c.lines, frame, names))
	stats.Marks = collect(drawPass(c, c.marks, frame, names))
	if c.textPass {
		stats.Texts = collect(drawPass(c, c.texts, frame, names))
	}
	if c.store.SoundingsVisible() {
		stats.Soundings = collect(c.drawSoundings(frame))
	}

	if err := c.target.Unbind(); err != nil {
		errs = append(errs, fmt.Errorf("compositor: unbind target: %w", err))
	}
	c.lastComposite = c.now()
	c.composites++
	c.lastStats = stats

	rlidisplay.Logger().Debug("compositor: composite",
		"visible", len(names), "calls", stats.Total(), "areas", stats.Areas, "lines", stats.Lines,
		"marks", stats.Marks, "texts", stats.Texts, "soundings", stats.Soundings)
	return errors.Join(errs...)
}

// visibleLayers filters the store's display order down to visible layers.
func (c *Compositor) visibleLayers() []string {
	order := c.store.LayersDisplayOrder()
	out := order[:0]
	for _, name := range order {
		if c.store.IsLayerVisible(name) {
			out = append(out, name)
		}
	}
	return out
}

func drawPass[L any](c *Compositor, r *engine.Registry[L], frame render.Frame, names []string) (int, error) {
	program, err := c.programs.Program(r.Class())
	if err != nil {
		return 0, fmt.Errorf("compositor: %s program: %w", r.Class(), err)
	}
	if err := program.Bind(); err != nil {
		return 0, fmt.Errorf("compositor: bind %s program: %w", r.Class(), err)
	}
	defer program.Release()
	return r.DrawVisible(frame, names, program, c.view)
}

func (c *Compositor) drawSoundings(frame render.Frame) (int, error) {
	if c.soundings.Engine() == nil {
		return 0, nil
	}
	program, err := c.programs.Program(s52.ClassSounding)
	if err != nil {
		return 0, fmt.Errorf("compositor: sounding program: %w", err)
	}
	if err := program.Bind(); err != nil {
		return 0, fmt.Errorf("compositor: bind sounding program: %w", err)
	}
	defer program.Release()
	drawn, err := c.soundings.Draw(frame, program, c.view)
	if drawn {
		return 1, err
	}
	return 0, err
}

// Resize reallocates the render target and composites at once. It does
// nothing before Init.
func (c *Compositor) Resize(width, height int) error {
	if c.state == StateUninitialized {
		return nil
	}
	if err := c.target.Resize(width, height); err != nil {
		return fmt.Errorf("compositor: resize: %w", err)
	}
	rlidisplay.Logger().Info("compositor: resized", "width", width, "height", height, "texture", c.target.TextureID())
	return c.Draw()
}

// TextureID returns the texture holding the composited image. It changes
// on Resize; re-query it every frame.
func (c *Compositor) TextureID() render.TextureID {
	if c.target == nil {
		return render.NoTexture
	}
	return c.target.TextureID()
}

// Close destroys every engine, the atlases, the programs and the render
// target, then saves and closes the settings store. Only the first call has
// an effect.
func (c *Compositor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.state != StateUninitialized {
		c.areas.DestroyAll()
		c.lines.DestroyAll()
		c.marks.DestroyAll()
		c.texts.DestroyAll()
		c.soundings.Destroy()
		c.atlases.Close()
		c.programs.Close()
		c.target.Destroy()
		c.state = StateUninitialized
		rlidisplay.Logger().Info("compositor: closed", "composites", c.composites)
	}
	return c.store.Close()
}

// State returns the lifecycle state.
func (c *Compositor) State() State { return c.state }

// Store returns the layer settings store.
func (c *Compositor) Store() *settings.Store { return c.store }

// View returns the current view pose.
func (c *Compositor) View() engine.View { return c.view }

// Background returns the current clear colour.
func (c *Compositor) Background() color.RGBA { return c.background }

// ChartName returns the name of the chart last set, empty before SetChart.
func (c *Compositor) ChartName() string { return c.chart }

// Size returns the render target size.
func (c *Compositor) Size() (width, height int) {
	if c.target == nil {
		return 0, 0
	}
	return c.target.Size()
}

// Composites returns the number of completed composites.
func (c *Compositor) Composites() int { return c.composites }

// LastDrawStats returns the draw calls of the latest composite.
func (c *Compositor) LastDrawStats() DrawStats { return c.lastStats }
