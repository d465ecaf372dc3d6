package s52

import "github.com/paulmach/orb"

// Chart is a parsed chart as seen by the compositor. Layer names are unique
// within a class; the same name may appear in several classes.
//
// A Chart is borrowed read-only for the duration of a chart swap.
type Chart interface {
	Name() string

	AreaLayerNames() []string
	AreaLayer(name string) *AreaLayer

	LineLayerNames() []string
	LineLayer(name string) *LineLayer

	MarkLayerNames() []string
	MarkLayer(name string) *MarkLayer

	TextLayerNames() []string
	TextLayer(name string) *TextLayer

	// SoundingLayer returns nil when the chart carries no soundings.
	SoundingLayer() *SoundingLayer
}

// Dataset is an in-memory Chart built feature by feature, as loaders do.
// Layer names are reported in first-insertion order.
type Dataset struct {
	name string

	areas  classLayers[AreaLayer]
	lines  classLayers[LineLayer]
	marks  classLayers[MarkLayer]
	labels classLayers[TextLayer]

	soundings *SoundingLayer
}

// NewDataset returns an empty chart.
func NewDataset(name string) *Dataset {
	return &Dataset{name: name}
}

func (d *Dataset) Name() string { return d.name }

func (d *Dataset) AreaLayerNames() []string         { return d.areas.names() }
func (d *Dataset) AreaLayer(name string) *AreaLayer { return d.areas.get(name) }
func (d *Dataset) LineLayerNames() []string         { return d.lines.names() }
func (d *Dataset) LineLayer(name string) *LineLayer { return d.lines.get(name) }
func (d *Dataset) MarkLayerNames() []string         { return d.marks.names() }
func (d *Dataset) MarkLayer(name string) *MarkLayer { return d.marks.get(name) }
func (d *Dataset) TextLayerNames() []string         { return d.labels.names() }
func (d *Dataset) TextLayer(name string) *TextLayer { return d.labels.get(name) }
func (d *Dataset) SoundingLayer() *SoundingLayer    { return d.soundings }

// AddArea appends an area to the named area layer.
func (d *Dataset) AddArea(layer string, a Area) {
	l := d.areas.ensure(layer)
	l.Areas = append(l.Areas, a)
}

// AddLine appends a line to the named line layer.
func (d *Dataset) AddLine(layer string, ln Line) {
	l := d.lines.ensure(layer)
	l.Lines = append(l.Lines, ln)
}

// AddMark appends a point symbol to the named mark layer.
func (d *Dataset) AddMark(layer string, m Mark) {
	l := d.marks.ensure(layer)
	l.Marks = append(l.Marks, m)
}

// AddLabel appends a label to the named text layer.
func (d *Dataset) AddLabel(layer string, lb Label) {
	l := d.labels.ensure(layer)
	l.Labels = append(l.Labels, lb)
}

// AddSounding appends a sounding, creating the sounding layer on first use.
func (d *Dataset) AddSounding(s Sounding) {
	if d.soundings == nil {
		d.soundings = &SoundingLayer{}
	}
	d.soundings.Soundings = append(d.soundings.Soundings, s)
}

// Bound returns the bounding box of all geometry in the chart.
func (d *Dataset) Bound() orb.Bound {
	var b boundBuilder
	for _, n := range d.areas.order {
		if l := d.areas.get(n); len(l.Areas) > 0 {
			b.add(l.Bound())
		}
	}
	for _, n := range d.lines.order {
		if l := d.lines.get(n); len(l.Lines) > 0 {
			b.add(l.Bound())
		}
	}
	for _, n := range d.marks.order {
		if l := d.marks.get(n); len(l.Marks) > 0 {
			b.add(l.Bound())
		}
	}
	if d.soundings != nil && len(d.soundings.Soundings) > 0 {
		b.add(d.soundings.Bound())
	}
	return b.bound()
}

// classLayers keeps the layers of one class keyed by name, remembering the
// order in which names first appeared.
type classLayers[L any] struct {
	byName map[string]*L
	order  []string
}

func (c *classLayers[L]) ensure(name string) *L {
	if c.byName == nil {
		c.byName = make(map[string]*L)
	}
	l, ok := c.byName[name]
	if !ok {
		l = new(L)
		c.byName[name] = l
		c.order = append(c.order, name)
	}
	return l
}

func (c *classLayers[L]) get(name string) *L {
	return c.byName[name]
}

func (c *classLayers[L]) names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

var _ Chart = (*Dataset)(nil)
