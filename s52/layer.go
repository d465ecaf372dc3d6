package s52

import "github.com/paulmach/orb"

// Area is a filled polygon, optionally overlaid with a fill pattern.
type Area struct {
	Polygon orb.Polygon
	Color   string
	Pattern string
}

// AreaLayer holds the areas of one named layer.
type AreaLayer struct {
	Areas []Area
}

// Bound returns the bounding box of every area in the layer.
func (l *AreaLayer) Bound() orb.Bound {
	var b boundBuilder
	for _, a := range l.Areas {
		b.add(a.Polygon.Bound())
	}
	return b.bound()
}

// Line is a polyline drawn with a colour and an optional line style.
type Line struct {
	Path  orb.LineString
	Color string
	Style string
	Width float64
}

// LineLayer holds the lines of one named layer.
type LineLayer struct {
	Lines []Line
}

// Bound returns the bounding box of every line in the layer.
func (l *LineLayer) Bound() orb.Bound {
	var b boundBuilder
	for _, ln := range l.Lines {
		b.add(ln.Path.Bound())
	}
	return b.bound()
}

// Mark is a point symbol. Rotation is in degrees clockwise from north.
type Mark struct {
	At       orb.Point
	Symbol   string
	Rotation float64
}

// MarkLayer holds the point symbols of one named layer.
type MarkLayer struct {
	Marks []Mark
}

// Bound returns the bounding box of every mark in the layer.
func (l *MarkLayer) Bound() orb.Bound {
	var b boundBuilder
	for _, m := range l.Marks {
		b.add(m.At.Bound())
	}
	return b.bound()
}

// Label is a text annotation anchored at a point. Size is in pixels.
type Label struct {
	At    orb.Point
	Text  string
	Color string
	Size  float64
}

// TextLayer holds the labels of one named layer.
type TextLayer struct {
	Labels []Label
}

// Sounding is a single depth measurement in metres.
type Sounding struct {
	At    orb.Point
	Depth float64
}

// SoundingLayer holds every sounding of a chart. A chart carries at most one.
type SoundingLayer struct {
	Soundings []Sounding
}

// Bound returns the bounding box of every sounding.
func (l *SoundingLayer) Bound() orb.Bound {
	var b boundBuilder
	for _, s := range l.Soundings {
		b.add(s.At.Bound())
	}
	return b.bound()
}

type boundBuilder struct {
	b   orb.Bound
	set bool
}

func (bb *boundBuilder) add(b orb.Bound) {
	if !bb.set {
		bb.b, bb.set = b, true
		return
	}
	bb.b = bb.b.Union(b)
}

func (bb *boundBuilder) bound() orb.Bound {
	return bb.b
}
