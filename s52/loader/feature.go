package loader

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/zappa672/RLIDisplay/s52"
)

// Property keys read from feature attributes. Keys are matched
// case-insensitively.
const (
	PropLayer    = "LAYER"
	PropColor    = "COLOUR"
	PropPattern  = "PATTERN"
	PropStyle    = "STYLE"
	PropWidth    = "WIDTH"
	PropSymbol   = "SYMBOL"
	PropRotation = "ORIENT"
	PropText     = "TEXT"
	PropName     = "OBJNAM"
	PropSize     = "SIZE"
	PropDepth    = "DEPTH"
	PropSounding = "VALSOU"
	PropDepthMin = "DRVAL1"
)

// SoundingLayer is the layer name whose points are soundings.
const SoundingLayer = "SOUNDG"

// Defaults for features that do not name their own presentation.
const (
	DefaultLineColor  = "CHBLK"
	DefaultTextColor  = "CHBLK"
	DefaultSymbol     = "QUESMRK1"
	DefaultAreaColor  = "NODTA"
	DefaultLineWidth  = 1
	DefaultLabelSize  = 12
	defaultDepthColor = "DEPDW"
)

var layerColors = map[string]string{
	"LNDARE": "LANDA",
	"COALNE": "CSTLN",
	"SLCONS": "CSTLN",
	"DEPCNT": "DEPCN",
	"NAVLNE": "CHGRD",
	"RECTRC": "CHGRD",
	"RESARE": "CHMGD",
	"CTNARE": "CHMGD",
}

// Properties are the attributes of one feature.
type Properties map[string]any

// String returns the trimmed text value of key.
func (p Properties) String(key string) string {
	v, ok := p.lookup(key)
	if !ok || v == nil {
		return ""
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	default:
		s = fmt.Sprint(t)
	}
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}

// Float returns the numeric value of key.
func (p Properties) Float(key string) (float64, bool) {
	v, ok := p.lookup(key)
	if !ok || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	s := p.String(key)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func (p Properties) lookup(key string) (any, bool) {
	if v, ok := p[key]; ok {
		return v, true
	}
	for k, v := range p {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// builder sorts features into a dataset.
type builder struct {
	d       *s52.Dataset
	skipped int
}

// add places one feature. fallbackLayer names the layer when the feature
// has no LAYER property; z is the point elevation when the source has one.
func (b *builder) add(g orb.Geometry, props Properties, fallbackLayer string) {
	layer := strings.ToUpper(props.String(PropLayer))
	if layer == "" {
		layer = strings.ToUpper(fallbackLayer)
	}
	if layer == "" || g == nil {
		b.skipped++
		return
	}

	switch geom := g.(type) {
	case orb.Polygon:
		b.addArea(layer, geom, props)
	case orb.MultiPolygon:
		for _, p := range geom {
			b.addArea(layer, p, props)
		}
	case orb.Ring:
		b.addArea(layer, orb.Polygon{geom}, props)
	case orb.LineString:
		b.addLine(layer, geom, props)
	case orb.MultiLineString:
		for _, ls := range geom {
			b.addLine(layer, ls, props)
		}
	case orb.Point:
		b.addPoint(layer, geom, props, nil)
	case orb.MultiPoint:
		for _, p := range geom {
			b.addPoint(layer, p, props, nil)
		}
	case orb.Collection:
		for _, sub := range geom {
			b.add(sub, props, layer)
		}
	default:
		b.skipped++
	}
}

func (b *builder) addArea(layer string, p orb.Polygon, props Properties) {
	if len(p) == 0 || len(p[0]) < 3 {
		b.skipped++
		return
	}
	b.d.AddArea(layer, s52.Area{
		Polygon: p,
		Color:   areaColor(layer, props),
		Pattern: props.String(PropPattern),
	})
}

func (b *builder) addLine(layer string, ls orb.LineString, props Properties) {
	if len(ls) < 2 {
		b.skipped++
		return
	}
	width, ok := props.Float(PropWidth)
	if !ok || width <= 0 {
		width = DefaultLineWidth
	}
	b.d.AddLine(layer, s52.Line{
		Path:  ls,
		Color: colorOr(props, layerColorOr(layer, DefaultLineColor)),
		Style: props.String(PropStyle),
		Width: width,
	})
}

// addPoint places a point; z overrides the depth attributes of soundings.
func (b *builder) addPoint(layer string, p orb.Point, props Properties, z *float64) {
	if layer == SoundingLayer {
		depth, ok := soundingDepth(props)
		if z != nil {
			depth, ok = *z, true
		}
		if !ok {
			b.skipped++
			return
		}
		b.d.AddSounding(s52.Sounding{At: p, Depth: depth})
		return
	}

	symbol := props.String(PropSymbol)
	text := props.String(PropText)
	if text == "" {
		text = props.String(PropName)
	}
	if symbol != "" || text == "" {
		if symbol == "" {
			symbol = DefaultSymbol
		}
		rot, _ := props.Float(PropRotation)
		b.d.AddMark(layer, s52.Mark{At: p, Symbol: symbol, Rotation: rot})
	}
	if text != "" {
		size, ok := props.Float(PropSize)
		if !ok || size <= 0 {
			size = DefaultLabelSize
		}
		b.d.AddLabel(layer, s52.Label{At: p, Text: text, Color: colorOr(props, DefaultTextColor), Size: size})
	}
}

func soundingDepth(props Properties) (float64, bool) {
	if d, ok := props.Float(PropDepth); ok {
		return d, true
	}
	return props.Float(PropSounding)
}

func areaColor(layer string, props Properties) string {
	if c := props.String(PropColor); c != "" {
		return c
	}
	if layer == "DEPARE" || layer == "DRGARE" {
		if d, ok := props.Float(PropDepthMin); ok {
			return DepthColor(d)
		}
		return defaultDepthColor
	}
	return layerColorOr(layer, DefaultAreaColor)
}

// DepthColor returns the depth area colour token for a minimum depth in
// metres.
func DepthColor(depth float64) string {
	switch {
	case depth < 0:
		return "DEPIT"
	case depth < 2:
		return "DEPVS"
	case depth < 10:
		return "DEPMS"
	case depth < 30:
		return "DEPMD"
	default:
		return "DEPDW"
	}
}

func colorOr(props Properties, fallback string) string {
	if c := props.String(PropColor); c != "" {
		return c
	}
	return fallback
}

func layerColorOr(layer, fallback string) string {
	if c, ok := layerColors[layer]; ok {
		return c
	}
	return fallback
}
