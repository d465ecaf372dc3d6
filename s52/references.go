package s52

import (
	"fmt"
	"image"
	"image/color"
	"slices"
	"sort"
)

// ColorNoData is the colour token used for the chart background.
const ColorNoData = "NODTA"

// AtlasKind selects one of the symbology texture atlases.
type AtlasKind int

const (
	AtlasPattern AtlasKind = iota // area fill patterns
	AtlasLine                     // complex line styles
	AtlasSymbol                   // point symbols, also used for soundings
)

// String returns the atlas name.
func (k AtlasKind) String() string {
	switch k {
	case AtlasPattern:
		return "pattern"
	case AtlasLine:
		return "line"
	case AtlasSymbol:
		return "symbol"
	default:
		return fmt.Sprintf("atlas(%d)", int(k))
	}
}

// AtlasImage is a symbology texture atlas: one image plus the location of
// every named element inside it.
type AtlasImage struct {
	Image   image.Image
	Entries map[string]image.Rectangle
}

// Lookup returns the atlas rectangle of the named element.
func (a *AtlasImage) Lookup(name string) (image.Rectangle, bool) {
	if a == nil {
		return image.Rectangle{}, false
	}
	r, ok := a.Entries[name]
	return r, ok
}

// References is the symbology reference: colour tables and texture atlases
// keyed by a selectable colour scheme.
type References interface {
	// Color resolves a colour token in the current colour scheme.
	Color(ref string) (color.RGBA, bool)

	// ColorScheme returns the identifier of the current colour scheme.
	ColorScheme() string

	// ColorSchemes lists every scheme the reference knows about.
	ColorSchemes() []string

	// Atlas returns the atlas of the given kind for a scheme, or nil.
	Atlas(kind AtlasKind, scheme string) *AtlasImage
}

// Palette is an in-memory References implementation.
type Palette struct {
	current string
	tables  map[string]map[string]color.RGBA
	atlases map[atlasKey]*AtlasImage
}

type atlasKey struct {
	kind   AtlasKind
	scheme string
}

// NewPalette returns an empty palette whose current scheme is scheme.
func NewPalette(scheme string) *Palette {
	return &Palette{
		current: scheme,
		tables:  make(map[string]map[string]color.RGBA),
		atlases: make(map[atlasKey]*AtlasImage),
	}
}

// SetColors installs (or replaces) the colour table of a scheme.
func (p *Palette) SetColors(scheme string, colors map[string]color.RGBA) {
	t := make(map[string]color.RGBA, len(colors))
	for k, v := range colors {
		t[k] = v
	}
	p.tables[scheme] = t
}

// SetAtlas installs the atlas of the given kind for a scheme.
func (p *Palette) SetAtlas(kind AtlasKind, scheme string, a *AtlasImage) {
	p.atlases[atlasKey{kind, scheme}] = a
}

// SetColorScheme switches the current scheme. The scheme must have a colour
// table.
func (p *Palette) SetColorScheme(scheme string) error {
	if _, ok := p.tables[scheme]; !ok {
		return fmt.Errorf("s52: unknown colour scheme %q", scheme)
	}
	p.current = scheme
	return nil
}

func (p *Palette) Color(ref string) (color.RGBA, bool) {
	c, ok := p.tables[p.current][ref]
	return c, ok
}

func (p *Palette) ColorScheme() string { return p.current }

func (p *Palette) ColorSchemes() []string {
	seen := make(map[string]struct{}, len(p.tables))
	for s := range p.tables {
		seen[s] = struct{}{}
	}
	for k := range p.atlases {
		seen[k.scheme] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func (p *Palette) Atlas(kind AtlasKind, scheme string) *AtlasImage {
	return p.atlases[atlasKey{kind, scheme}]
}

// Standard colour scheme identifiers.
const (
	SchemeDay   = "DAY_BRIGHT"
	SchemeDusk  = "DUSK"
	SchemeNight = "NIGHT"
)

// DefaultPalette returns a palette with the colour tokens used by the
// loaders and the software engines for the day, dusk and night schemes, plus
// generated symbol, pattern and line atlases. The current scheme is day.
func DefaultPalette() *Palette {
	p := NewPalette(SchemeDay)
	day := map[string]color.RGBA{
		ColorNoData: {163, 180, 183, 255},
		"DEPIT":     {131, 178, 149, 255},
		"DEPVS":     {115, 182, 239, 255},
		"DEPMS":     {152, 197, 242, 255},
		"DEPMD":     {186, 213, 225, 255},
		"DEPDW":     {212, 234, 238, 255},
		"LANDA":     {201, 185, 122, 255},
		"CSTLN":     {82, 90, 92, 255},
		"DEPCN":     {125, 137, 140, 255},
		"CHBLK":     {0, 0, 0, 255},
		"CHGRD":     {125, 137, 140, 255},
		"CHMGD":     {197, 69, 195, 255},
		"CHRED":     {241, 84, 105, 255},
		"CHGRN":     {104, 228, 86, 255},
		"SNDG1":     {125, 137, 140, 255},
		"SNDG2":     {7, 7, 7, 255},
		"NINFO":     {163, 82, 42, 255},
	}
	p.SetColors(SchemeDay, day)
	p.SetColors(SchemeDusk, scaleTable(day, 0.55))
	p.SetColors(SchemeNight, scaleTable(day, 0.2))
	for _, s := range []string{SchemeDay, SchemeDusk, SchemeNight} {
		t := p.tables[s]
		p.SetAtlas(AtlasSymbol, s, solidAtlas(symbolNames, t["CHBLK"], 8))
		p.SetAtlas(AtlasPattern, s, solidAtlas(patternNames, t["CHGRD"], 8))
		p.SetAtlas(AtlasLine, s, solidAtlas(lineStyleNames, t["CHMGD"], 8))
	}
	return p
}

var (
	symbolNames    = []string{"BOYLAT01", "BOYCAR01", "BCNSTK02", "LIGHTS11", "WRECKS01", "ROCKS01", "QUESMRK1"}
	patternNames   = []string{"DIAMOND1", "DQUALA11", "DRGARE01", "FOULAR01"}
	lineStyleNames = []string{"DWRTCL05", "NAVARE51", "RESARE51", "CTNARE51"}
)

func scaleTable(src map[string]color.RGBA, f float64) map[string]color.RGBA {
	out := make(map[string]color.RGBA, len(src))
	for k, c := range src {
		out[k] = color.RGBA{
			R: uint8(float64(c.R) * f),
			G: uint8(float64(c.G) * f),
			B: uint8(float64(c.B) * f),
			A: c.A,
		}
	}
	return out
}

// solidAtlas lays out cell x cell squares of a single colour, one per name,
// in a single row.
func solidAtlas(names []string, c color.RGBA, cell int) *AtlasImage {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	img := image.NewRGBA(image.Rect(0, 0, cell*len(sorted), cell))
	entries := make(map[string]image.Rectangle, len(sorted))
	for i, n := range sorted {
		r := image.Rect(i*cell, 0, (i+1)*cell, cell)
		for y := r.Min.Y + 1; y < r.Max.Y-1; y++ {
			for x := r.Min.X + 1; x < r.Max.X-1; x++ {
				img.SetRGBA(x, y, c)
			}
		}
		entries[n] = r
	}
	return &AtlasImage{Image: img, Entries: entries}
}

var _ References = (*Palette)(nil)
