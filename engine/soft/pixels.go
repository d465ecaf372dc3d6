package soft

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"github.com/zappa672/RLIDisplay/engine"
	"github.com/zappa672/RLIDisplay/render"
	"github.com/zappa672/RLIDisplay/s52"
	"github.com/zappa672/RLIDisplay/shader"
)

var (
	// ErrUnsupportedFrame is returned when a frame has no pixel access.
	ErrUnsupportedFrame = errors.New("soft: frame has no pixel access")

	// ErrDestroyed is returned by Draw after Destroy.
	ErrDestroyed = errors.New("soft: engine destroyed")
)

// Colors resolves colour tokens; s52.References satisfies it.
type Colors interface {
	Color(ref string) (color.RGBA, bool)
}

// Fallback colours for tokens the reference does not know.
var (
	fallbackFill = color.RGBA{R: 127, G: 127, B: 127, A: 255}
	fallbackInk  = color.RGBA{A: 255}
)

func resolve(refs Colors, token string, fallback color.RGBA) color.RGBA {
	if refs == nil || token == "" {
		return fallback
	}
	if c, ok := refs.Color(token); ok {
		return c
	}
	return fallback
}

func pixels(frame render.Frame) (*image.RGBA, error) {
	pf, ok := frame.(render.PixelFrame)
	if !ok || pf.Image() == nil {
		return nil, ErrUnsupportedFrame
	}
	return pf.Image(), nil
}

func checkProgram(p shader.Program, c s52.Class) error {
	if p != nil && p.Class() != c {
		return fmt.Errorf("soft: %s engine drawn with %s program", c, p.Class())
	}
	return nil
}

// tile repeats one atlas cell over the whole plane.
type tile struct {
	src *image.RGBA
	r   image.Rectangle
}

func (t tile) ColorModel() color.Model { return color.RGBAModel }

func (t tile) Bounds() image.Rectangle {
	return image.Rect(-1<<24, -1<<24, 1<<24, 1<<24)
}

func (t tile) At(x, y int) color.Color {
	return t.src.RGBAAt(t.r.Min.X+mod(x, t.r.Dx()), t.r.Min.Y+mod(y, t.r.Dy()))
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

// pointEpsilon is the extent given to points in the R-tree, which rejects
// zero-size rectangles.
const pointEpsilon = 1e-9

type pointItem struct {
	idx int
	at  orb.Point
}

func (p pointItem) Bounds() rtreego.Rect {
	r, _ := rtreego.NewRect(rtreego.Point{p.at[0], p.at[1]}, []float64{pointEpsilon, pointEpsilon})
	return r
}

func indexPoints(pts []orb.Point) *rtreego.Rtree {
	tree := rtreego.NewTree(2, 25, 50)
	for i, p := range pts {
		tree.Insert(pointItem{idx: i, at: p})
	}
	return tree
}

// visiblePoints returns the indices of the indexed points inside the view,
// padded by pad pixels, in insertion order.
func visiblePoints(tree *rtreego.Rtree, view engine.View, width, height int, pad float64) []int {
	if tree == nil || tree.Size() == 0 {
		return nil
	}
	s := view.Scale(width, height)
	if s == 0 {
		return nil
	}
	b := view.Bound(width, height).Pad(pad / s)
	lx, ly := math.Max(b.Max[0]-b.Min[0], pointEpsilon), math.Max(b.Max[1]-b.Min[1], pointEpsilon)
	rect, err := rtreego.NewRect(rtreego.Point{b.Min[0], b.Min[1]}, []float64{lx, ly})
	if err != nil {
		return nil
	}
	hits := tree.SearchIntersect(rect)
	idx := make([]int, 0, len(hits))
	for _, h := range hits {
		idx = append(idx, h.(pointItem).idx)
	}
	slices.Sort(idx)
	return idx
}
