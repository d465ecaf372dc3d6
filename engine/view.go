package engine

import (
	"math"

	"github.com/paulmach/orb"
)

// View is the pose a frame is drawn with.
type View struct {
	// Center is the chart point drawn at the canvas centre.
	Center orb.Point

	// Radius is the chart distance from the centre to the nearest canvas
	// edge.
	Radius float64

	// Angle rotates the chart clockwise, in degrees.
	Angle float64
}

// DefaultView is the pose before the first update.
func DefaultView() View {
	return View{Center: orb.Point{0, 0}, Radius: 10, Angle: 0}
}

// Scale returns pixels per chart unit on a width x height canvas.
func (v View) Scale(width, height int) float64 {
	if v.Radius <= 0 {
		return 0
	}
	return float64(min(width, height)) / 2 / v.Radius
}

// Project maps a chart point to canvas pixels. Chart y grows north, canvas
// y grows down.
func (v View) Project(p orb.Point, width, height int) (x, y float64) {
	s := v.Scale(width, height)
	dx, dy := p[0]-v.Center[0], p[1]-v.Center[1]
	sin, cos := math.Sincos(v.Angle * math.Pi / 180)
	rx := dx*cos + dy*sin
	ry := -dx*sin + dy*cos
	return float64(width)/2 + rx*s, float64(height)/2 - ry*s
}

// Unproject is the inverse of Project.
func (v View) Unproject(x, y float64, width, height int) orb.Point {
	s := v.Scale(width, height)
	if s == 0 {
		return v.Center
	}
	rx := (x - float64(width)/2) / s
	ry := (float64(height)/2 - y) / s
	sin, cos := math.Sincos(v.Angle * math.Pi / 180)
	return orb.Point{
		v.Center[0] + rx*cos - ry*sin,
		v.Center[1] + rx*sin + ry*cos,
	}
}

// Bound returns the chart area visible on the canvas, including the corners
// uncovered by rotation.
func (v View) Bound(width, height int) orb.Bound {
	b := orb.Bound{Min: v.Center, Max: v.Center}
	for _, c := range [][2]float64{{0, 0}, {float64(width), 0}, {0, float64(height)}, {float64(width), float64(height)}} {
		b = b.Extend(v.Unproject(c[0], c[1], width, height))
	}
	return b
}
