// Package geometry provides the 2-D primitives shared by the pitch and field mappers.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// FullTurn is one full revolution in radians.
const FullTurn = 2 * math.Pi

// Point is a position in widget-local pixel space. Y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

func fromVec(v r2.Vec) Point { return Point{X: v.X, Y: v.Y} }

// Finite reports whether both coordinates are finite numbers.
func (p Point) Finite() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

// Lerp interpolates linearly from p0 to p1. t is not clamped, so values outside
// [0,1] extrapolate along the same line.
func Lerp(p0, p1 Point, t float64) Point {
	d := r2.Sub(p1.vec(), p0.vec())
	return fromVec(r2.Add(p0.vec(), r2.Scale(t, d)))
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return r2.Norm(r2.Sub(b.vec(), a.vec()))
}

// Polar returns the distance of point from center and its bearing in [0, 2π),
// measured clockwise from north (screen up). A point on the center has no
// bearing; it reports angle 0 so callers never see NaN.
func Polar(center, point Point) (radius, angle float64) {
	d := r2.Sub(point.vec(), center.vec())
	radius = r2.Norm(d)
	if radius == 0 {
		return 0, 0
	}
	// Screen y points down, so north is -y. atan2(east, north) gives a
	// clockwise bearing with 0 at north in (-π, π].
	angle = math.Atan2(d.X, -d.Y)
	if angle < 0 {
		angle += FullTurn
	}
	if angle >= FullTurn {
		angle = 0
	}
	return radius, angle
}

// FromPolar is the inverse of Polar.
func FromPolar(center Point, radius, angle float64) Point {
	return Point{
		X: center.X + radius*math.Sin(angle),
		Y: center.Y - radius*math.Cos(angle),
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
