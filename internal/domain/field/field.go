// Package field maps a click on the wagon wheel to a field sector, keeping the
// raw polar coordinates for drawing the shot line.
package field

import (
	"fmt"
	"math"

	"github.com/okian/cricscore/internal/domain/geometry"
)

// SectorWidth is the angular width of one sector.
const SectorWidth = geometry.FullTurn / SectorCount

// Default widget layout.
const (
	DefaultSize        = 340
	DefaultRadius      = 150
	DefaultInnerRadius = 75
)

// Circle is the drawn field.
type Circle struct {
	Center      geometry.Point `json:"center"`
	Radius      float64        `json:"radius"`
	InnerRadius float64        `json:"inner_radius"`
}

// DefaultWidgetSize is the logical size of the wagon wheel widget.
func DefaultWidgetSize() geometry.Size {
	return geometry.Size{Width: DefaultSize, Height: DefaultSize}
}

// DefaultCircle returns the stock wagon wheel centred in the widget.
func DefaultCircle() Circle {
	c := float64(DefaultSize) / 2
	return Circle{
		Center:      geometry.Pt(c, c),
		Radius:      DefaultRadius,
		InnerRadius: DefaultInnerRadius,
	}
}

func (c Circle) validate() error {
	if !c.Center.Finite() {
		return fmt.Errorf("centre (%v,%v) is not finite: %w", c.Center.X, c.Center.Y, ErrDegenerateGeometry)
	}
	if !(c.Radius > 0) || math.IsInf(c.Radius, 0) {
		return fmt.Errorf("radius %v: %w", c.Radius, ErrDegenerateGeometry)
	}
	if !(c.InnerRadius >= 0 && c.InnerRadius <= c.Radius) {
		return fmt.Errorf("inner radius %v outside [0,%v]: %w", c.InnerRadius, c.Radius, ErrDegenerateGeometry)
	}
	return nil
}

// Result is a successful field classification.
type Result struct {
	Sector Sector  `json:"sector"`
	Radius float64 `json:"radius"`
	Angle  float64 `json:"angle"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Point returns the classified click position.
func (r Result) Point() geometry.Point { return geometry.Pt(r.X, r.Y) }

// Mapper classifies clicks against a fixed circle.
type Mapper struct {
	c Circle
}

// New validates c and returns a Mapper for it.
func New(c Circle) (*Mapper, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &Mapper{c: c}, nil
}

// Circle returns the mapper geometry.
func (m *Mapper) Circle() Circle { return m.c }

// Classify maps a widget-local point to a sector. Points on the boundary are
// inside; the centre itself has angle 0 and falls in FineLeg.
func (m *Mapper) Classify(p geometry.Point) (Result, bool) {
	radius, angle := geometry.Polar(m.c.Center, p)
	if !(radius <= m.c.Radius) {
		return Result{}, false
	}
	// Half-sector offset puts north in the middle of sector 0.
	idx := int(math.Floor((angle+SectorWidth/2)/SectorWidth)) % SectorCount
	return Result{
		Sector: Sector(idx),
		Radius: radius,
		Angle:  angle,
		X:      p.X,
		Y:      p.Y,
	}, true
}

// Ring reports whether r lies inside the fielding circle.
func (m *Mapper) Ring(r Result) Ring {
	if r.Radius <= m.c.InnerRadius {
		return Infield
	}
	return Outfield
}

// ShotEnd returns the end of the shot line drawn from the centre.
func (m *Mapper) ShotEnd(r Result) geometry.Point {
	return geometry.FromPolar(m.c.Center, r.Radius, r.Angle)
}

// SectorBoundary returns the spoke between sector s and the sector after it.
func (m *Mapper) SectorBoundary(s Sector) (geometry.Point, geometry.Point) {
	a := SectorWidth * (float64(s) + 0.5)
	return m.c.Center, geometry.FromPolar(m.c.Center, m.c.Radius, a)
}

// SectorLabelAnchor is the point in the middle of the outfield band of s.
func (m *Mapper) SectorLabelAnchor(s Sector) geometry.Point {
	r := (m.c.Radius + m.c.InnerRadius) / 2
	return geometry.FromPolar(m.c.Center, r, SectorWidth*float64(s))
}
