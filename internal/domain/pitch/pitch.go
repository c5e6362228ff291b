// Package pitch maps a click on the perspective-drawn pitch to a length zone
// and a line column.
package pitch

import (
	"fmt"
	"math"

	"github.com/okian/cricscore/internal/domain/geometry"
)

// Trapezoid is the drawn pitch. The near edge (batter's end) is wide and the
// far edge (bowler's end) narrow; both edges are horizontal in widget space.
type Trapezoid struct {
	NearLeft  geometry.Point `json:"near_left" koanf:"near_left"`
	NearRight geometry.Point `json:"near_right" koanf:"near_right"`
	FarRight  geometry.Point `json:"far_right" koanf:"far_right"`
	FarLeft   geometry.Point `json:"far_left" koanf:"far_left"`
}

// Default widget layout.
const (
	DefaultWidth       = 460
	DefaultHeight      = 500
	defaultNearWidth   = 260
	defaultFarWidth    = 90
	defaultLength      = 360
	defaultNearYOffset = 90
)

// DefaultSize is the logical size of the pitch map widget.
func DefaultSize() geometry.Size {
	return geometry.Size{Width: DefaultWidth, Height: DefaultHeight}
}

// DefaultTrapezoid returns the stock pitch drawing centred in the widget.
func DefaultTrapezoid() Trapezoid {
	cx := float64(DefaultWidth) / 2
	nearY := float64(DefaultHeight - defaultNearYOffset)
	farY := nearY - defaultLength
	return Trapezoid{
		NearLeft:  geometry.Pt(cx-defaultNearWidth/2, nearY),
		NearRight: geometry.Pt(cx+defaultNearWidth/2, nearY),
		FarRight:  geometry.Pt(cx+defaultFarWidth/2, farY),
		FarLeft:   geometry.Pt(cx-defaultFarWidth/2, farY),
	}
}

// Corners returns the corners in drawing order: near-left, near-right,
// far-right, far-left.
func (t Trapezoid) Corners() [4]geometry.Point {
	return [4]geometry.Point{t.NearLeft, t.NearRight, t.FarRight, t.FarLeft}
}

func (t Trapezoid) validate() error {
	for _, c := range t.Corners() {
		if !c.Finite() {
			return fmt.Errorf("corner (%v,%v) is not finite: %w", c.X, c.Y, ErrDegenerateGeometry)
		}
	}
	switch {
	case t.NearLeft.Y != t.NearRight.Y:
		return fmt.Errorf("near edge is not horizontal: %w", ErrDegenerateGeometry)
	case t.FarLeft.Y != t.FarRight.Y:
		return fmt.Errorf("far edge is not horizontal: %w", ErrDegenerateGeometry)
	case t.NearLeft.Y == t.FarLeft.Y:
		return fmt.Errorf("pitch has zero length: %w", ErrDegenerateGeometry)
	case t.NearRight.X <= t.NearLeft.X:
		return fmt.Errorf("near edge has no width: %w", ErrDegenerateGeometry)
	case t.FarRight.X <= t.FarLeft.X:
		return fmt.Errorf("far edge has no width: %w", ErrDegenerateGeometry)
	}
	return nil
}

// Result is a successful pitch classification. Zone and column always come
// together; a click outside the pitch produces no Result at all.
type Result struct {
	LengthZone LengthZone `json:"length_zone"`
	LineColumn LineColumn `json:"line_column"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
}

// Point returns the classified click position.
func (r Result) Point() geometry.Point { return geometry.Pt(r.X, r.Y) }

// Mapper classifies clicks against a fixed trapezoid.
type Mapper struct {
	t     Trapezoid
	farY  float64
	nearY float64
}

// New validates t and returns a Mapper for it.
func New(t Trapezoid) (*Mapper, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &Mapper{t: t, farY: t.FarLeft.Y, nearY: t.NearLeft.Y}, nil
}

// Trapezoid returns the mapper geometry.
func (m *Mapper) Trapezoid() Trapezoid { return m.t }

// Classify maps a widget-local point to a zone and column. ok is false when
// the point lies above, below or beside the pitch.
func (m *Mapper) Classify(p geometry.Point) (Result, bool) {
	span := m.nearY - m.farY
	fracY := (p.Y - m.farY) / span
	if !(fracY >= 0 && fracY <= 1) {
		return Result{}, false
	}
	left, right := m.edgesAt(fracY)
	if !(p.X >= left && p.X <= right) {
		return Result{}, false
	}

	// floor(fracY*6) and floor(fracX*5), scaled before dividing so that a
	// click on an exact boundary lands on the integer.
	row := bucket((p.Y-m.farY)*ZoneCount/span, ZoneCount)
	col := bucket((p.X-left)*ColumnCount/(right-left), ColumnCount)
	if row < 0 || col < 0 {
		return Result{}, false
	}
	return Result{
		LengthZone: LengthZone(row),
		LineColumn: LineColumn(col),
		X:          p.X,
		Y:          p.Y,
	}, true
}

// edgesAt returns the left and right pitch x at a fraction of the way from
// the far edge to the near edge.
func (m *Mapper) edgesAt(fracY float64) (left, right float64) {
	left = geometry.Lerp(m.t.FarLeft, m.t.NearLeft, fracY).X
	right = geometry.Lerp(m.t.FarRight, m.t.NearRight, fracY).X
	return left, right
}

// bucket floors scaled into [0,n). Exactly n belongs to the last bucket;
// anything else out of range is -1.
func bucket(scaled float64, n int) int {
	if math.IsNaN(scaled) {
		return -1
	}
	idx := int(math.Floor(scaled))
	if idx == n {
		idx = n - 1
	}
	if idx < 0 || idx >= n {
		return -1
	}
	return idx
}

// ZoneBand returns the quad covering zone z: far-left, far-right, near-right,
// near-left of the band.
func (m *Mapper) ZoneBand(z LengthZone) [4]geometry.Point {
	t0 := float64(z) / ZoneCount
	t1 := float64(z+1) / ZoneCount
	return [4]geometry.Point{
		geometry.Lerp(m.t.FarLeft, m.t.NearLeft, t0),
		geometry.Lerp(m.t.FarRight, m.t.NearRight, t0),
		geometry.Lerp(m.t.FarRight, m.t.NearRight, t1),
		geometry.Lerp(m.t.FarLeft, m.t.NearLeft, t1),
	}
}

// ZoneBoundary returns the line between zone i-1 and zone i, for i in [1,5].
func (m *Mapper) ZoneBoundary(i int) (geometry.Point, geometry.Point) {
	t := float64(i) / ZoneCount
	return geometry.Lerp(m.t.FarLeft, m.t.NearLeft, t), geometry.Lerp(m.t.FarRight, m.t.NearRight, t)
}

// ColumnBoundary returns the line between column i-1 and column i, for i in [1,4].
func (m *Mapper) ColumnBoundary(i int) (geometry.Point, geometry.Point) {
	t := float64(i) / ColumnCount
	return geometry.Lerp(m.t.FarLeft, m.t.FarRight, t), geometry.Lerp(m.t.NearLeft, m.t.NearRight, t)
}

// ZoneLabelAnchor is the left-edge point level with the middle of zone z.
func (m *Mapper) ZoneLabelAnchor(z LengthZone) geometry.Point {
	return geometry.Lerp(m.t.FarLeft, m.t.NearLeft, (float64(z)+0.5)/ZoneCount)
}

// ColumnLabelAnchor is the near-edge point below the middle of column c.
func (m *Mapper) ColumnLabelAnchor(c LineColumn) geometry.Point {
	return geometry.Lerp(m.t.NearLeft, m.t.NearRight, (float64(c)+0.5)/ColumnCount)
}
