package geometry

import "fmt"

// Size is the fixed logical size of a widget. Mapper geometry is expressed in
// this space regardless of how large the widget is rendered on screen.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Box is the rendered bounding box of a widget in device pixels.
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PointerEvent is a click in device pixels together with the bounding box of
// the widget that received it.
type PointerEvent struct {
	ClientX float64 `json:"client_x"`
	ClientY float64 `json:"client_y"`
	Box     Box     `json:"box"`
}

// Viewport scales device coordinates into a widget's logical space.
type Viewport struct {
	size Size
}

// NewViewport returns a viewport for a widget of the given logical size.
func NewViewport(size Size) (Viewport, error) {
	if !(size.Width > 0 && size.Height > 0) || !isFinite(size.Width) || !isFinite(size.Height) {
		return Viewport{}, fmt.Errorf("widget size %vx%v: %w", size.Width, size.Height, ErrDegenerateViewport)
	}
	return Viewport{size: size}, nil
}

// Size returns the logical widget size.
func (v Viewport) Size() Size { return v.size }

// ToLocal converts a pointer event to widget-local coordinates:
//
//	localX = (clientX - box.Left) / box.Width * widget.Width
//
// and likewise for Y.
func (v Viewport) ToLocal(ev PointerEvent) (Point, error) {
	b := ev.Box
	if !(b.Width > 0 && b.Height > 0) || !isFinite(b.Width) || !isFinite(b.Height) {
		return Point{}, fmt.Errorf("bounding box %vx%v: %w", b.Width, b.Height, ErrDegenerateViewport)
	}
	p := Point{
		X: (ev.ClientX - b.Left) / b.Width * v.size.Width,
		Y: (ev.ClientY - b.Top) / b.Height * v.size.Height,
	}
	if !p.Finite() {
		return Point{}, fmt.Errorf("pointer (%v,%v): %w", ev.ClientX, ev.ClientY, ErrInvalidPointer)
	}
	return p, nil
}
