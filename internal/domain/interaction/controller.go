// Package interaction holds the per-widget click state machine that sits
// between a pointer and a classifier.
package interaction

import (
	"fmt"

	"github.com/okian/cricscore/internal/domain/geometry"
)

// State of a controller.
type State int

const (
	Idle State = iota
	Marked
)

func (s State) String() string {
	if s == Marked {
		return "marked"
	}
	return "idle"
}

// MarshalText encodes the state name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "idle":
		*s = Idle
	case "marked":
		*s = Marked
	default:
		return fmt.Errorf("state %q: %w", b, ErrUnknownState)
	}
	return nil
}

// Classifier maps a widget-local point to a result. ok is false for points
// outside the recordable area.
type Classifier[R any] interface {
	Classify(p geometry.Point) (R, bool)
}

// Controller tracks the last successful classification of one widget.
// It is not safe for concurrent use.
type Controller[R any] struct {
	classifier Classifier[R]
	viewport   geometry.Viewport

	state      State
	mark       R
	onClass    func(R)
	delivering bool

	token    uint64
	hasToken bool
}

// New returns an Idle controller for a widget of the given logical size.
func New[R any](c Classifier[R], size geometry.Size) (*Controller[R], error) {
	vp, err := geometry.NewViewport(size)
	if err != nil {
		return nil, err
	}
	return &Controller[R]{classifier: c, viewport: vp}, nil
}

// OnClassified sets the callback invoked after every successful click.
// A nil fn removes it.
func (c *Controller[R]) OnClassified(fn func(R)) { c.onClass = fn }

// Click converts a pointer event into widget space and classifies it.
// accepted is false when the point is outside the recordable area, in which
// case nothing changes.
func (c *Controller[R]) Click(ev geometry.PointerEvent) (result R, accepted bool, err error) {
	if c.delivering {
		return result, false, ErrReentrantClick
	}
	p, err := c.viewport.ToLocal(ev)
	if err != nil {
		return result, false, err
	}
	return c.ClickLocal(p)
}

// ClickLocal classifies a point already in widget space.
func (c *Controller[R]) ClickLocal(p geometry.Point) (result R, accepted bool, err error) {
	if c.delivering {
		return result, false, ErrReentrantClick
	}
	r, ok := c.classifier.Classify(p)
	if !ok {
		return result, false, nil
	}
	c.mark = r
	c.state = Marked
	if c.onClass != nil {
		c.delivering = true
		defer func() { c.delivering = false }()
		c.onClass(r)
	}
	return r, true, nil
}

// ObserveReset clears the mark when token differs from the last one seen.
// The first observation always clears.
func (c *Controller[R]) ObserveReset(token uint64) {
	if c.hasToken && c.token == token {
		return
	}
	c.token = token
	c.hasToken = true
	c.clear()
}

func (c *Controller[R]) clear() {
	var zero R
	c.mark = zero
	c.state = Idle
}

// State returns the current state.
func (c *Controller[R]) State() State { return c.state }

// Mark returns the displayed classification, if any.
func (c *Controller[R]) Mark() (R, bool) { return c.mark, c.state == Marked }

// Viewport returns the widget viewport.
func (c *Controller[R]) Viewport() geometry.Viewport { return c.viewport }
