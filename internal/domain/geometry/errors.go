package geometry

import "errors"

// Sentinel kinds for geometry errors.
var (
	ErrDegenerateGeometry = errors.New("degenerate geometry")
	ErrDegenerateViewport = errors.New("degenerate viewport")
	ErrInvalidPointer     = errors.New("invalid pointer coordinates")
)
