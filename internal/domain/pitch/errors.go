package pitch

import (
	"errors"

	"github.com/okian/cricscore/internal/domain/geometry"
)

// Sentinel kinds for pitch errors.
var (
	ErrDegenerateGeometry = geometry.ErrDegenerateGeometry
	ErrUnknownCategory    = errors.New("unknown pitch category")
)
