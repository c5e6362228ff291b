package field

import (
	"errors"

	"github.com/okian/cricscore/internal/domain/geometry"
)

// Sentinel kinds for field errors.
var (
	ErrDegenerateGeometry = geometry.ErrDegenerateGeometry
	ErrUnknownCategory    = errors.New("unknown field category")
)
