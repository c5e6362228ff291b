package reference

import "errors"

// Sentinel kinds for reference data errors.
var (
	ErrUnknownKind   = errors.New("unknown reference kind")
	ErrInvalidRoster = errors.New("invalid roster")
	ErrUnknownEntry  = errors.New("unknown reference entry")
)
