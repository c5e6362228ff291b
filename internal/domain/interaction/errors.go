package interaction

import "errors"

// Sentinel kinds for interaction errors.
var (
	// ErrReentrantClick is returned when Click is called from inside the
	// OnClassified callback.
	ErrReentrantClick = errors.New("click while a classification is being delivered")
	ErrUnknownState   = errors.New("unknown controller state")
)
