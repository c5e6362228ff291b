package repository

import "errors"

// Sentinel kinds for record store errors.
var (
	ErrNotFound          = errors.New("delivery not found")
	ErrDuplicateDelivery = errors.New("delivery already recorded")
	ErrInvalidLimit      = errors.New("invalid delivery limit")
	ErrUnknownDriver     = errors.New("unknown store driver")
	ErrClosed            = errors.New("store closed")
)
