package model

import "errors"

// ErrInvalidDelivery is returned by Validate and wraps the failing rule.
var (
	ErrInvalidDelivery = errors.New("invalid delivery")
	ErrUnknownExtra    = errors.New("unknown extra")
)
