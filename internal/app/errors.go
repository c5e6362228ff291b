package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted       = errors.New("service not started")
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidSession   = errors.New("invalid session")
	ErrAlreadyCommitted = errors.New("delivery already committed")
	ErrStaleDraft       = errors.New("draft is no longer current")
	ErrUnknownReference = errors.New("unknown reference entry")
	ErrNothingToUndo    = errors.New("nothing to undo")
)
