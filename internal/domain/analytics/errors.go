package analytics

import "errors"

// ErrUnknownOp is returned for a job with no handler.
var ErrUnknownOp = errors.New("unknown analytics op")
