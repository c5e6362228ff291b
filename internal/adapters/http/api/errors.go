package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/cricscore/internal/adapters/repository"
	service "github.com/okian/cricscore/internal/app"
	"github.com/okian/cricscore/internal/domain/geometry"
	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/internal/domain/reference"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrLimitExceeded = errors.New("limit exceeded")
)

// NewKind returns an error of the given kind raised by op.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind tags err with op and kind. Both kind and err stay matchable with
// errors.Is.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return NewKind(op, kind)
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// Wrap prefixes err with op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// errorClass maps a set of error kinds to a response status and code.
type errorClass struct {
	status int
	code   string
	kinds  []error
}

var errorClasses = []errorClass{
	{http.StatusServiceUnavailable, "unavailable", []error{service.ErrNotStarted}},
	{http.StatusNotFound, "not_found", []error{
		repository.ErrNotFound,
		service.ErrSessionNotFound,
		reference.ErrUnknownKind,
	}},
	{http.StatusConflict, "conflict", []error{
		repository.ErrDuplicateDelivery,
		service.ErrAlreadyCommitted,
		service.ErrStaleDraft,
		service.ErrNothingToUndo,
	}},
	{http.StatusBadRequest, "bad_request", []error{
		ErrBadRequest,
		ErrLimitExceeded,
		model.ErrInvalidDelivery,
		model.ErrUnknownExtra,
		service.ErrInvalidSession,
		service.ErrUnknownReference,
		reference.ErrUnknownEntry,
		repository.ErrInvalidLimit,
		geometry.ErrDegenerateViewport,
		geometry.ErrInvalidPointer,
	}},
}

// statusFor picks the response status and code for err.
func statusFor(err error) (int, string) {
	for _, c := range errorClasses {
		for _, k := range c.kinds {
			if errors.Is(err, k) {
				return c.status, c.code
			}
		}
	}
	return http.StatusInternalServerError, "internal_error"
}

// writeServiceError answers with the status matching err.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, Wrap(op, err))
}
