package api

import (
	"context"
	"net/http"

	"github.com/okian/cricscore/internal/domain/field"
	"github.com/okian/cricscore/internal/domain/geometry"
	"github.com/okian/cricscore/internal/domain/pitch"
)

// ClassifyDependencies classifies widget-local points without a session.
type ClassifyDependencies interface {
	ClassifyPitch(ctx context.Context, p geometry.Point) (pitch.Result, bool, error)
	ClassifyField(ctx context.Context, p geometry.Point) (field.Result, bool, error)
}

// ClassifyHandler handles stateless classification requests.
type ClassifyHandler struct {
	deps ClassifyDependencies
}

// NewClassifyHandler creates a new classify handler.
func NewClassifyHandler(deps ClassifyDependencies) *ClassifyHandler {
	return &ClassifyHandler{deps: deps}
}

// HandlePitch handles POST /classify/pitch. A point off the pitch answers 204.
func (h *ClassifyHandler) HandlePitch(w http.ResponseWriter, r *http.Request) {
	const op = "api.classify_pitch"
	var p geometry.Point
	if err := decodeJSON(w, r, &p, false); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	res, ok, err := h.deps.ClassifyPitch(r.Context(), p)
	writeClassified(w, op, res, ok, err)
}

// HandleField handles POST /classify/field. A point outside the boundary
// answers 204.
func (h *ClassifyHandler) HandleField(w http.ResponseWriter, r *http.Request) {
	const op = "api.classify_field"
	var p geometry.Point
	if err := decodeJSON(w, r, &p, false); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	res, ok, err := h.deps.ClassifyField(r.Context(), p)
	writeClassified(w, op, res, ok, err)
}

func writeClassified[R any](w http.ResponseWriter, op string, res R, ok bool, err error) {
	switch {
	case err != nil:
		writeServiceError(w, op, err)
	case !ok:
		w.WriteHeader(http.StatusNoContent)
	default:
		writeJSON(w, http.StatusOK, res)
	}
}
