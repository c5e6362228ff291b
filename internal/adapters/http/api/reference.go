package api

import (
	"context"
	"net/http"

	"github.com/okian/cricscore/internal/domain/reference"
)

// ReferenceDependencies lists reference data.
type ReferenceDependencies interface {
	Reference(ctx context.Context, kind reference.Kind) ([]reference.Entry, error)
}

// ReferenceHandler serves the selection lists.
type ReferenceHandler struct {
	deps ReferenceDependencies
}

// NewReferenceHandler creates a new reference handler.
func NewReferenceHandler(deps ReferenceDependencies) *ReferenceHandler {
	return &ReferenceHandler{deps: deps}
}

type referenceResponse struct {
	Kind    reference.Kind    `json:"kind"`
	Entries []reference.Entry `json:"entries"`
}

// HandleList handles GET /reference/{kind}.
func (h *ReferenceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.reference"
	kind, err := reference.ParseKind(r.PathValue("kind"))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	entries, err := h.deps.Reference(r.Context(), kind)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	if entries == nil {
		entries = []reference.Entry{}
	}
	writeJSON(w, http.StatusOK, referenceResponse{Kind: kind, Entries: entries})
}
