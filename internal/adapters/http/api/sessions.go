package api

import (
	"context"
	"io"
	"net/http"

	"github.com/okian/cricscore/internal/adapters/render"
	service "github.com/okian/cricscore/internal/app"
	"github.com/okian/cricscore/internal/domain/field"
	"github.com/okian/cricscore/internal/domain/geometry"
	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/internal/domain/pitch"
)

// SessionDependencies drives scoring sessions.
type SessionDependencies interface {
	StartSession(ctx context.Context, req service.StartRequest) (service.SessionView, error)
	GetSession(ctx context.Context, id string) (service.SessionView, error)
	CloseSession(ctx context.Context, id string) error
	ClickPitch(ctx context.Context, id string, ev geometry.PointerEvent) (pitch.Result, bool, error)
	ClickField(ctx context.Context, id string, ev geometry.PointerEvent) (field.Result, bool, error)
	UpdateDraft(ctx context.Context, id string, patch service.DraftPatch) (service.SessionView, error)
	StartBall(ctx context.Context, id string) (service.SessionView, error)
	EndOver(ctx context.Context, id string) (service.SessionView, error)
	Commit(ctx context.Context, id, draftID string) (*model.DeliveryEvent, error)
	Undo(ctx context.Context, id string) (*model.DeliveryEvent, error)
	SessionPitchSVG(ctx context.Context, id string, w io.Writer) error
	SessionFieldSVG(ctx context.Context, id string, w io.Writer) error
}

// SessionsHandler handles the scoring session endpoints.
type SessionsHandler struct {
	deps SessionDependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps SessionDependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// commitRequest is the optional body of POST /sessions/{id}/commit. A
// non-empty DraftID must name the session's current draft.
type commitRequest struct {
	DraftID string `json:"draft_id"`
}

// HandleStart handles POST /sessions.
func (h *SessionsHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	const op = "api.session_start"
	var req service.StartRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	view, err := h.deps.StartSession(r.Context(), req)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+view.ID)
	writeJSON(w, http.StatusCreated, view)
}

// HandleGet handles GET /sessions/{id}.
func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.session_get"
	view, err := h.deps.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleClose handles DELETE /sessions/{id}.
func (h *SessionsHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	const op = "api.session_close"
	if err := h.deps.CloseSession(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandlePitch handles POST /sessions/{id}/pitch.
func (h *SessionsHandler) HandlePitch(w http.ResponseWriter, r *http.Request) {
	const op = "api.session_pitch"
	var ev geometry.PointerEvent
	if err := decodeJSON(w, r, &ev, false); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	res, ok, err := h.deps.ClickPitch(r.Context(), r.PathValue("id"), ev)
	writeClassified(w, op, res, ok, err)
}

// HandleField handles POST /sessions/{id}/field.
func (h *SessionsHandler) HandleField(w http.ResponseWriter, r *http.Request) {
	const op = "api.session_field"
	var ev geometry.PointerEvent
	if err := decodeJSON(w, r, &ev, false); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	res, ok, err := h.deps.ClickField(r.Context(), r.PathValue("id"), ev)
	writeClassified(w, op, res, ok, err)
}

// HandleDraft handles PATCH /sessions/{id}/draft.
func (h *SessionsHandler) HandleDraft(w http.ResponseWriter, r *http.Request) {
	const op = "api.session_draft"
	var patch service.DraftPatch
	if err := decodeJSON(w, r, &patch, false); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	h.writeView(w, op)(h.deps.UpdateDraft(r.Context(), r.PathValue("id"), patch))
}

// HandleStartBall handles POST /sessions/{id}/ball.
func (h *SessionsHandler) HandleStartBall(w http.ResponseWriter, r *http.Request) {
	h.writeView(w, "api.session_ball")(h.deps.StartBall(r.Context(), r.PathValue("id")))
}

// HandleEndOver handles POST /sessions/{id}/over.
func (h *SessionsHandler) HandleEndOver(w http.ResponseWriter, r *http.Request) {
	h.writeView(w, "api.session_over")(h.deps.EndOver(r.Context(), r.PathValue("id")))
}

func (h *SessionsHandler) writeView(w http.ResponseWriter, op string) func(service.SessionView, error) {
	return func(view service.SessionView, err error) {
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// HandleCommit handles POST /sessions/{id}/commit.
func (h *SessionsHandler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	const op = "api.session_commit"
	var req commitRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	d, err := h.deps.Commit(r.Context(), r.PathValue("id"), req.DraftID)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// HandleUndo handles POST /sessions/{id}/undo.
func (h *SessionsHandler) HandleUndo(w http.ResponseWriter, r *http.Request) {
	const op = "api.session_undo"
	d, err := h.deps.Undo(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// HandlePitchSVG handles GET /sessions/{id}/pitch.svg.
func (h *SessionsHandler) HandlePitchSVG(w http.ResponseWriter, r *http.Request) {
	writeSVG(w, "api.session_pitch_svg", render.ContentType, func(out io.Writer) error {
		return h.deps.SessionPitchSVG(r.Context(), r.PathValue("id"), out)
	})
}

// HandleFieldSVG handles GET /sessions/{id}/field.svg.
func (h *SessionsHandler) HandleFieldSVG(w http.ResponseWriter, r *http.Request) {
	writeSVG(w, "api.session_field_svg", render.ContentType, func(out io.Writer) error {
		return h.deps.SessionFieldSVG(r.Context(), r.PathValue("id"), out)
	})
}
