package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/okian/cricscore/internal/adapters/render"
	"github.com/okian/cricscore/internal/domain/analytics"
	"github.com/okian/cricscore/internal/domain/model"
)

// MatchDependencies reads committed deliveries and their analytics.
type MatchDependencies interface {
	ListDeliveries(ctx context.Context, matchID string, innings, limit int) ([]*model.DeliveryEvent, error)
	Analytics(ctx context.Context, matchID string, innings int) (analytics.Report, error)
	RebuildAnalytics(ctx context.Context, matchID string, innings int) (analytics.Report, error)
	InningsPitchSVG(ctx context.Context, matchID string, innings int, w io.Writer) error
	InningsFieldSVG(ctx context.Context, matchID string, innings int, w io.Writer) error
}

// MatchesHandler serves per-innings reads.
type MatchesHandler struct {
	deps     MatchDependencies
	maxLimit int
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps MatchDependencies, maxLimit int) *MatchesHandler {
	return &MatchesHandler{deps: deps, maxLimit: maxLimit}
}

type deliveriesResponse struct {
	MatchID    string                 `json:"match_id"`
	Innings    int                    `json:"innings"`
	Count      int                    `json:"count"`
	Deliveries []*model.DeliveryEvent `json:"deliveries"`
}

// inningsPath reads the match and innings path values.
func inningsPath(r *http.Request) (string, int, error) {
	match := r.PathValue("match")
	innings, err := strconv.Atoi(r.PathValue("innings"))
	if err != nil || innings < 1 {
		return "", 0, fmt.Errorf("innings %q must be a positive integer", r.PathValue("innings"))
	}
	return match, innings, nil
}

// parseLimit reads ?limit=, defaulting to the configured maximum.
func (h *MatchesHandler) parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return h.maxLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("limit %q must be a positive integer: %w", raw, ErrBadRequest)
	}
	if n > h.maxLimit {
		return 0, fmt.Errorf("limit %d above %d: %w", n, h.maxLimit, ErrLimitExceeded)
	}
	return n, nil
}

// HandleDeliveries handles GET /matches/{match}/innings/{innings}/deliveries.
func (h *MatchesHandler) HandleDeliveries(w http.ResponseWriter, r *http.Request) {
	const op = "api.deliveries"
	match, innings, err := inningsPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	limit, err := h.parseLimit(r)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	ds, err := h.deps.ListDeliveries(r.Context(), match, innings, limit)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, deliveriesResponse{MatchID: match, Innings: innings, Count: len(ds), Deliveries: ds})
}

// HandleAnalytics handles GET /matches/{match}/innings/{innings}/analytics.
func (h *MatchesHandler) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, "api.analytics", h.deps.Analytics)
}

// HandleRebuild handles POST /matches/{match}/innings/{innings}/analytics/rebuild.
func (h *MatchesHandler) HandleRebuild(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, "api.analytics_rebuild", h.deps.RebuildAnalytics)
}

func (h *MatchesHandler) report(w http.ResponseWriter, r *http.Request, op string,
	fetch func(context.Context, string, int) (analytics.Report, error),
) {
	match, innings, err := inningsPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	rep, err := fetch(r.Context(), match, innings)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// HandlePitchSVG handles GET /matches/{match}/innings/{innings}/pitch.svg.
func (h *MatchesHandler) HandlePitchSVG(w http.ResponseWriter, r *http.Request) {
	h.chart(w, r, "api.innings_pitch_svg", h.deps.InningsPitchSVG)
}

// HandleFieldSVG handles GET /matches/{match}/innings/{innings}/field.svg.
func (h *MatchesHandler) HandleFieldSVG(w http.ResponseWriter, r *http.Request) {
	h.chart(w, r, "api.innings_field_svg", h.deps.InningsFieldSVG)
}

func (h *MatchesHandler) chart(w http.ResponseWriter, r *http.Request, op string,
	draw func(context.Context, string, int, io.Writer) error,
) {
	match, innings, err := inningsPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeSVG(w, op, render.ContentType, func(out io.Writer) error {
		return draw(r.Context(), match, innings, out)
	})
}
