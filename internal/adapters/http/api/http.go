// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// Dependencies required by HTTP handlers. Each handler takes the narrower
// interface it needs; the bundle is what the service implements.
type Dependencies interface {
	StatsProvider
	ClassifyDependencies
	ReferenceDependencies
	SessionDependencies
	MatchDependencies
}

// DefaultMaxLimit caps the deliveries listing when no limit is configured.
const DefaultMaxLimit = 1000

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// Server wires HTTP routes for the scoring API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	classifyHandler  *ClassifyHandler
	referenceHandler *ReferenceHandler
	sessionsHandler  *SessionsHandler
	matchesHandler   *MatchesHandler
}

// NewServer creates a new API server with all handlers. maxLimit caps the
// number of deliveries one listing may return.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	if maxLimit <= 0 {
		maxLimit = DefaultMaxLimit
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		classifyHandler:  NewClassifyHandler(deps),
		referenceHandler: NewReferenceHandler(deps),
		sessionsHandler:  NewSessionsHandler(deps),
		matchesHandler:   NewMatchesHandler(deps, maxLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	routes := []struct {
		pattern  string
		endpoint string
		handler  http.HandlerFunc
	}{
		{"GET /healthz", "healthz", s.healthHandler.HandleHealth},
		{"GET /stats", "stats", s.statsHandler.HandleStats},

		{"GET /reference/{kind}", "reference", s.referenceHandler.HandleList},
		{"POST /classify/pitch", "classify_pitch", s.classifyHandler.HandlePitch},
		{"POST /classify/field", "classify_field", s.classifyHandler.HandleField},

		{"POST /sessions", "session_start", s.sessionsHandler.HandleStart},
		{"GET /sessions/{id}", "session_get", s.sessionsHandler.HandleGet},
		{"DELETE /sessions/{id}", "session_close", s.sessionsHandler.HandleClose},
		{"POST /sessions/{id}/pitch", "session_pitch", s.sessionsHandler.HandlePitch},
		{"POST /sessions/{id}/field", "session_field", s.sessionsHandler.HandleField},
		{"PATCH /sessions/{id}/draft", "session_draft", s.sessionsHandler.HandleDraft},
		{"POST /sessions/{id}/ball", "session_ball", s.sessionsHandler.HandleStartBall},
		{"POST /sessions/{id}/over", "session_over", s.sessionsHandler.HandleEndOver},
		{"POST /sessions/{id}/commit", "session_commit", s.sessionsHandler.HandleCommit},
		{"POST /sessions/{id}/undo", "session_undo", s.sessionsHandler.HandleUndo},
		{"GET /sessions/{id}/pitch.svg", "session_pitch_svg", s.sessionsHandler.HandlePitchSVG},
		{"GET /sessions/{id}/field.svg", "session_field_svg", s.sessionsHandler.HandleFieldSVG},

		{"GET /matches/{match}/innings/{innings}/deliveries", "deliveries", s.matchesHandler.HandleDeliveries},
		{"GET /matches/{match}/innings/{innings}/analytics", "analytics", s.matchesHandler.HandleAnalytics},
		{"POST /matches/{match}/innings/{innings}/analytics/rebuild", "analytics_rebuild", s.matchesHandler.HandleRebuild},
		{"GET /matches/{match}/innings/{innings}/pitch.svg", "innings_pitch_svg", s.matchesHandler.HandlePitchSVG},
		{"GET /matches/{match}/innings/{innings}/field.svg", "innings_field_svg", s.matchesHandler.HandleFieldSVG},
	}
	for _, rt := range routes {
		mux.HandleFunc(rt.pattern, MetricsMiddleware(rt.handler, rt.endpoint))
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeJSON reads one JSON value from the request body. Unknown fields are
// rejected. With optional set an empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, optional bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if dec.More() {
		return errors.New("trailing data after JSON body")
	}
	return nil
}

// writeSVG renders into a buffer so that a failed render still produces a
// clean error response.
func writeSVG(w http.ResponseWriter, op, contentType string, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		writeServiceError(w, op, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
