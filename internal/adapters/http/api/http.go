// Package api exposes the session service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/okian/courtvision/internal/adapters/repository"
	service "github.com/okian/courtvision/internal/app"
	"github.com/okian/courtvision/internal/domain/model"
	"github.com/okian/courtvision/internal/session"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StartSession(ctx context.Context, cal model.CourtCalibration) error
	EndSession(ctx context.Context) (*model.SessionRecord, error)
	RegisterManualShot(ctx context.Context, result model.ShotResult, class model.DistanceClass) (model.ShotEvent, error)
	Snapshot() (session.Snapshot, error)
	History(ctx context.Context) ([]model.SessionRecord, error)
	Summary(ctx context.Context, id uuid.UUID) (service.Summary, error)
}

// Server wires HTTP routes for the session API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	sessionHandler *SessionHandler
	historyHandler *HistoryHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		sessionHandler: NewSessionHandler(deps),
		historyHandler: NewHistoryHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /calibration/validate", MetricsMiddleware(HandleValidateCalibration, "calibration"))

	mux.HandleFunc("POST /session/start", MetricsMiddleware(s.sessionHandler.HandleStart, "session_start"))
	mux.HandleFunc("POST /session/end", MetricsMiddleware(s.sessionHandler.HandleEnd, "session_end"))
	mux.HandleFunc("GET /session", MetricsMiddleware(s.sessionHandler.HandleGet, "session"))
	mux.HandleFunc("POST /shots", MetricsMiddleware(s.sessionHandler.HandlePostShot, "shots"))

	mux.HandleFunc("GET /history", MetricsMiddleware(s.historyHandler.HandleList, "history"))
	mux.HandleFunc("GET /history/{id}/summary", MetricsMiddleware(s.historyHandler.HandleSummary, "summary"))
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

// writeFailure maps domain sentinels to a status and error code.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, session.ErrInvalidCalibration):
		writeError(w, http.StatusUnprocessableEntity, "invalid_calibration", err)
	case errors.Is(err, session.ErrSessionActive):
		writeError(w, http.StatusConflict, "session_active", err)
	case errors.Is(err, session.ErrNoActiveSession):
		writeError(w, http.StatusConflict, "no_active_session", err)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "not_started", err)
	case errors.Is(err, session.ErrArchiveFailed):
		writeError(w, http.StatusInternalServerError, "archive_failed", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
