package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/courtvision/internal/domain/model"
)

// SessionHandler handles the session lifecycle and shot input.
type SessionHandler struct {
	deps Dependencies
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps Dependencies) *SessionHandler {
	return &SessionHandler{deps: deps}
}

type endResponse struct {
	Archived bool                 `json:"archived"`
	Record   *model.SessionRecord `json:"record"`
}

type shotRequest struct {
	Result        model.ShotResult    `json:"result"`
	DistanceClass model.DistanceClass `json:"distance_class"`
}

// HandleStart handles POST /session/start. An empty body starts with the
// default calibration.
func (h *SessionHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	const op = "api.session_start"
	cal := model.DefaultCalibration()
	if err := json.NewDecoder(r.Body).Decode(&cal); err != nil && !errors.Is(err, io.EOF) {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.StartSession(r.Context(), cal); err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	snap, err := h.deps.Snapshot()
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleEnd handles POST /session/end.
func (h *SessionHandler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	const op = "api.session_end"
	rec, err := h.deps.EndSession(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, endResponse{Archived: rec != nil, Record: rec})
}

// HandleGet handles GET /session.
func (h *SessionHandler) HandleGet(w http.ResponseWriter, _ *http.Request) {
	const op = "api.session_get"
	snap, err := h.deps.Snapshot()
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandlePostShot handles POST /shots for manually entered shots.
func (h *SessionHandler) HandlePostShot(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_shot"
	var req shotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.Result == "" {
		writeFailure(w, NewKind(op, ErrMissingResult))
		return
	}
	e, err := h.deps.RegisterManualShot(r.Context(), req.Result, req.DistanceClass)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, e)
}
