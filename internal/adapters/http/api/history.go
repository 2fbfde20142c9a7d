package api

import (
	"net/http"

	"github.com/google/uuid"
)

// HistoryHandler serves archived sessions.
type HistoryHandler struct {
	deps Dependencies
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps Dependencies) *HistoryHandler {
	return &HistoryHandler{deps: deps}
}

// HandleList handles GET /history.
func (h *HistoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.history_list"
	records, err := h.deps.History(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// HandleSummary handles GET /history/{id}/summary.
func (h *HistoryHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.history_summary"
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	sum, err := h.deps.Summary(r.Context(), id)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
