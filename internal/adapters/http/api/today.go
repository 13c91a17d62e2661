package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/weekplan/internal/domain/schedule"
	"github.com/okian/weekplan/pkg/logger"
)

// TodayHandler serves the dashboard.
type TodayHandler struct {
	deps TodayDependencies
	log  logger.Logger
}

// NewTodayHandler creates a new today handler.
func NewTodayHandler(deps TodayDependencies, log logger.Logger) *TodayHandler {
	return &TodayHandler{deps: deps, log: log}
}

// HandleToday handles GET /today.
func (h *TodayHandler) HandleToday(w http.ResponseWriter, r *http.Request) {
	today, err := h.deps.Today(r.Context())
	if err != nil {
		readFailed(r.Context(), w, h.log, "api.today", err)
		return
	}
	writeJSON(w, http.StatusOK, today)
}

type intervalRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type intervalResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// HandleValidateInterval handles POST /validate/interval. It lets a form
// check a start/end pair while the user is still typing.
func HandleValidateInterval(w http.ResponseWriter, r *http.Request) {
	var req intervalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if err := schedule.ValidateInterval(req.Start, req.End); err != nil {
		writeJSON(w, http.StatusOK, intervalResponse{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, intervalResponse{Valid: true})
}
