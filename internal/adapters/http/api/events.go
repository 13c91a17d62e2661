package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/weekplan/internal/domain/model"
	"github.com/okian/weekplan/pkg/logger"
)

// eventRequest mirrors the OpenAPI schema for POST/PUT /events.
// Optional fields may be omitted, null or empty; all three are stored as null.
type eventRequest struct {
	Title       string  `json:"event_title"`
	Date        string  `json:"event_date"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Description *string `json:"description"`
}

func (e eventRequest) draft() model.EventDraft {
	return model.EventDraft{
		Title:       e.Title,
		Date:        e.Date,
		StartTime:   value(e.StartTime),
		EndTime:     value(e.EndTime),
		Description: value(e.Description),
	}
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// EventsHandler handles event requests.
type EventsHandler struct {
	deps EventDependencies
	log  logger.Logger
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies, log logger.Logger) *EventsHandler {
	return &EventsHandler{deps: deps, log: log}
}

// HandleList handles GET /events.
func (h *EventsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.deps.Events(r.Context())
	if err != nil {
		readFailed(r.Context(), w, h.log, "api.list_events", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleCreate handles POST /events.
func (h *EventsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	out, err := h.deps.CreateEvent(r.Context(), r.Header.Get(SessionHeader), req.draft())
	writeOutcome(w, http.StatusCreated, out, err)
}

// HandleUpdate handles PUT /events/{id}.
func (h *EventsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrMissingID)
		return
	}
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	out, err := h.deps.UpdateEvent(r.Context(), r.Header.Get(SessionHeader), id, req.draft())
	writeOutcome(w, http.StatusOK, out, err)
}

// HandleDelete handles DELETE /events/{id}.
func (h *EventsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrMissingID)
		return
	}
	out, err := h.deps.DeleteEvent(r.Context(), id)
	writeOutcome(w, http.StatusOK, out, err)
}
