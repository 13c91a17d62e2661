package api

import (
	"net/http"

	"github.com/okian/weekplan/pkg/logger"
)

// CalendarHandler serves the iCalendar feed.
type CalendarHandler struct {
	deps CalendarDependencies
	log  logger.Logger
}

// NewCalendarHandler creates a new calendar handler.
func NewCalendarHandler(deps CalendarDependencies, log logger.Logger) *CalendarHandler {
	return &CalendarHandler{deps: deps, log: log}
}

// HandleCalendar handles GET /calendar.ics.
func (h *CalendarHandler) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	feed, err := h.deps.Calendar(r.Context())
	if err != nil {
		readFailed(r.Context(), w, h.log, "api.calendar", err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="weekplan.ics"`)
	_, _ = w.Write([]byte(feed))
}
