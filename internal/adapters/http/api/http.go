// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/weekplan/internal/domain/model"
	"github.com/okian/weekplan/internal/domain/schedule"
	"github.com/okian/weekplan/internal/domain/types"
	"github.com/okian/weekplan/pkg/logger"
)

// SessionHeader carries the id of the submitting form. Two submits from
// the same form may not be in flight at once.
const SessionHeader = "X-Form-Session"

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ClassDependencies
	EventDependencies
	TodayDependencies
	CalendarDependencies
}

// ClassDependencies covers the class list and its mutations.
type ClassDependencies interface {
	Classes(ctx context.Context) ([]model.ClassEntry, error)
	ClassesByDay(ctx context.Context) ([]schedule.DayGroup, error)
	CreateClass(ctx context.Context, session string, d model.ClassDraft) (types.Outcome, error)
	UpdateClass(ctx context.Context, session, id string, d model.ClassDraft) (types.Outcome, error)
	DeleteClass(ctx context.Context, id string) (types.Outcome, error)
}

// EventDependencies covers the event list and its mutations.
type EventDependencies interface {
	Events(ctx context.Context) ([]model.EventEntry, error)
	CreateEvent(ctx context.Context, session string, d model.EventDraft) (types.Outcome, error)
	UpdateEvent(ctx context.Context, session, id string, d model.EventDraft) (types.Outcome, error)
	DeleteEvent(ctx context.Context, id string) (types.Outcome, error)
}

// TodayDependencies serves the dashboard.
type TodayDependencies interface {
	Today(ctx context.Context) (types.Today, error)
}

// CalendarDependencies renders the iCalendar feed.
type CalendarDependencies interface {
	Calendar(ctx context.Context) (string, error)
}

// Server wires HTTP routes for the planner API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	classesHandler  *ClassesHandler
	eventsHandler   *EventsHandler
	todayHandler    *TodayHandler
	calendarHandler *CalendarHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	log := logger.Get().Named("api")
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		classesHandler:  NewClassesHandler(deps, log),
		eventsHandler:   NewEventsHandler(deps, log),
		todayHandler:    NewTodayHandler(deps, log),
		calendarHandler: NewCalendarHandler(deps, log),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /classes", MetricsMiddleware(s.classesHandler.HandleList, "classes"))
	mux.HandleFunc("GET /classes/by-day", MetricsMiddleware(s.classesHandler.HandleByDay, "classes_by_day"))
	mux.HandleFunc("POST /classes", MetricsMiddleware(s.classesHandler.HandleCreate, "classes"))
	mux.HandleFunc("PUT /classes/{id}", MetricsMiddleware(s.classesHandler.HandleUpdate, "class"))
	mux.HandleFunc("DELETE /classes/{id}", MetricsMiddleware(s.classesHandler.HandleDelete, "class"))

	mux.HandleFunc("GET /events", MetricsMiddleware(s.eventsHandler.HandleList, "events"))
	mux.HandleFunc("POST /events", MetricsMiddleware(s.eventsHandler.HandleCreate, "events"))
	mux.HandleFunc("PUT /events/{id}", MetricsMiddleware(s.eventsHandler.HandleUpdate, "event"))
	mux.HandleFunc("DELETE /events/{id}", MetricsMiddleware(s.eventsHandler.HandleDelete, "event"))

	mux.HandleFunc("GET /today", MetricsMiddleware(s.todayHandler.HandleToday, "today"))
	mux.HandleFunc("POST /validate/interval", MetricsMiddleware(HandleValidateInterval, "validate_interval"))
	mux.HandleFunc("GET /calendar.ics", MetricsMiddleware(s.calendarHandler.HandleCalendar, "calendar"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Title   string `json:"title,omitempty"`
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
	noteError(w, code)
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeOutcome answers a mutation. Failures carry the notification text,
// never the underlying cause.
func writeOutcome(w http.ResponseWriter, okStatus int, out types.Outcome, err error) {
	if err != nil {
		status, code := classify(err)
		noteError(w, code)
		writeJSON(w, status, errorResponse{Code: code, Title: out.Title, Message: out.Message})
		return
	}
	writeJSON(w, okStatus, out)
}

// readFailed answers a failed read with a generic 500.
func readFailed(ctx context.Context, w http.ResponseWriter, log logger.Logger, op string, err error) {
	log.Error(ctx, "read failed", logger.String("op", op), logger.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", nil)
}
