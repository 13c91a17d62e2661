package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/weekplan/internal/domain/model"
	"github.com/okian/weekplan/pkg/logger"
)

// classRequest mirrors the OpenAPI schema for POST/PUT /classes.
type classRequest struct {
	Day         string `json:"day"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	CourseCode  string `json:"course_code"`
	CourseTitle string `json:"course_title"`
	TeacherCode string `json:"teacher_code"`
	Room        string `json:"room"`
	Section     string `json:"section"`
}

func (c classRequest) draft() model.ClassDraft {
	return model.ClassDraft{
		Day:         c.Day,
		StartTime:   c.StartTime,
		EndTime:     c.EndTime,
		CourseCode:  c.CourseCode,
		CourseTitle: c.CourseTitle,
		TeacherCode: c.TeacherCode,
		Room:        c.Room,
		Section:     c.Section,
	}
}

// ClassesHandler handles class requests.
type ClassesHandler struct {
	deps ClassDependencies
	log  logger.Logger
}

// NewClassesHandler creates a new classes handler.
func NewClassesHandler(deps ClassDependencies, log logger.Logger) *ClassesHandler {
	return &ClassesHandler{deps: deps, log: log}
}

// HandleList handles GET /classes.
func (h *ClassesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.deps.Classes(r.Context())
	if err != nil {
		readFailed(r.Context(), w, h.log, "api.list_classes", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleByDay handles GET /classes/by-day.
func (h *ClassesHandler) HandleByDay(w http.ResponseWriter, r *http.Request) {
	groups, err := h.deps.ClassesByDay(r.Context())
	if err != nil {
		readFailed(r.Context(), w, h.log, "api.classes_by_day", err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// HandleCreate handles POST /classes.
func (h *ClassesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req classRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	out, err := h.deps.CreateClass(r.Context(), r.Header.Get(SessionHeader), req.draft())
	writeOutcome(w, http.StatusCreated, out, err)
}

// HandleUpdate handles PUT /classes/{id}.
func (h *ClassesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrMissingID)
		return
	}
	var req classRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	out, err := h.deps.UpdateClass(r.Context(), r.Header.Get(SessionHeader), id, req.draft())
	writeOutcome(w, http.StatusOK, out, err)
}

// HandleDelete handles DELETE /classes/{id}.
func (h *ClassesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrMissingID)
		return
	}
	out, err := h.deps.DeleteClass(r.Context(), id)
	writeOutcome(w, http.StatusOK, out, err)
}
