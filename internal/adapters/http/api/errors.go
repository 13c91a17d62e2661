package api

import (
	"errors"
	"net/http"

	"github.com/okian/weekplan/internal/adapters/repository"
	service "github.com/okian/weekplan/internal/app"
	"github.com/okian/weekplan/internal/domain/model"
	"github.com/okian/weekplan/internal/domain/schedule"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrMissingID  = errors.New("missing record id")
)

// classify maps an orchestrator error to a status and a stable error code.
// Not-found is checked first because it also carries ErrStore.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, schedule.ErrInvalidInterval):
		return http.StatusBadRequest, "invalid_time"
	case errors.Is(err, model.ErrMissingField):
		return http.StatusBadRequest, "missing_field"
	case errors.Is(err, model.ErrInvalidDate):
		return http.StatusBadRequest, "invalid_date"
	case errors.Is(err, service.ErrSubmissionPending):
		return http.StatusConflict, "submission_pending"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
