package schedule

import (
	"errors"

	"github.com/okian/weekplan/internal/domain/model"
)

// IntervalMessage is shown next to the time inputs when the interval is inverted.
const IntervalMessage = "Start time must be earlier than end time."

// ErrInvalidInterval marks a class whose start is not before its end.
var ErrInvalidInterval = errors.New("invalid time interval")

// IntervalError carries the user-facing message for an inverted interval.
type IntervalError struct {
	Start   string
	End     string
	Message string
}

func (e *IntervalError) Error() string { return e.Message }

func (e *IntervalError) Unwrap() error { return ErrInvalidInterval }

// ValidateInterval checks a start/end pair of zero-padded "HH:MM" strings.
// It fails only when both are set and start >= end; the comparison is
// lexicographic, which matches chronological order for that format.
func ValidateInterval(start, end string) error {
	if start == "" || end == "" {
		return nil
	}
	if start >= end {
		return &IntervalError{Start: start, End: end, Message: IntervalMessage}
	}
	return nil
}

// ValidateClass applies the class form rules: required fields first, then
// the interval. The result is derived from the draft and never cached.
func ValidateClass(d model.ClassDraft) error {
	if missing := d.Missing(); len(missing) > 0 {
		return &model.FieldError{Fields: missing}
	}
	return ValidateInterval(d.StartTime, d.EndTime)
}
