// Package model contains the planner records passed between layers.
package model

// ClassEntry is one recurring weekly class.
// JSON names mirror the persisted `classes` collection.
type ClassEntry struct {
	ID          string `json:"id,omitempty"` // assigned by the store
	Day         string `json:"day"`          // canonical weekday name, kept verbatim
	StartTime   string `json:"start_time"`   // "HH:MM"
	EndTime     string `json:"end_time"`     // "HH:MM"
	CourseCode  string `json:"course_code"`
	CourseTitle string `json:"course_title"`
	TeacherCode string `json:"teacher_code"`
	Room        string `json:"room"`
	Section     string `json:"section"`
}

// EventEntry is a one-off dated event. Nil pointers are persisted as null.
type EventEntry struct {
	ID          string  `json:"id,omitempty"`
	Title       string  `json:"event_title"`
	Date        string  `json:"event_date"` // "YYYY-MM-DD"
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Description *string `json:"description"`
}

// Start returns the start time or "" for untimed events.
func (e EventEntry) Start() string {
	if e.StartTime == nil {
		return ""
	}
	return *e.StartTime
}

// AllDay reports whether the event has neither start nor end time.
func (e EventEntry) AllDay() bool {
	return e.StartTime == nil && e.EndTime == nil
}

// optional maps "" to nil.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
