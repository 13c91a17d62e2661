package model

import (
	"strings"
	"time"
)

// dateLayout is the ISO calendar date used for event_date.
const dateLayout = "2006-01-02"

// Field names a form input. Values match the persisted column names.
type Field string

// Class form fields.
const (
	FieldDay         Field = "day"
	FieldStartTime   Field = "start_time"
	FieldEndTime     Field = "end_time"
	FieldCourseCode  Field = "course_code"
	FieldCourseTitle Field = "course_title"
	FieldTeacherCode Field = "teacher_code"
	FieldRoom        Field = "room"
	FieldSection     Field = "section"
)

// Event form fields. start_time and end_time are shared with classes.
const (
	FieldEventTitle  Field = "event_title"
	FieldEventDate   Field = "event_date"
	FieldDescription Field = "description"
)

// ClassDraft is the in-progress value behind a class form.
// Drafts are values: reducers return a new draft and never mutate.
type ClassDraft struct {
	Day         string
	StartTime   string
	EndTime     string
	CourseCode  string
	CourseTitle string
	TeacherCode string
	Room        string
	Section     string
}

// ClassDraftFrom seeds an edit form from a stored entry.
func ClassDraftFrom(e ClassEntry) ClassDraft {
	return ClassDraft{
		Day:         e.Day,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		CourseCode:  e.CourseCode,
		CourseTitle: e.CourseTitle,
		TeacherCode: e.TeacherCode,
		Room:        e.Room,
		Section:     e.Section,
	}
}

// ApplyClassField returns d with field set to value. Unknown fields leave d unchanged.
func ApplyClassField(d ClassDraft, field Field, value string) ClassDraft {
	switch field {
	case FieldDay:
		d.Day = value
	case FieldStartTime:
		d.StartTime = value
	case FieldEndTime:
		d.EndTime = value
	case FieldCourseCode:
		d.CourseCode = value
	case FieldCourseTitle:
		d.CourseTitle = value
	case FieldTeacherCode:
		d.TeacherCode = value
	case FieldRoom:
		d.Room = value
	case FieldSection:
		d.Section = value
	}
	return d
}

// Missing returns the required fields that are blank, in form order.
func (d ClassDraft) Missing() []string {
	var out []string
	for _, f := range []struct {
		name  Field
		value string
	}{
		{FieldDay, d.Day},
		{FieldStartTime, d.StartTime},
		{FieldEndTime, d.EndTime},
		{FieldCourseCode, d.CourseCode},
		{FieldCourseTitle, d.CourseTitle},
	} {
		if strings.TrimSpace(f.value) == "" {
			out = append(out, string(f.name))
		}
	}
	return out
}

// Entry materializes the draft. id may be empty for a record not yet persisted.
func (d ClassDraft) Entry(id string) ClassEntry {
	return ClassEntry{
		ID:          id,
		Day:         d.Day,
		StartTime:   d.StartTime,
		EndTime:     d.EndTime,
		CourseCode:  d.CourseCode,
		CourseTitle: d.CourseTitle,
		TeacherCode: d.TeacherCode,
		Room:        d.Room,
		Section:     d.Section,
	}
}

// EventDraft is the in-progress value behind an event form.
type EventDraft struct {
	Title       string
	Date        string
	StartTime   string
	EndTime     string
	Description string
}

// EventDraftFrom seeds an edit form from a stored entry.
func EventDraftFrom(e EventEntry) EventDraft {
	return EventDraft{
		Title:       e.Title,
		Date:        e.Date,
		StartTime:   deref(e.StartTime),
		EndTime:     deref(e.EndTime),
		Description: deref(e.Description),
	}
}

// ApplyEventField returns d with field set to value. Unknown fields leave d unchanged.
func ApplyEventField(d EventDraft, field Field, value string) EventDraft {
	switch field {
	case FieldEventTitle:
		d.Title = value
	case FieldEventDate:
		d.Date = value
	case FieldStartTime:
		d.StartTime = value
	case FieldEndTime:
		d.EndTime = value
	case FieldDescription:
		d.Description = value
	}
	return d
}

// Missing returns the required fields that are blank.
func (d EventDraft) Missing() []string {
	var out []string
	if strings.TrimSpace(d.Title) == "" {
		out = append(out, string(FieldEventTitle))
	}
	if strings.TrimSpace(d.Date) == "" {
		out = append(out, string(FieldEventDate))
	}
	return out
}

// Validate applies the event form rules: required fields and an ISO date.
// Start/end ordering is deliberately not checked for events.
func (d EventDraft) Validate() error {
	if missing := d.Missing(); len(missing) > 0 {
		return &FieldError{Fields: missing}
	}
	if _, err := time.Parse(dateLayout, d.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// Entry materializes the draft, turning empty optional fields into nulls.
func (d EventDraft) Entry(id string) EventEntry {
	return EventEntry{
		ID:          id,
		Title:       d.Title,
		Date:        d.Date,
		StartTime:   optional(d.StartTime),
		EndTime:     optional(d.EndTime),
		Description: optional(d.Description),
	}
}
