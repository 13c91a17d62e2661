package model

// FieldID is the identifier column shared by both collections.
const FieldID Field = "id"

// Key returns the store-assigned identifier.
func (c ClassEntry) Key() string { return c.ID }

// WithID returns a copy of c carrying id.
func (c ClassEntry) WithID(id string) ClassEntry {
	c.ID = id
	return c
}

// Lookup returns the value of a persisted column. ok is false for
// columns the classes collection does not have.
func (c ClassEntry) Lookup(f Field) (value *string, ok bool) {
	switch f {
	case FieldID:
		return &c.ID, true
	case FieldDay:
		return &c.Day, true
	case FieldStartTime:
		return &c.StartTime, true
	case FieldEndTime:
		return &c.EndTime, true
	case FieldCourseCode:
		return &c.CourseCode, true
	case FieldCourseTitle:
		return &c.CourseTitle, true
	case FieldTeacherCode:
		return &c.TeacherCode, true
	case FieldRoom:
		return &c.Room, true
	case FieldSection:
		return &c.Section, true
	}
	return nil, false
}

// Key returns the store-assigned identifier.
func (e EventEntry) Key() string { return e.ID }

// WithID returns a copy of e carrying id.
func (e EventEntry) WithID(id string) EventEntry {
	e.ID = id
	return e
}

// Lookup returns the value of a persisted column; a nil value is null.
func (e EventEntry) Lookup(f Field) (value *string, ok bool) {
	switch f {
	case FieldID:
		return &e.ID, true
	case FieldEventTitle:
		return &e.Title, true
	case FieldEventDate:
		return &e.Date, true
	case FieldStartTime:
		return e.StartTime, true
	case FieldEndTime:
		return e.EndTime, true
	case FieldDescription:
		return e.Description, true
	}
	return nil, false
}
