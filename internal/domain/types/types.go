// Package types contains read shapes shared by the service and the API.
package types

import "github.com/okian/weekplan/internal/domain/model"

// TodayView is a "today" projection prepared for a dashboard card: the
// full ordered set, the slice that fits the card and the overflow count.
type TodayView[T any] struct {
	Items    []T `json:"items"`
	Shown    []T `json:"shown"`
	Total    int `json:"total"`
	Overflow int `json:"overflow"`
}

// NewTodayView caps the display slice at limit. A limit <= 0 shows everything.
func NewTodayView[T any](items []T, limit int) TodayView[T] {
	if items == nil {
		items = []T{}
	}
	shown := items
	if limit > 0 && len(items) > limit {
		shown = items[:limit]
	}
	return TodayView[T]{
		Items:    items,
		Shown:    shown,
		Total:    len(items),
		Overflow: len(items) - len(shown),
	}
}

// Counts holds the dashboard collection sizes.
type Counts struct {
	Classes int `json:"classes"`
	Events  int `json:"events"`
}

// Outcome is the notification produced by every mutation.
type Outcome struct {
	Success bool   `json:"success"`
	Title   string `json:"title"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// Today is the dashboard read model for one reference date.
type Today struct {
	Date    string                      `json:"date"`
	Weekday string                      `json:"weekday"`
	Classes TodayView[model.ClassEntry] `json:"classes"`
	Events  TodayView[model.EventEntry] `json:"events"`
	Counts  Counts                      `json:"counts"`
}
