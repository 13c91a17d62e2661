package model

import (
	"errors"
	"strings"
)

// Sentinel kinds for draft validation.
var (
	ErrMissingField = errors.New("missing required field")
	ErrInvalidDate  = errors.New("invalid event date")
)

// FieldError lists the required fields a draft leaves empty.
type FieldError struct {
	Fields []string
}

func (e *FieldError) Error() string {
	return ErrMissingField.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *FieldError) Unwrap() error { return ErrMissingField }
