package models

import (
	"errors"
	"fmt"
)

// Validation failures. All of them are detected before any field is computed.
var (
	// ErrInvalidGeometry indicates a degenerate or non-physical beam geometry.
	ErrInvalidGeometry = errors.New("holosim: invalid geometry")

	// ErrInvalidMaterial indicates optical constants that cannot produce a finite object.
	ErrInvalidMaterial = errors.New("holosim: invalid material")

	// ErrUnsupportedShape indicates a shape selector outside the supported set.
	ErrUnsupportedShape = errors.New("holosim: unsupported shape")

	// ErrDimensionMismatch indicates an array whose shape disagrees with the grid.
	ErrDimensionMismatch = errors.New("holosim: dimension mismatch")
)

// ParameterError names the offending input of a validation failure.
type ParameterError struct {
	Field string
	Value string
	Err   error
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%v: %s = %s", e.Err, e.Field, e.Value)
}

func (e *ParameterError) Unwrap() error {
	return e.Err
}

// NewParameterError formats v and wraps err for field.
func NewParameterError(field string, v any, err error) *ParameterError {
	return &ParameterError{Field: field, Value: fmt.Sprint(v), Err: err}
}
