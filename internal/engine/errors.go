package engine

import (
	"fmt"
)

// ValidationError marks malformed caller input (difficulty out of bounds,
// negative attempt time). Evaluation fails fast on it rather than clamping,
// since it indicates a bug upstream.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

func newValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}
