package book

import (
	"fmt"
	"strings"
)

// FieldError describes one failed rule on one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every failed field of a request so they can be
// reported together.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// MissingParameterError is returned when a required query parameter is
// absent or blank.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("%s is required", e.Name)
}

// InvalidSortError is returned for sort parameters naming an unknown
// property or direction.
type InvalidSortError struct {
	Value string
}

func (e *InvalidSortError) Error() string {
	return fmt.Sprintf("unsupported sort %q", e.Value)
}
