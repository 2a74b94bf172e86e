package domain

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when a valid identity lacks the required privilege.
var ErrForbidden = errors.New("forbidden")

// FieldViolation describes one input field that failed validation.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violation found in a single input.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return strings.Join(msgs, "; ")
}

// Add records a violation for field.
func (e *ValidationError) Add(field, message string) {
	e.Violations = append(e.Violations, FieldViolation{Field: field, Message: message})
}

// OrNil returns e when it holds violations and nil otherwise.
func (e *ValidationError) OrNil() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}
