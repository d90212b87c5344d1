package upstream

import (
	"fmt"
	"sort"
	"strings"
)

// StatusError is an error used to encode a non-2xx response
// from the upstream nutrition API
type StatusError struct {
	StatusCode int
	Message    string
}

// NewStatusError constructs a new StatusError
func NewStatusError(statusCode int, message string) *StatusError {
	return &StatusError{
		StatusCode: statusCode,
		Message:    message,
	}
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream API returned status %d", e.StatusCode)
	}

	return fmt.Sprintf("upstream API returned status %d: %s", e.StatusCode, e.Message)
}

// ValidationError is an error used to encode field-keyed validation
// messages returned by the upstream registration endpoint
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError constructs a new ValidationError
func NewValidationError(fields map[string][]string) *ValidationError {
	return &ValidationError{
		Fields: fields,
	}
}

// Error concatenates all field messages into a single display string,
// in stable field order
func (e *ValidationError) Error() string {
	fieldNames := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fieldNames = append(fieldNames, field)
	}
	sort.Strings(fieldNames)

	parts := []string{}
	for _, field := range fieldNames {
		for _, message := range e.Fields[field] {
			parts = append(parts, fmt.Sprintf("%s: %s", field, message))
		}
	}

	return strings.Join(parts, "; ")
}
