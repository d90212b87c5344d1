package session

import "fmt"

// NotFoundError is an error used to encode when a session identifier has no
// live server-side session (it was never issued, was logged out, or idled
// out and was evicted)
type NotFoundError struct {
	ID string
}

// NewNotFoundError constructs a new NotFoundError
func NewNotFoundError(id string) *NotFoundError {
	return &NotFoundError{
		ID: id,
	}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("session with identifier '%s' not found; it may have expired",
		e.ID)
}
