package domain

import (
	"errors"
	"fmt"
)

// ErrValidation matches every *ValidationError with errors.Is.
var ErrValidation = errors.New("invalid import request")

// ErrNetwork is wrapped by adapters when a request never reached the backend
// or its response could not be read.
var ErrNetwork = errors.New("network error")

// ValidationError is returned for form input rejected before any request is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is makes errors.Is(err, ErrValidation) true for any ValidationError.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// BackendError is returned when the backend answers with a non-2xx status.
// Message holds the backend's own error text and may be empty.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend responded with status %d: %s", e.StatusCode, e.Message)
}
