// Package errors provides domain-specific error types and the failure
// classifier used at action boundaries.
//
// Three outcomes are kept distinct and never collapsed:
//   - ErrNotFound: expected, normal (a name that resolves to nothing)
//   - TransportError: exceptional, logged (timeout, refused connection)
//   - ErrInvalidResponse: data contract violation from the backend
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors. Check with errors.Is().
var (
	// ErrNotFound indicates a lookup resolved to nothing. Not a failure.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidResponse indicates the backend returned JSON that does not
	// match the documented shape.
	ErrInvalidResponse = errors.New("invalid backend response")

	// ErrMissingSlot indicates a required entity/slot is absent from the
	// conversation turn.
	ErrMissingSlot = errors.New("missing required slot")
)

// TransportError represents a failure to complete an HTTP exchange with the
// backend: timeouts, refused connections, DNS failures.
type TransportError struct {
	URL     string
	Timeout bool
	Err     error
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("backend timeout (url=%s): %v", e.URL, e.Err)
	}
	return fmt.Sprintf("backend unreachable (url=%s): %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a transport error.
func NewTransportError(url string, timeout bool, err error) *TransportError {
	return &TransportError{URL: url, Timeout: timeout, Err: err}
}

// StatusError represents a completed HTTP exchange with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend status %d (url=%s)", e.StatusCode, e.URL)
}

// NewStatusError creates a status error.
func NewStatusError(url string, statusCode int) *StatusError {
	return &StatusError{URL: url, StatusCode: statusCode}
}
