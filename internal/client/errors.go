package client

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from a remote collaborator, carrying the
// backend-provided message when one was decodable.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote API error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("remote API error (status %d)", e.Status)
}

// DecodeError is a response body that did not match the expected schema. It
// is distinct from transport errors and from APIError so callers can tell a
// broken contract apart from a failed call.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decoding response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ErrSessionExpired is returned when a 401 could not be recovered by a token
// refresh.
var ErrSessionExpired = errors.New("session expired")

// IsNotFound reports whether err is an APIError with status 404. Compensating
// deletes treat it as success so that deleting an already-deleted asset does
// not fail the rollback.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsValidationError reports whether err is a 4xx failure other than 401,
// i.e. the backend rejected the request contents.
func IsValidationError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status >= 400 && apiErr.Status < 500 && apiErr.Status != http.StatusUnauthorized
}
