package tmdb

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport wraps network, DNS, timeout and cancellation failures.
	ErrTransport = errors.New("tmdb: transport failure")
	// ErrMalformed is returned when a response body cannot be decoded.
	ErrMalformed = errors.New("tmdb: malformed response")
)

// APIError is a failure reported by the service itself, either through an
// HTTP error status or a success=false body.
type APIError struct {
	HTTPStatus int
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("tmdb: %s (http %d, code %d)", e.Message, e.HTTPStatus, e.StatusCode)
	}
	return fmt.Sprintf("tmdb: request failed (http %d)", e.HTTPStatus)
}

// IsUnauthorized reports whether err is a rejected or missing API key.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.HTTPStatus == 401 || apiErr.StatusCode == 7
}
