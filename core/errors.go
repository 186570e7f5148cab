package core

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is a sentinel error for "not found" cases
var ErrNotFound = errors.New("not found")

// APIError is returned when the users API answers with a non-2xx status
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s failed: status %d, body: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Unwrap maps a 404 onto ErrNotFound so callers can use errors.Is
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// IsAPIError checks if an error is an APIError anywhere in its chain
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	return err != nil && errors.Is(err, ErrNotFound)
}
