// Package canvas provides an HTTP client for the Canvas LMS REST API
// with pagination, automatic retry of transient failures, and error
// classification.
package canvas

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for HTTP status code classification.
// Use errors.Is(err, canvas.ErrForbidden) to check.
var (
	ErrBadRequest   = errors.New("canvas: bad request")
	ErrUnauthorized = errors.New("canvas: unauthorized")
	ErrForbidden    = errors.New("canvas: forbidden")
	ErrNotFound     = errors.New("canvas: not found")
	ErrThrottled    = errors.New("canvas: rate limited")
	ErrServerError  = errors.New("canvas: server error")
)

// APIError wraps a sentinel error with the HTTP status code, the request
// URL, and the response body for debugging.
type APIError struct {
	StatusCode int
	URL        string
	Message    string
	Err        error // sentinel, for errors.Is()
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("canvas: HTTP %d from %s: %s", e.StatusCode, e.URL, e.Message)
	}

	return fmt.Sprintf("canvas: HTTP %d from %s", e.StatusCode, e.URL)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// classifyStatus maps an HTTP status code to a sentinel error.
// Returns nil for 2xx success codes.
func classifyStatus(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrThrottled
	default:
		if code >= http.StatusInternalServerError {
			return ErrServerError
		}

		return nil
	}
}

// isRetryable reports whether the given HTTP status code should be retried.
// Authorization failures (401/403) are deliberately excluded: retrying them
// cannot succeed and callers depend on seeing them immediately to decide
// whether to skip a course.
func isRetryable(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
