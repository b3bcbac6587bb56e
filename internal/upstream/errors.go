package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx answer from the platform.  Message is the body's
// "message" field and is shown to users verbatim when present.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: platform returned %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: platform returned %d", e.Op, e.Status)
}

// StatusOf returns the platform status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsNotFound reports whether err is a platform 404.
func IsNotFound(err error) bool { return StatusOf(err) == http.StatusNotFound }

// IsConflict reports whether err is a platform 409.
func IsConflict(err error) bool { return StatusOf(err) == http.StatusConflict }

// MessageOr returns the platform's message for err, or fallback when the
// error carries none.
func MessageOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
