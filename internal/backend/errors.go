package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// Errors returned by the backend client. StatusError unwraps to the matching
// sentinel so callers can use errors.Is.
var (
	ErrUnauthorized       = errors.New("not authenticated")
	ErrQuotaExceeded      = errors.New("quota exceeded")
	ErrNotFound           = errors.New("resource not found")
	ErrNetworkUnavailable = errors.New("network unavailable")
	ErrTimeout            = errors.New("operation timed out")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrUnexpectedStatus   = errors.New("unexpected backend status")
)

// StatusError is a non-2xx response from the backend
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("backend returned %d: %s", e.Code, e.Detail)
}

// Unwrap maps well-known status codes to sentinel errors
func (e *StatusError) Unwrap() error {
	switch {
	case e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden:
		return ErrUnauthorized
	case e.Code == http.StatusTooManyRequests:
		return ErrQuotaExceeded
	case e.Code == http.StatusNotFound:
		return ErrNotFound
	case e.Code >= 500:
		return ErrServiceUnavailable
	}
	return nil
}

// StatusCode extracts the HTTP status from err, or 0 when err is not a StatusError
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
