// Package gateway holds thin HTTP clients for the four backend
// services the bot talks to. All calls share one error taxonomy:
// TransientError for network failures worth retrying, RequestError for
// HTTP status failures carried back to the caller.
package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// TransientError wraps a network-level failure (dial, timeout, reset)
// that the client retries before giving up.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return fmt.Sprintf("transient: %v", e.Err) }
func (e *TransientError) Unwrap() error { return e.Err }

// RequestError is a non-2xx response from a backend service.
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Body)
}

// IsTransient reports whether the error is a retried-and-failed
// network error.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// IsNotFound reports whether a call failed with 404.
func IsNotFound(err error) bool { return hasStatus(err, http.StatusNotFound) }

// IsConflict reports whether a call failed with 409.
func IsConflict(err error) bool { return hasStatus(err, http.StatusConflict) }

func hasStatus(err error, code int) bool {
	var re *RequestError
	return errors.As(err, &re) && re.StatusCode == code
}
