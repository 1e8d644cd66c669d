package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidRequest marks a request body that failed client-side validation.
// Such requests are never sent to the network.
var ErrInvalidRequest = errors.New("invalid request")

// IsValidationError reports a client-side validation failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest)
}

// NetworkError means the request failed before the server produced a
// response (timeout, DNS, connection reset). Always retryable.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError is a non-2xx response from the upstream API. Status is kept so
// the presentation layer can decide between re-auth (401), surface (403/404)
// and retry with backoff (5xx).
type HTTPError struct {
	Status  int
	Code    string
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("upstream %d: %s", e.Status, http.StatusText(e.Status))
}

// IsRetryable reports whether a failed call may succeed if re-issued:
// network failures and 5xx responses.
func IsRetryable(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status >= 500
	}
	return false
}

// IsUnauthorized reports a 401 response, which must route to the
// re-authentication flow instead of being treated as a generic failure.
func IsUnauthorized(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == http.StatusUnauthorized
}

// IsNotFound reports a 404 response.
func IsNotFound(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound
}
