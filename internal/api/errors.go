package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnexpectedRedirect is returned when the API answers with a redirect. The API never
	// redirects when correctly deployed, so this points at a misconfigured base URL or proxy.
	ErrUnexpectedRedirect = errors.New("api: unexpected redirect")

	// ErrNotModified is returned for 304 answers to conditional requests.
	ErrNotModified = errors.New("api: not modified")

	// ErrNotFound is returned by typed endpoints when the resource does not exist.
	ErrNotFound = errors.New("api: not found")
)

// StatusError reports a non-2xx response. Message is the response body text.
type StatusError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// TransportError wraps network level failures (DNS, TLS, connection resets, timeouts).
type TransportError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("api: %s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap exposes the underlying error.
func (e *TransportError) Unwrap() error { return e.Err }
