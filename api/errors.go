package api

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkError wraps a transport-level failure: connection refused, DNS,
// context cancellation or deadline expiry. The request may never have
// reached the server.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError means the server received the request and rejected it with a
// non-2xx status. Body holds the raw response body for diagnostics.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Body)
}

// DecodeError means the server responded 2xx but the body could not be
// decoded into the expected shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// AuthError is a login/register failure carrying the server-supplied message.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed"
	}
	return e.Message
}

// ValidationError is a local precondition failure; the request was never sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsUnauthorized reports whether err is a 401-class HTTPError. Call sites use
// this to treat the failure as session expiry.
func IsUnauthorized(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == http.StatusUnauthorized
}
