// Package apierror defines the typed errors the transition engine raises.
// Each carries an HTTP-like status code and a fixed, stable message that API
// consumers and tests match on exact text.
package apierror

import (
	"errors"
	"net/http"
)

// Error is a (status, message) pair raised synchronously from use-case
// handlers and propagated unchanged to the transport layer.
type Error struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// NewNotFound returns a 404 error: target aggregate/form absent.
func NewNotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

// NewForbidden returns a 403 error: actor fails the authorization resolver.
func NewForbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

// NewUnprocessable returns a 422 error: a guard precondition was violated.
func NewUnprocessable(message string) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Message: message}
}

// NewConflict returns a 409 error: an optimistic concurrency check failed.
func NewConflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Message: message}
}

// NewConfiguration returns a 500 error: required configuration (such as a
// journal account mapping) is missing. This is an operator problem, not a
// data problem.
func NewConfiguration(message string) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message}
}

// StatusOf extracts the HTTP status for err, defaulting to 500.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return http.StatusInternalServerError
}
