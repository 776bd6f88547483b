// Package errors classifies domain errors so that transports can map them to
// status codes without knowing every domain.
package errors

import (
	"errors"
	"net/http"
)

// Error kinds. Domain errors wrap exactly one of these.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalid      = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrRateLimited  = errors.New("rate limited")
	ErrUnavailable  = errors.New("service unavailable")
)

// AppError is a domain error with a stable machine-readable code.
type AppError struct {
	Code    string
	Message string
	Kind    error
}

// New creates a domain error of kind.
func New(kind error, code, message string) *AppError {
	return &AppError{Code: code, Message: message, Kind: kind}
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return e.Message
}

// Unwrap returns the error kind.
func (e *AppError) Unwrap() error {
	return e.Kind
}

// StatusCode returns the HTTP status code for err. Unclassified errors are
// internal.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the code of the outermost AppError in err's chain, or
// "internal_error".
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "internal_error"
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsClientError reports whether err maps to a 4xx status.
func IsClientError(err error) bool {
	status := StatusCode(err)
	return status >= 400 && status < 500
}
