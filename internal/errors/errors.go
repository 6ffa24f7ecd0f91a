package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation is returned when a field fails shape or content validation.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized is returned for bad credentials or a bad/missing/expired token.
	ErrUnauthorized = errors.New("credentials invalid or not provided")
	// ErrConflict is returned when a unique field is already taken.
	ErrConflict = errors.New("the username is already registered")
	// ErrNotFound is returned for an unknown resource or route.
	ErrNotFound = errors.New("not found")
)

// ErrorResponse is the JSON envelope for every error returned to a client.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	// Cause carries diagnostic detail and is populated in development mode only.
	Cause string `json:"cause,omitempty"`
}

// HTTPError pairs a taxonomy error with its status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: message}
}

// MapErrorToHTTP maps a domain error to an HTTP error. Anything outside the
// taxonomy collapses to a 500 with a generic message so internal detail never
// reaches a client.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, "the request cannot be processed due to a client error (for example, a validation error)")
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthorized.Error())
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, ErrConflict.Error())
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
