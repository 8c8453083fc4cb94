package handler

import (
	"errors"
	"net/http"
)

var ErrNilResponse = errors.New("handler returned nil response")

// HTTPError is an error with the status code and message to send to the
// client. Cause is logged but never rendered.
type HTTPError struct {
	Code    int
	Message string
	Cause   error
}

// NewHTTPError creates an HTTPError. An empty message falls back to the
// status text.
func NewHTTPError(code int, message string) HTTPError {
	if message == "" {
		message = http.StatusText(code)
	}
	return HTTPError{Code: code, Message: message}
}

func (e HTTPError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e HTTPError) Unwrap() error { return e.Cause }

// WithCause returns a copy of e that wraps err.
func (e HTTPError) WithCause(err error) HTTPError {
	e.Cause = err
	return e
}

var (
	ErrBadRequest      = NewHTTPError(http.StatusBadRequest, "")
	ErrUnauthorized    = NewHTTPError(http.StatusUnauthorized, "")
	ErrForbidden       = NewHTTPError(http.StatusForbidden, "")
	ErrNotFound        = NewHTTPError(http.StatusNotFound, "")
	ErrConflict        = NewHTTPError(http.StatusConflict, "")
	ErrTooManyRequests = NewHTTPError(http.StatusTooManyRequests, "")
	ErrInternal        = NewHTTPError(http.StatusInternalServerError, "")
	ErrUnavailable     = NewHTTPError(http.StatusServiceUnavailable, "")
)
