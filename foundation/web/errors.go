package web

import (
	"net/http"

	"github.com/pkg/errors"
)

// Error is an error with an HTTP status attached. Anything else reaching
// RespondError is reported as 500.
type Error struct {
	Err    error
	Status int
	Fields map[string]string
}

// NewRequestError wraps err with the status that should be sent to the client.
func NewRequestError(err error, status int) error {
	return &Error{Err: err, Status: status}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return http.StatusText(e.Status)
	}
	return e.Err.Error()
}

// Cause lets errors.Cause see through a request error.
func (e *Error) Cause() error {
	return e.Err
}

// Unwrap lets errors.Is and errors.As see through a request error.
func (e *Error) Unwrap() error {
	return e.Err
}

// StatusOf returns the status carried by err, or 500.
func StatusOf(err error) int {
	var webErr *Error
	if errors.As(err, &webErr) && webErr.Status != 0 {
		return webErr.Status
	}
	return http.StatusInternalServerError
}
