package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the failure taxonomy every handler and service speaks. Message is
// safe to show to the caller; Err is internal detail that only goes to logs.
type Error struct {
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error {
	return &Error{Code: http.StatusBadRequest, Message: msg}
}

func Authentication(msg string) *Error {
	return &Error{Code: http.StatusUnauthorized, Message: msg}
}

// Authorization is a role failure; Forbidden covers CSRF mismatches and
// revoked or expired refresh tokens. Both render as 403.
func Authorization(msg string) *Error {
	return &Error{Code: http.StatusForbidden, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Code: http.StatusForbidden, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Code: http.StatusConflict, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Code: http.StatusNotFound, Message: msg}
}

// Storage wraps a store failure. The caller only ever sees the generic
// message, never the underlying error.
func Storage(err error) *Error {
	return &Error{Code: http.StatusInternalServerError, Message: "internal server error", Err: err}
}

// As unwraps err into *Error if possible.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
