package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error carries an HTTP status and a stable code alongside the cause.
// MessageKey names the localized, user-facing text and MessageArgs fill its
// verbs; the cause is only logged.
type Error struct {
	Status      int
	Code        string
	MessageKey  string
	MessageArgs []any
	Err         error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// WithMessage sets the localized message key and its arguments and returns e.
func (e *Error) WithMessage(key string, args ...any) *Error {
	e.MessageKey = key
	e.MessageArgs = args
	return e
}

// From extracts an *Error from err, or wraps it as a 500.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		return ae
	}
	return &Error{Status: http.StatusInternalServerError, Code: "internal_error", MessageKey: "error.internal", Err: err}
}
