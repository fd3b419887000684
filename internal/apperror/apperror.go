// Package apperror defines the error kind handlers raise for failures the
// client caused: it carries the HTTP status and the message shown to the
// caller.
package apperror

import (
	"errors"
	"net/http"
)

type Error struct {
	Message string
	Status  int
	// Fields lists every validation failure when the error came from
	// request validation. Message is always the first of them.
	Fields []FieldError
	Err    error
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns a 400 error.
func New(message string) *Error {
	return &Error{Message: message, Status: http.StatusBadRequest}
}

func WithStatus(status int, message string) *Error {
	return &Error{Message: message, Status: status}
}

func NotFound(message string) *Error {
	return WithStatus(http.StatusNotFound, message)
}

func Forbidden(message string) *Error {
	return WithStatus(http.StatusForbidden, message)
}

// Wrap keeps cause for logging while showing message to the client.
func Wrap(cause error, status int, message string) *Error {
	return &Error{Message: message, Status: status, Err: cause}
}

func Validation(fields []FieldError) *Error {
	msg := "Validation failed"
	if len(fields) > 0 {
		msg = fields[0].Message
	}
	return &Error{Message: msg, Status: http.StatusBadRequest, Fields: fields}
}

// As reports whether err is or wraps an *Error.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
