package errors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// UnknownCode is assigned to errors converted from plain error values.
const UnknownCode = 500

// Error is a structured error carrying an HTTP-ish status code, a
// user-presentable message and an optional wrapped cause.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error renders "code=..., message=..." with the cause appended when present.
func (e *Error) Error() string {
	var msg strings.Builder
	msg.WriteString("code=")
	msg.WriteString(strconv.Itoa(e.Code))
	msg.WriteString(", message=")
	msg.WriteString(e.Message)

	if e.cause != nil {
		msg.WriteString(", cause=")
		msg.WriteString(e.cause.Error())
	}

	return msg.String()
}

// Unwrap returns the cause of the error.
func (e *Error) Unwrap() error {
	return e.cause
}

// WithCause attaches a cause. Returns a new instance to keep sentinel errors
// immutable.
func (e *Error) WithCause(cause error) *Error {
	if cause == nil {
		return e
	}
	return &Error{Code: e.Code, Message: e.Message, cause: cause}
}

// Is reports whether err is an *Error with the same code and message,
// so sentinel errors survive WithCause/Wrap chains under errors.Is.
func (e *Error) Is(err error) bool {
	var ge *Error
	if errors.As(err, &ge) {
		return e.Code == ge.Code && e.Message == ge.Message
	}
	return false
}

// GetCode returns the error code.
func (e *Error) GetCode() int {
	return e.Code
}

// GetMessage returns the error message.
func (e *Error) GetMessage() string {
	return e.Message
}

// GetCause returns the wrapped cause, if any.
func (e *Error) GetCause() error {
	return e.cause
}

// New creates an error with the given code and formatted message.
func New(code int, format string, args ...any) *Error {
	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}

	return &Error{Code: code, Message: message}
}

// FromError converts a generic error to *Error. Plain errors map to
// UnknownCode so internal failures are never mistaken for client errors.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	var ge *Error
	if errors.As(err, &ge) {
		return ge
	}

	return New(UnknownCode, "%v", err)
}

// Wrap wraps err with a code and message while preserving the chain.
// Returns nil if err is nil.
func Wrap(err error, code int, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return New(code, format, args...).WithCause(err)
}
