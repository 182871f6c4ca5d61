package apperr

import (
	"errors"
	"net/http"
)

// Code classifies a failure so handlers can map it to an HTTP status.
type Code string

const (
	CodeValidation   Code = "validation"
	CodeConflict     Code = "conflict"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeNotFound     Code = "not_found"
	CodeInternal     Code = "internal"
)

// Error is a classified application error. Fields carries per-field detail
// for validation failures.
type Error struct {
	Code    Code
	Message string
	Fields  map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New builds an Error with the given code and user-facing message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a cause to a classified error. The cause is logged, never
// serialized to clients.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Validation builds a 400-class error with field-level detail.
func Validation(fields map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: "Validation failed", Fields: fields}
}

// As extracts an *Error from err, or nil when err is not classified.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// Status maps an error code to its HTTP status.
func Status(code Code) int {
	switch code {
	case CodeValidation, CodeConflict:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
