// Package apperrors defines the coded errors shared by the store, service and
// handler layers.
//
// Services and repositories return *Error values; handlers pick the HTTP status
// from the code:
//
//	if errors.Is(err, apperrors.ErrNotFound) {
//		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
//	}
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error class.
type Code string

const (
	CodeNotFound   Code = "NOT_FOUND"
	CodeConflict   Code = "CONFLICT"
	CodeValidation Code = "VALIDATION"
	CodeInternal   Code = "INTERNAL"
)

// HTTPStatus maps the code to a response status.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, a client-safe message and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the response status for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a copy carrying details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: details, cause: e.cause}
}

// WithCause returns a copy wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: e.Details, cause: err}
}

// Sentinels for errors.Is.
var (
	ErrNotFound   = &Error{Code: CodeNotFound, Message: "record not found"}
	ErrConflict   = &Error{Code: CodeConflict, Message: "conflict"}
	ErrValidation = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrInternal   = &Error{Code: CodeInternal, Message: "internal error"}
)

func NotFound(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

// Validation builds a validation error whose details are the per-field messages.
func Validation(details any) *Error {
	return &Error{Code: CodeValidation, Message: "validation failed", Details: details}
}

// Store wraps a lower-level persistence failure. The cause is kept for logs
// and never rendered to clients.
func Store(op string, err error) *Error {
	return &Error{Code: CodeInternal, Message: op, cause: err}
}

// CodeOf returns the code of err, or CodeInternal for foreign errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// DetailsOf returns the details of a coded error.
func DetailsOf(err error) any {
	var e *Error
	if errors.As(err, &e) {
		return e.Details
	}
	return nil
}
