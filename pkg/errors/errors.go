// Package errors provides structured error types for gitseeker.
//
// Errors carry a machine-readable [Code] so the CLI and the HTTP server can
// map them to exit messages and status codes without string matching:
//
//	err := errors.New(errors.ErrCodeInvalidQuery, "query cannot be empty")
//	if errors.Is(err, errors.ErrCodeInvalidQuery) {
//	    // reject before any network call
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeAIProvider, origErr, "openai stream")
//
// Registry adapters never surface errors to callers; codes in this package
// describe caller input problems, AI collaborator failures and configuration
// issues.
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error category.
type Code string

const (
	// Rejected caller input.
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidQuery   Code = "INVALID_QUERY"
	ErrCodeInvalidSource  Code = "INVALID_SOURCE"
	ErrCodeNoSources      Code = "NO_SOURCES"
	ErrCodeInvalidPackage Code = "INVALID_PACKAGE"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"

	ErrCodeNotFound Code = "NOT_FOUND"

	// Registry traffic.
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// AI collaborator.
	ErrCodeAborted      Code = "ABORTED"
	ErrCodeBusy         Code = "BUSY"
	ErrCodeUnauthorized Code = "UNAUTHORIZED"
	ErrCodeAIProvider   Code = "AI_PROVIDER"

	ErrCodeConfig   Code = "CONFIG"
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error pairs a [Code] with a human-readable message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message and no cause.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error that keeps cause reachable through errors.Is/As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the first *Error in err's chain carries code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage strips the code prefix and cause: it is what the CLI prints
// and what the server puts in the "error" field.
func UserMessage(err error) string {
	if e, ok := asError(err); ok {
		return e.Message
	}
	return err.Error()
}

// IsCallerError reports whether err was caused by invalid caller input.
// The HTTP server answers these with 400 and the CLI exits with status 2.
func IsCallerError(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidQuery, ErrCodeInvalidSource,
		ErrCodeNoSources, ErrCodeInvalidPackage, ErrCodeInvalidFormat:
		return true
	}
	return false
}
