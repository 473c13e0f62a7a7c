// Package errors provides structured error types for the farewatch application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and pipeline
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes separate run-scoped failures from query-scoped ones. A
// CONFIG_MISSING or UNAUTHORIZED error aborts the whole run; RATE_LIMITED,
// NETWORK_ERROR, NOT_FOUND and MALFORMED_RESPONSE are scoped to a single
// search query and never abort the scan.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "invalid route: %s", route)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "search %s->%s failed", o, d)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidRoute    Code = "INVALID_ROUTE"
	ErrCodeInvalidCabin    Code = "INVALID_CABIN"
	ErrCodeInvalidCurrency Code = "INVALID_CURRENCY"

	// Configuration errors (fatal before any query runs)
	ErrCodeConfigMissing Code = "CONFIG_MISSING"

	// Provider errors
	ErrCodeUnauthorized Code = "UNAUTHORIZED"       // fatal for the whole run
	ErrCodeRateLimited  Code = "RATE_LIMITED"       // retryable
	ErrCodeNetwork      Code = "NETWORK_ERROR"      // retryable
	ErrCodeNotFound     Code = "NOT_FOUND"          // zero offers, not an error
	ErrCodeMalformed    Code = "MALFORMED_RESPONSE" // zero offers for that query

	// Delivery errors
	ErrCodeDelivery Code = "DELIVERY_FAILED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Fatal reports whether err should abort the whole run rather than just the
// query it occurred on.
func Fatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeConfigMissing, ErrCodeUnauthorized:
		return true
	}
	return false
}
