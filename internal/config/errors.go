package config

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing configuration failures.
const (
	ErrConfig     = "CONFIG"
	ErrValidation = "VALIDATION"
)

// Error is a user-facing configuration failure with a suggested fix.
//
//	✗ <What failed>
//
//	  <Why it failed>
//
//	  <How to fix it>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{Code: code, Message: message, Suggestion: suggestion}
}

// WrapWithCode wraps err with a code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{Code: code, Message: message, Suggestion: suggestion, Cause: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "✗ %s\n", e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, "\n  %s\n", e.Cause.Error())
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n  %s\n", e.Suggestion)
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode reports whether err is an *Error with the given code.
func IsCode(err error, code string) bool {
	var cfgErr *Error
	if errors.As(err, &cfgErr) {
		return cfgErr.Code == code
	}
	return false
}
