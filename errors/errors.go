// Package errors provides error handling for lingua.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - PII-safe error formatting
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "try increasing the timeout")
//
//	// Check errors
//	if errors.Is(err, errors.ErrToolUnavailable) {
//	    // fall back to heuristic check
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapOnce     = crdb.UnwrapOnce
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Common sentinel errors for use across lingua.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrParseFailure indicates source code could not be structurally parsed.
	// Providers recover from this internally; it surfaces only when recovery
	// itself is impossible (e.g. unreadable file).
	ErrParseFailure = New("parse failure")

	// ErrSyntaxInvalid indicates source code failed syntax validation
	ErrSyntaxInvalid = New("syntax invalid")

	// ErrToolUnavailable indicates an external tool (compiler, interpreter,
	// test runner) is not installed or not on PATH
	ErrToolUnavailable = New("tool unavailable")

	// ErrAIService indicates the AI provider request failed after retries
	ErrAIService = New("ai service error")

	// ErrNoProvider indicates no language provider is registered for a language
	ErrNoProvider = New("no provider for language")

	// ErrConfig indicates invalid or missing configuration
	ErrConfig = New("invalid configuration")

	// ErrTimeout indicates an operation timed out
	ErrTimeout = New("operation timed out")

	// ErrConflict indicates a registration conflict (e.g., duplicate provider)
	ErrConflict = New("resource conflict")
)

// IsToolUnavailableError checks if an error is or wraps ErrToolUnavailable
func IsToolUnavailableError(err error) bool {
	return err != nil && Is(err, ErrToolUnavailable)
}

// IsTimeoutError checks if an error is or wraps ErrTimeout
func IsTimeoutError(err error) bool {
	return err != nil && Is(err, ErrTimeout)
}

// IsNoProviderError checks if an error is or wraps ErrNoProvider
func IsNoProviderError(err error) bool {
	return err != nil && Is(err, ErrNoProvider)
}

// NewNoProviderError creates a no-provider error naming the language
func NewNoProviderError(language string) error {
	return Wrapf(ErrNoProvider, "language %q", language)
}

// NewConfigError creates a configuration error with a formatted message
func NewConfigError(format string, args ...interface{}) error {
	return Wrap(ErrConfig, Newf(format, args...).Error())
}
