// Package errors provides error handling for the admission subsystem.
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
//	// Check errors
//	if errors.Is(err, errors.ErrNotFound) {
//	    // handle not found
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
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Sentinel errors for the admission decision subsystem.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrNotFound indicates the applicant (or other record) does not exist.
	// Fatal to the single operation that raised it; never retried.
	ErrNotFound = New("not found")

	// ErrPersistence indicates a record store write failed. The attempted
	// status transition is considered not applied; callers must not assume
	// the record changed.
	ErrPersistence = New("persistence failure")

	// ErrRender indicates the letter template could not be filled.
	// The notification aborts before any delivery attempt.
	ErrRender = New("render failure")

	// ErrTransport indicates mail delivery failed. The status change has
	// already committed; the failure is reported but never rolls it back.
	ErrTransport = New("transport failure")

	// ErrInvalidRequest indicates the request was malformed or invalid
	ErrInvalidRequest = New("invalid request")
)

// IsNotFound checks if an error is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsPersistence checks if an error is or wraps ErrPersistence
func IsPersistence(err error) bool {
	return err != nil && Is(err, ErrPersistence)
}

// IsRender checks if an error is or wraps ErrRender
func IsRender(err error) bool {
	return err != nil && Is(err, ErrRender)
}

// IsTransport checks if an error is or wraps ErrTransport
func IsTransport(err error) bool {
	return err != nil && Is(err, ErrTransport)
}

// IsInvalidRequest checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequest(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// NewNotFound creates a not-found error with a formatted message
func NewNotFound(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// WrapPersistence wraps a store write error as a persistence error with context.
// The original driver error stays reachable through the error chain.
func WrapPersistence(err error, context string) error {
	return Wrap(Wrap(ErrPersistence, err.Error()), context)
}
