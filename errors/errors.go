// Package errors provides error handling for vkdoc.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for the CLI
//
// Usage:
//
//	// Wrap with context
//	if err := idx.Build(); err != nil {
//	    return errors.Wrap(err, "failed to index registry")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "run 'vkdoc fetch' to check out the registry")
//
//	// Check errors
//	if errors.Is(err, errors.ErrNotFound) {
//	    // symbol missing from the registry
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
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
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

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Stack traces
var (
	GetReportableStackTrace = crdb.GetReportableStackTrace
)

// GetStack is an alias for GetReportableStackTrace for convenience.
var GetStack = crdb.GetReportableStackTrace

// Registry and conversion sentinels.
// Use these with errors.Is(); wrap them to add context while preserving the type.
var (
	// ErrNotFound indicates a symbol, file or key does not exist
	ErrNotFound = New("not found")

	// ErrDuplicateDefinition indicates a name was defined twice in the same table
	ErrDuplicateDefinition = New("duplicate definition")

	// ErrUnexpectedShape indicates a symbol does not have the structure its kind requires
	ErrUnexpectedShape = New("unexpected shape")

	// ErrUnresolvableIdentifier indicates an enum variant does not carry its group prefix
	ErrUnresolvableIdentifier = New("unresolvable identifier")

	// ErrCycleDetected indicates an alias chain loops back on itself
	ErrCycleDetected = New("alias cycle detected")

	// ErrMarkerMismatch indicates the two paths of a generation marker disagree
	ErrMarkerMismatch = New("marker paths disagree")

	// ErrInvalidConfig indicates a configuration value is out of range or malformed
	ErrInvalidConfig = New("invalid configuration")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsFatal reports whether err belongs to the class of conditions that abort a run:
// malformed registry data or a document that references something unusable.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return IsAny(err,
		ErrNotFound,
		ErrDuplicateDefinition,
		ErrUnexpectedShape,
		ErrUnresolvableIdentifier,
		ErrCycleDetected,
		ErrMarkerMismatch,
	)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}
