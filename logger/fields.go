package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across vkdoc.
// Use these constants instead of raw strings.
const (
	// Identity
	FieldRunID     = "run_id"
	FieldComponent = "component"

	// Registry
	FieldSymbol = "symbol"
	FieldKind   = "kind"
	FieldOwner  = "owner"
	FieldAlias  = "alias"
	FieldCommit = "commit"

	// Documents
	FieldDocument = "document"
	FieldMarker   = "marker"
	FieldCategory = "category"
	FieldTitle    = "title"

	// Files and paths
	FieldPath = "path"
	FieldFile = "file"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts
	FieldCount   = "count"
	FieldSkipped = "skipped"
	FieldChanged = "changed"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
//	conv := convert.New(idx, logger.ComponentLogger("convert"))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
//	docLogger := logger.ChildLogger(base, logger.FieldDocument, path)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
