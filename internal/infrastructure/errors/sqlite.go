package errors

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// classifySQLiteError attempts to classify SQLite-specific errors using type
// assertions. Returns ErrCodeUnknown if the error is not a sqlite3.Error.
func classifySQLiteError(err error) ErrorCode {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return ErrCodeUnknown
	}

	switch sqliteErr.Code {
	// Database corruption
	case sqlite3.ErrCorrupt, sqlite3.ErrNotADB:
		return ErrCodeCorruption

	// Permission and access errors
	case sqlite3.ErrPerm, sqlite3.ErrAuth, sqlite3.ErrReadonly:
		return ErrCodePermission

	// Contention
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return ErrCodeBusy

	// Connection and I/O errors
	case sqlite3.ErrCantOpen, sqlite3.ErrIoErr:
		return ErrCodeUnavailable

	// Schema errors (indicate database schema/migration problems)
	case sqlite3.ErrSchema:
		return ErrCodeSchema

	// Bad input reaching the driver
	case sqlite3.ErrConstraint, sqlite3.ErrMismatch:
		return ErrCodeValidation

	default:
		return ErrCodeUnknown
	}
}

// containsAny reports whether s contains any of the substrings.
func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
