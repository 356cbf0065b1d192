package errors

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"strconv"
	"strings"
)

// ClassifyError classifies backend errors into store error codes
func ClassifyError(err error) ErrorCode {
	if err == nil {
		return ErrCodeUnknown
	}

	// Driver-specific type assertions first for accurate classification
	if code := classifySQLiteError(err); code != ErrCodeUnknown {
		return code
	}

	// Standard library errors
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrCodeNotFound
	case errors.Is(err, fs.ErrNotExist):
		return ErrCodeNotFound
	case errors.Is(err, fs.ErrPermission):
		return ErrCodePermission
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrCodeTimeout
	}

	// Fall back to string-based classification
	errStr := strings.ToLower(err.Error())
	switch {
	case containsAny(errStr, "database is locked", "database table is locked"):
		return ErrCodeBusy
	case containsAny(errStr, "database disk image is malformed", "file is not a database"):
		return ErrCodeCorruption
	case containsAny(errStr, "unexpected end of json", "invalid character", "cannot unmarshal"):
		return ErrCodeCorruption
	case containsAny(errStr, "no such table", "no such column"):
		return ErrCodeSchema
	case containsAny(errStr, "permission denied", "access denied", "read-only file system"):
		return ErrCodePermission
	case containsAny(errStr, "no space left", "disk full"):
		return ErrCodeUnavailable
	case containsAny(errStr, "connection refused", "unable to open database"):
		return ErrCodeUnavailable
	case strings.Contains(errStr, "timeout"):
		return ErrCodeTimeout
	default:
		return ErrCodeUnknown
	}
}

// WrapBackendError wraps a storage backend error with store error context
func WrapBackendError(op string, err error) error {
	if err == nil {
		return nil
	}
	return NewStoreError(op, err, ClassifyError(err))
}

// WrapBackendErrorWithContext wraps a storage backend error with additional context
func WrapBackendErrorWithContext(op string, err error, contextMap map[string]string) error {
	if err == nil {
		return nil
	}
	return NewStoreErrorWithContext(op, err, ClassifyError(err), contextMap)
}

// HandleUnavailableError creates an unavailable-backend error from a message
func HandleUnavailableError(op, message string) error {
	return NewStoreError(op, errors.New(message), ErrCodeUnavailable)
}

// HandleCorruptionError creates a corruption error for an undecodable stored value
func HandleCorruptionError(op, key string, err error) error {
	return NewStoreErrorWithContext(op, err, ErrCodeCorruption, map[string]string{
		"key": key,
	})
}

// HandleInvalidIndexError creates an invalid-index error for an out-of-range move
func HandleInvalidIndexError(op string, index, length int) error {
	return NewStoreErrorWithContext(op,
		errors.New("index out of range"),
		ErrCodeInvalidIndex,
		map[string]string{
			"index":  strconv.Itoa(index),
			"length": strconv.Itoa(length),
		})
}

// HandleValidationError creates a validation error with field context
func HandleValidationError(op, field, value, message string) error {
	return NewStoreErrorWithContext(op,
		errors.New(message),
		ErrCodeValidation,
		map[string]string{
			"field": field,
			"value": value,
		})
}
