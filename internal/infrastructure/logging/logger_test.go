package logging

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"launchgrid/internal/testutils"
)

// captureLogger records calls so the helpers can be asserted on without
// parsing JSON output
type captureLogger struct {
	mu      sync.Mutex
	level   string
	message string
	fields  []interface{}
}

func (l *captureLogger) set(level, msg string, fields []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level, l.message, l.fields = level, msg, fields
}

func (l *captureLogger) Debug(msg string, fields ...interface{}) { l.set("DEBUG", msg, fields) }
func (l *captureLogger) Info(msg string, fields ...interface{})  { l.set("INFO", msg, fields) }
func (l *captureLogger) Warn(msg string, fields ...interface{})  { l.set("WARN", msg, fields) }
func (l *captureLogger) Error(msg string, fields ...interface{}) { l.set("ERROR", msg, fields) }

// fakeStoreError satisfies the StoreError interface without importing the
// errors package
type fakeStoreError struct {
	code      string
	retryable bool
	context   map[string]string
}

func (e *fakeStoreError) Error() string { return "backend unavailable" }
func (e *fakeStoreError) GetCode() string { return e.code }
func (e *fakeStoreError) IsRetryable() bool { return e.retryable }
func (e *fakeStoreError) GetContext() map[string]string { return e.context }
func (e *fakeStoreError) GetTimestamp() time.Time { return time.Unix(0, 0) }

func TestFieldsToMap(t *testing.T) {
	tests := []struct {
		name     string
		fields   []interface{}
		expected map[string]interface{}
	}{
		{
			name:     "well-formed pairs",
			fields:   []interface{}{"user", "alice", "entries", 12},
			expected: map[string]interface{}{"user": "alice", "entries": 12},
		},
		{
			name:   "non-string key falls back to indexed keys",
			fields: []interface{}{42, "value"},
			expected: map[string]interface{}{
				"field_0":       42,
				"field_0_value": "value",
			},
		},
		{
			name:   "odd field count keeps the dangling value",
			fields: []interface{}{"key", "value", "dangling"},
			expected: map[string]interface{}{
				"key":     "value",
				"field_1": "dangling",
			},
		},
		{
			name:     "empty fields",
			fields:   nil,
			expected: map[string]interface{}{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := fieldsToMap(tt.fields)

			if len(result) != len(tt.expected) {
				t.Errorf("expected %d entries, got %d: %v", len(tt.expected), len(result), result)
			}
			for key, want := range tt.expected {
				if got := result[key]; got != want {
					t.Errorf("key %q: expected %v, got %v", key, want, got)
				}
			}
		})
	}
}

func TestLogStoreError_WithStoreError(t *testing.T) {
	logger := &captureLogger{}

	LogStoreError(logger, &fakeStoreError{
		code:      "UNAVAILABLE",
		retryable: true,
		context:   map[string]string{"key": "alice_userAppOrder"},
	}, "Load", map[string]interface{}{"user": "alice"})

	if logger.level != "ERROR" {
		t.Errorf("expected ERROR level, got %q", logger.level)
	}
	if !strings.Contains(logger.message, "Store error") {
		t.Errorf("unexpected message %q", logger.message)
	}

	fields := testutils.FieldsToMap(t, logger.fields)
	if fields["operation"] != "Load" {
		t.Errorf("missing operation field: %v", fields)
	}
	if fields["error_code"] != "UNAVAILABLE" {
		t.Errorf("missing error_code field: %v", fields)
	}
	if fields["retryable"] != true {
		t.Errorf("missing retryable field: %v", fields)
	}
	if fields["key"] != "alice_userAppOrder" {
		t.Errorf("store error context not merged: %v", fields)
	}
	if fields["user"] != "alice" {
		t.Errorf("caller context not merged: %v", fields)
	}
}

func TestLogStoreError_WithPlainError(t *testing.T) {
	logger := &captureLogger{}

	LogStoreError(logger, errors.New("boom"), "Save", nil)

	if logger.level != "ERROR" {
		t.Errorf("expected ERROR level, got %q", logger.level)
	}
	if !strings.Contains(logger.message, "Unexpected error") {
		t.Errorf("unexpected message %q", logger.message)
	}

	fields := testutils.FieldsToMap(t, logger.fields)
	if fields["operation"] != "Save" {
		t.Errorf("missing operation field: %v", fields)
	}
	if _, ok := fields["error_type"]; !ok {
		t.Errorf("missing error_type field: %v", fields)
	}
}

func TestLogStoreOperation(t *testing.T) {
	logger := &captureLogger{}

	LogStoreOperation(logger, "Load", 42*time.Millisecond, map[string]interface{}{
		"user":    "alice",
		"entries": 7,
	})

	if logger.level != "INFO" {
		t.Errorf("expected INFO level, got %q", logger.level)
	}

	fields := testutils.FieldsToMap(t, logger.fields)
	if fields["operation"] != "Load" {
		t.Errorf("missing operation field: %v", fields)
	}
	if fields["duration_ms"] != int64(42) {
		t.Errorf("unexpected duration field: %v", fields["duration_ms"])
	}
	if fields["entries"] != 7 {
		t.Errorf("caller context not merged: %v", fields)
	}
}

func TestDefaultLoggerDoesNotPanic(t *testing.T) {
	logger := NewDefaultLogger()

	// Exercise every level, including fields JSON cannot marshal
	logger.Debug("debug message", "key", "value")
	logger.Info("info message", "odd")
	logger.Warn("warn message", 1, 2)
	logger.Error("error message", "fn", func() {})
}
