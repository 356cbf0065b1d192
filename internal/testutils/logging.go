// Package testutils holds helpers shared by package tests.
package testutils

import (
	"strings"
	"sync"
)

// TestingT is the subset of testing.T these helpers need
type TestingT interface {
	Errorf(format string, args ...any)
}

// FieldsToMap converts alternating key-value log fields to a map, reporting
// malformed entries through t instead of panicking.
func FieldsToMap(t TestingT, fields []any) map[string]any {
	out := make(map[string]any)

	for i := 0; i < len(fields); i += 2 {
		if i+1 >= len(fields) {
			t.Errorf("fields slice has no value for key at index %d", i)
			continue
		}
		key, ok := fields[i].(string)
		if !ok {
			t.Errorf("fields slice key at index %d is %T, want string", i, fields[i])
			continue
		}
		out[key] = fields[i+1]
	}

	return out
}

// LogEntry is one captured log call
type LogEntry struct {
	Level   string
	Message string
	Fields  []any
}

// RecordingLogger implements logging.Logger and captures every call so tests
// can assert on what was logged. Safe for concurrent use.
type RecordingLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewRecordingLogger returns an empty recording logger
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

func (l *RecordingLogger) record(level, msg string, fields []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Message: msg, Fields: fields})
}

func (l *RecordingLogger) Debug(msg string, fields ...any) { l.record("DEBUG", msg, fields) }
func (l *RecordingLogger) Info(msg string, fields ...any)  { l.record("INFO", msg, fields) }
func (l *RecordingLogger) Warn(msg string, fields ...any)  { l.record("WARN", msg, fields) }
func (l *RecordingLogger) Error(msg string, fields ...any) { l.record("ERROR", msg, fields) }

// Entries returns a copy of the captured log calls
func (l *RecordingLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Contains reports whether any captured message contains the substring at the
// given level; an empty level matches all levels.
func (l *RecordingLogger) Contains(level, substring string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if level != "" && e.Level != level {
			continue
		}
		if strings.Contains(e.Message, substring) {
			return true
		}
	}
	return false
}
