package storage

import (
	"context"
	"errors"
	"sync"
)

// errBackendDown simulates an unreachable backend in tests
var errBackendDown = errors.New("backend unavailable")

// MemoryBackend keeps keys in process memory only. It is the degraded mode
// used when no durable backend could be opened, and the standard test double.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string]string

	// Failure switches for tests
	failGet bool
	failSet bool
}

var _ Backend = (*MemoryBackend)(nil)

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		values: make(map[string]string),
	}
}

func (b *MemoryBackend) Name() string { return "memory" }

// SetFailureModes configures simulated failures for tests
func (b *MemoryBackend) SetFailureModes(failGet, failSet bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failGet = failGet
	b.failSet = failSet
}

func (b *MemoryBackend) Get(ctx context.Context, key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.failGet {
		return "", false, errBackendDown
	}
	value, found := b.values[key]
	return value, found, nil
}

func (b *MemoryBackend) Set(ctx context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failSet {
		return errBackendDown
	}
	b.values[key] = value
	return nil
}

func (b *MemoryBackend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failSet {
		return errBackendDown
	}
	delete(b.values, key)
	return nil
}

func (b *MemoryBackend) Flush(ctx context.Context) error { return nil }

func (b *MemoryBackend) Close() error { return nil }

// Len reports the number of stored keys (test helper)
func (b *MemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.values)
}
