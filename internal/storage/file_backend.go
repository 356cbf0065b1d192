package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	storeerrors "launchgrid/internal/infrastructure/errors"
	"launchgrid/internal/infrastructure/logging"
)

// FileBackend stores keys as a single JSON object in a file under the user
// config dir. It is the secondary (redundant) backend. Writes are atomic:
// temp file in the same directory, then rename.
type FileBackend struct {
	mu     sync.Mutex
	path   string
	values map[string]string
	logger logging.Logger
}

var _ Backend = (*FileBackend)(nil)

// NewFileBackend opens (or creates) the JSON file at path. An unreadable or
// malformed file is treated as empty rather than failing the backend: the
// next Set rewrites it whole.
func NewFileBackend(path string, logger logging.Logger) (*FileBackend, error) {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, storeerrors.HandleUnavailableError("NewFileBackend",
			fmt.Sprintf("failed to create directory for %s: %v", path, err))
	}

	b := &FileBackend{
		path:   path,
		values: make(map[string]string),
		logger: logger,
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run, nothing to load
	case err != nil:
		logger.Warn("Failed to read order file, starting empty", "path", path, "error", err)
	default:
		if jsonErr := json.Unmarshal(data, &b.values); jsonErr != nil {
			logger.Warn("Order file is malformed, starting empty", "path", path, "error", jsonErr)
			b.values = make(map[string]string)
		}
	}

	return b, nil
}

func (b *FileBackend) Name() string { return "file" }

// Get reads a key from the in-memory view of the file
func (b *FileBackend) Get(ctx context.Context, key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	value, found := b.values[key]
	return value, found, nil
}

// Set updates the key and rewrites the file (write-through)
func (b *FileBackend) Set(ctx context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.values[key] = value
	return b.writeLocked()
}

// Delete removes the key and rewrites the file
func (b *FileBackend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, found := b.values[key]; !found {
		return nil
	}
	delete(b.values, key)
	return b.writeLocked()
}

// Flush rewrites the file from the in-memory view
func (b *FileBackend) Flush(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.writeLocked()
}

// Close flushes and releases nothing else; the file handle is not kept open
func (b *FileBackend) Close() error {
	return b.Flush(context.Background())
}

// writeLocked atomically replaces the file contents. Callers hold b.mu.
func (b *FileBackend) writeLocked() error {
	data, err := json.MarshalIndent(b.values, "", "  ")
	if err != nil {
		return storeerrors.NewStoreError("writeLocked", err, storeerrors.ErrCodeValidation)
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.path), ".order-*.tmp")
	if err != nil {
		return storeerrors.WrapBackendError("writeLocked", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return storeerrors.WrapBackendError("writeLocked", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return storeerrors.WrapBackendError("writeLocked", err)
	}

	if err := os.Rename(tmpName, b.path); err != nil {
		os.Remove(tmpName)
		return storeerrors.WrapBackendError("writeLocked", err)
	}
	return nil
}
