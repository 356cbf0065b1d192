package storage

import (
	"context"
	"database/sql"
	"errors"

	"launchgrid/internal/database"
	storeerrors "launchgrid/internal/infrastructure/errors"
	"launchgrid/internal/infrastructure/logging"
)

// SQLiteBackend stores keys in the settings table managed by the database
// service. It is the primary backend.
type SQLiteBackend struct {
	service     database.Service
	retryConfig *storeerrors.RetryConfig
	logger      logging.Logger
}

var _ Backend = (*SQLiteBackend)(nil)

// NewSQLiteBackend creates a backend on top of a connected database service
func NewSQLiteBackend(service database.Service, logger logging.Logger) *SQLiteBackend {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &SQLiteBackend{
		service:     service,
		retryConfig: storeerrors.DefaultRetryConfig(),
		logger:      logger,
	}
}

// SetRetryConfig overrides the retry policy used for busy/locked databases
func (b *SQLiteBackend) SetRetryConfig(config *storeerrors.RetryConfig) {
	if config != nil {
		b.retryConfig = config
	}
}

func (b *SQLiteBackend) Name() string { return "sqlite" }

// Get reads a single key. A missing row is not an error.
func (b *SQLiteBackend) Get(ctx context.Context, key string) (string, bool, error) {
	db := b.service.DB()
	if db == nil {
		return "", false, storeerrors.HandleUnavailableError("Get", "database not connected")
	}

	var value string
	err := storeerrors.WithRetryNamed(ctx, b.retryConfig, "Get", func() error {
		row := db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key)
		if err := row.Scan(&value); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return err
			}
			return storeerrors.WrapBackendError("Get", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// Set writes a single key as a full overwrite
func (b *SQLiteBackend) Set(ctx context.Context, key, value string) error {
	db := b.service.DB()
	if db == nil {
		return storeerrors.HandleUnavailableError("Set", "database not connected")
	}

	return storeerrors.WithRetryNamed(ctx, b.retryConfig, "Set", func() error {
		_, err := db.ExecContext(ctx,
			`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
			key, value)
		if err != nil {
			return storeerrors.WrapBackendErrorWithContext("Set", err, map[string]string{
				"key": key,
			})
		}
		return nil
	})
}

// Delete removes a key; deleting a missing key is a no-op
func (b *SQLiteBackend) Delete(ctx context.Context, key string) error {
	db := b.service.DB()
	if db == nil {
		return storeerrors.HandleUnavailableError("Delete", "database not connected")
	}

	return storeerrors.WithRetryNamed(ctx, b.retryConfig, "Delete", func() error {
		if _, err := db.ExecContext(ctx, "DELETE FROM settings WHERE key = ?", key); err != nil {
			return storeerrors.WrapBackendError("Delete", err)
		}
		return nil
	})
}

// Flush checkpoints the WAL so the main database file is current. Failures
// are reported but harmless: SQLite checkpoints on its own eventually.
func (b *SQLiteBackend) Flush(ctx context.Context) error {
	db := b.service.DB()
	if db == nil {
		return storeerrors.HandleUnavailableError("Flush", "database not connected")
	}

	if _, err := db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return storeerrors.WrapBackendError("Flush", err)
	}
	return nil
}

// Close is a no-op: the database service owns the connection lifecycle
func (b *SQLiteBackend) Close() error {
	return nil
}
