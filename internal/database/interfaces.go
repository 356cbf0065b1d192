package database

import (
	"context"
	"database/sql"
)

// Service defines the interface for database lifecycle management
type Service interface {
	Connect(ctx context.Context, config *Config) error
	Close() error
	Migrate(ctx context.Context) error
	Health(ctx context.Context) error
	DB() *sql.DB
}

// MigrationManager defines the interface for migration operations
type MigrationManager interface {
	RunMigrations(ctx context.Context) error
	GetCurrentVersion(ctx context.Context) (int64, error)
	ValidateMigrations() error
}
