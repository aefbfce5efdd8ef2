// Package backend selects and opens the persistence backend named by the
// configuration.
package backend

import (
	"context"
	"fmt"

	"expenses/internal/config"
	applog "expenses/internal/log"
	"expenses/internal/storage"
)

// Type names a persistence backend.
type Type string

const (
	FileBackend     Type = "file"
	SQLiteBackend   Type = "sqlite"
	PostgresBackend Type = "postgres"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid reports whether t is a known backend.
func (t Type) IsValid() bool {
	switch t {
	case FileBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}

// Open creates the store selected by cfg.DataBackend.
func Open(ctx context.Context, cfg *config.Config, logger *applog.Logger) (storage.Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app config is nil")
	}
	if logger == nil {
		logger = applog.FromSlog(nil)
	}
	logger = logger.WithComponent(applog.ComponentBackend)

	switch t := Type(cfg.DataBackend); t {
	case FileBackend:
		store := storage.NewFileStore(cfg.DataFile)
		logger.Info("Initialized file backend", "path", store.Path())
		return store, nil

	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return repo, nil

	case PostgresBackend:
		repo, err := storage.NewPostgresRepository(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres repository: %w", err)
		}
		logger.Info("Initialized Postgres backend")
		return repo, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", t)
	}
}
