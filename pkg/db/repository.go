package db

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/mealhelper/mealhelper/pkg/errors"
	_ "modernc.org/sqlite"
)

// Repository provides database operations for entries, settings and images.
// A Repository is an explicit handle; callers open one and pass it where needed.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// NewRepository creates a new repository
func NewRepository(dbPath string) (*Repository, error) {
	slog.Info("database_init", "db_path", dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		slog.Error("database_open_failed", "db_path", dbPath, "error", err)
		return nil, errors.Wrap(err, "failed to open database")
	}

	// SQLite allows a single writer; one connection serializes transactions.
	db.SetMaxOpenConns(1)

	slog.Info("database_create_schema", "db_path", dbPath)
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		slog.Error("database_schema_failed", "db_path", dbPath, "error", err)
		return nil, errors.Wrap(err, "failed to create schema")
	}

	slog.Info("database_ready", "db_path", dbPath)
	return &Repository{db: db, now: time.Now}, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// ClearAll removes every entry, image and setting in one transaction
func (r *Repository) ClearAll(ctx context.Context) error {
	slog.Info("database_clear_all")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed_to_begin_transaction", "error", err)
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	for _, table := range []string{"entries", "images", "settings"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			slog.Error("database_clear_failed", "table", table, "error", err)
			return errors.Wrap(err, "failed to clear "+table)
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed_to_commit_transaction", "error", err)
		return errors.Wrap(err, "failed to commit transaction")
	}

	slog.Info("database_cleared")
	return nil
}
