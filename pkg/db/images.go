package db

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/mealhelper/mealhelper/pkg/errors"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// StoreImage saves image bytes under id, replacing any existing image with
// the same id. Callers generate the id.
func (r *Repository) StoreImage(ctx context.Context, id string, data []byte) error {
	return putImage(ctx, r.db, id, data)
}

func putImage(ctx context.Context, ex execer, id string, data []byte) error {
	slog.Info("database_store_image", "image_id", id, "size_bytes", len(data))

	_, err := ex.ExecContext(ctx,
		`INSERT INTO images (id, data) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data`,
		id, data)
	if err != nil {
		slog.Error("database_store_image_failed", "image_id", id, "error", err)
		return errors.Wrap(err, "failed to store image")
	}
	return nil
}

// GetImage returns the image stored under id. It returns nil, nil when no
// such image exists.
func (r *Repository) GetImage(ctx context.Context, id string) ([]byte, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT data FROM images WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		slog.Info("database_image_not_found", "image_id", id)
		return nil, nil
	}
	if err != nil {
		slog.Error("database_query_failed", "image_id", id, "error", err)
		return nil, errors.Wrap(err, "failed to query image")
	}
	return data, nil
}

// ListImageIDs returns the ids of all stored images
func (r *Repository) ListImageIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM images ORDER BY created_at, id`)
	if err != nil {
		slog.Error("database_list_query_failed", "error", err)
		return nil, errors.Wrap(err, "failed to list images")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows error")
	}
	return ids, nil
}

// PruneOrphanedImages deletes images that no entry references and returns how
// many were removed.
func (r *Repository) PruneOrphanedImages(ctx context.Context) (int64, error) {
	slog.Info("database_prune_images")

	result, err := r.db.ExecContext(ctx,
		`DELETE FROM images WHERE id NOT IN (SELECT image_id FROM entries WHERE image_id IS NOT NULL)`)
	if err != nil {
		slog.Error("database_prune_failed", "error", err)
		return 0, errors.Wrap(err, "failed to prune images")
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get rows affected")
	}

	slog.Info("database_images_pruned", "removed", removed)
	return removed, nil
}
