package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mealhelper/mealhelper/pkg/errors"
)

const selectEntry = `SELECT id, calories, description, category, timestamp, image_id FROM entries`

// Add logs a meal. A non-empty image is stored first under a generated id and
// the entry references it; both writes share one transaction.
func (r *Repository) Add(ctx context.Context, in NewEntry, image []byte) (*Entry, error) {
	var imageID string
	if len(image) > 0 {
		imageID = uuid.NewString()
	}
	return r.insert(ctx, in, imageID, image)
}

// AddWithImageID logs a meal linked to an image that is already stored.
func (r *Repository) AddWithImageID(ctx context.Context, in NewEntry, imageID string) (*Entry, error) {
	return r.insert(ctx, in, imageID, nil)
}

func (r *Repository) insert(ctx context.Context, in NewEntry, imageID string, image []byte) (*Entry, error) {
	entry, err := r.normalize(in)
	if err != nil {
		return nil, err
	}
	entry.ImageID = imageID

	slog.Info("database_create_entry",
		"calories", entry.Calories,
		"category", entry.Category,
		"timestamp", entry.Timestamp,
		"has_image", imageID != "")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed_to_begin_transaction", "error", err)
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if len(image) > 0 {
		if err := putImage(ctx, tx, imageID, image); err != nil {
			return nil, err
		}
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO entries (calories, description, category, timestamp, image_id) VALUES (?, ?, ?, ?, ?)`,
		entry.Calories, entry.Description, string(entry.Category), entry.Timestamp, nullString(imageID))
	if err != nil {
		slog.Error("database_insert_failed", "error", err)
		return nil, errors.Wrap(err, "failed to insert entry")
	}

	id, err := result.LastInsertId()
	if err != nil {
		slog.Error("database_last_insert_id_failed", "error", err)
		return nil, errors.Wrap(err, "failed to get last insert id")
	}
	entry.ID = id

	if err := tx.Commit(); err != nil {
		slog.Error("failed_to_commit_transaction", "error", err)
		return nil, errors.Wrap(err, "failed to commit transaction")
	}

	slog.Info("database_entry_created", "entry_id", entry.ID, "image_id", entry.ImageID)
	return entry, nil
}

// normalize fills the default timestamp and lifts a legacy category tag out of
// the description.
func (r *Repository) normalize(in NewEntry) (*Entry, error) {
	entry := &Entry{
		Calories:    in.Calories,
		Description: in.Description,
		Category:    in.Category,
		Timestamp:   in.Timestamp,
	}
	if !entry.Category.Valid() {
		return nil, fmt.Errorf("invalid category: %q", entry.Category)
	}
	if entry.Category == CategoryNone {
		entry.Category, entry.Description = ParseDescription(entry.Description)
	}
	if entry.Timestamp == 0 {
		entry.Timestamp = r.now().UnixMilli()
	}
	return entry, nil
}

// Get retrieves an entry by ID. It returns nil, nil when the entry does not exist.
func (r *Repository) Get(ctx context.Context, id int64) (*Entry, error) {
	row := r.db.QueryRowContext(ctx, selectEntry+` WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		slog.Info("database_entry_not_found", "entry_id", id)
		return nil, nil
	}
	if err != nil {
		slog.Error("database_query_failed", "entry_id", id, "error", err)
		return nil, errors.Wrap(err, "failed to query entry")
	}
	return entry, nil
}

// List retrieves all entries ordered by timestamp
func (r *Repository) List(ctx context.Context) ([]*Entry, error) {
	slog.Info("database_list_entries")
	return r.query(ctx, selectEntry+` ORDER BY timestamp, id`)
}

// ListForDay retrieves the entries whose timestamp falls on the calendar day of
// day, in day's location.
func (r *Repository) ListForDay(ctx context.Context, day time.Time) ([]*Entry, error) {
	start, end := DayBounds(day)
	slog.Info("database_list_entries_for_day", "start", start, "end", end)
	return r.query(ctx, selectEntry+` WHERE timestamp >= ? AND timestamp < ? ORDER BY timestamp, id`, start, end)
}

// TotalForDay sums the calories logged on the calendar day of day.
func (r *Repository) TotalForDay(ctx context.Context, day time.Time) (float64, error) {
	start, end := DayBounds(day)

	var total float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(calories), 0) FROM entries WHERE timestamp >= ? AND timestamp < ?`,
		start, end,
	).Scan(&total)
	if err != nil {
		slog.Error("database_total_failed", "start", start, "end", end, "error", err)
		return 0, errors.Wrap(err, "failed to sum calories")
	}

	slog.Info("database_total_for_day", "start", start, "end", end, "total", total)
	return total, nil
}

// TodaysTotal sums the calories logged today in local time.
func (r *Repository) TodaysTotal(ctx context.Context) (float64, error) {
	return r.TotalForDay(ctx, r.now())
}

// Delete deletes an entry by ID. Deleting an unknown ID is not an error.
// The referenced image is left in place; see PruneOrphanedImages.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	slog.Info("database_delete_entry", "entry_id", id)

	result, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		slog.Error("database_delete_failed", "entry_id", id, "error", err)
		return errors.Wrap(err, "failed to delete entry")
	}

	rows, _ := result.RowsAffected()
	slog.Info("database_entry_deleted", "entry_id", id, "rows", rows)
	return nil
}

// ClearEntries removes every entry. Images and settings are kept.
func (r *Repository) ClearEntries(ctx context.Context) error {
	slog.Info("database_clear_entries")

	if _, err := r.db.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		slog.Error("database_clear_failed", "table", "entries", "error", err)
		return errors.Wrap(err, "failed to clear entries")
	}
	return nil
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]*Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Error("database_list_query_failed", "error", err)
		return nil, errors.Wrap(err, "failed to list entries")
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			slog.Error("database_scan_row_failed", "error", err)
			return nil, errors.Wrap(err, "failed to scan row")
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		slog.Error("database_rows_error", "error", err)
		return nil, errors.Wrap(err, "rows error")
	}

	slog.Info("database_list_complete", "entry_count", len(entries))
	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*Entry, error) {
	var entry Entry
	var category string
	var imageID sql.NullString

	if err := s.Scan(&entry.ID, &entry.Calories, &entry.Description, &category, &entry.Timestamp, &imageID); err != nil {
		return nil, err
	}
	entry.Category = Category(category)
	entry.ImageID = imageID.String
	return &entry, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
