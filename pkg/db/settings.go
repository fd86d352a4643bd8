package db

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/mealhelper/mealhelper/pkg/errors"
)

// GetCalorieLimit returns the saved daily calorie limit, or DefaultCalorieLimit
// when none has been saved.
func (r *Repository) GetCalorieLimit(ctx context.Context) (int, error) {
	var value int
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, SettingCalorieLimit).Scan(&value)
	if err == sql.ErrNoRows {
		slog.Info("database_setting_default", "key", SettingCalorieLimit, "value", DefaultCalorieLimit)
		return DefaultCalorieLimit, nil
	}
	if err != nil {
		slog.Error("database_query_failed", "key", SettingCalorieLimit, "error", err)
		return 0, errors.Wrap(err, "failed to query calorie limit")
	}
	if value <= 0 {
		return DefaultCalorieLimit, nil
	}
	return value, nil
}

// SetCalorieLimit saves the daily calorie limit, replacing any previous value
func (r *Repository) SetCalorieLimit(ctx context.Context, value int) error {
	slog.Info("database_update_setting", "key", SettingCalorieLimit, "value", value)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		SettingCalorieLimit, value)
	if err != nil {
		slog.Error("database_setting_update_failed", "key", SettingCalorieLimit, "error", err)
		return errors.Wrap(err, "failed to save calorie limit")
	}
	return nil
}
