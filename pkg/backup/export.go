package backup

import (
	"context"
	"encoding/base64"
	"log/slog"

	"github.com/mealhelper/mealhelper/pkg/errors"
)

// Export snapshots every entry, its photo and the calorie limit.
func Export(ctx context.Context, store Store) (*Document, error) {
	slog.Info("backup_export_start")

	entries, err := store.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list entries")
	}

	limit, err := store.GetCalorieLimit(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read calorie limit")
	}

	doc := &Document{
		Version:  Version,
		Entries:  make([]Entry, 0, len(entries)),
		Settings: Settings{CalorieLimit: &limit},
	}

	images := 0
	for _, e := range entries {
		out := Entry{
			ID:          e.ID,
			Calories:    e.Calories,
			Description: e.Label(),
			Timestamp:   e.Timestamp,
		}
		if e.ImageID != "" {
			data, err := store.GetImage(ctx, e.ImageID)
			if err != nil {
				return nil, errors.Wrap(err, "failed to read image")
			}
			if data != nil {
				out.ImageData = base64.StdEncoding.EncodeToString(data)
				images++
			} else {
				slog.Warn("backup_image_missing", "entry_id", e.ID, "image_id", e.ImageID)
			}
		}
		doc.Entries = append(doc.Entries, out)
	}

	slog.Info("backup_export_complete", "entry_count", len(doc.Entries), "image_count", images, "calorie_limit", limit)
	return doc, nil
}
