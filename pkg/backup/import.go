package backup

import (
	"context"
	"encoding/base64"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mealhelper/mealhelper/pkg/db"
	"github.com/mealhelper/mealhelper/pkg/errors"
	"github.com/mealhelper/mealhelper/pkg/security"
)

// Result summarises a restore.
type Result struct {
	Entries       int `json:"entries"`
	Images        int `json:"images"`
	ImageFailures int `json:"image_failures"`
}

// Restorer replaces the store contents with a backup document.
type Restorer struct {
	store     Store
	validator *security.Validator
}

// NewRestorer creates a restorer. A nil validator skips image size checks.
func NewRestorer(store Store, validator *security.Validator) *Restorer {
	return &Restorer{store: store, validator: validator}
}

// Import checks the version, clears every store, re-inserts the entries one
// at a time and finally restores the calorie limit. A version mismatch aborts
// before anything is changed. A broken image only costs its entry the photo.
func (r *Restorer) Import(ctx context.Context, doc *Document) (*Result, error) {
	if err := CheckVersion(doc); err != nil {
		slog.Error("backup_version_mismatch", "version", doc.Version)
		return nil, err
	}

	if err := r.Clear(ctx); err != nil {
		return nil, err
	}

	result, err := r.RestoreEntries(ctx, doc.Entries)
	if err != nil {
		return result, err
	}

	if err := r.RestoreSettings(ctx, doc.Settings); err != nil {
		return result, err
	}

	slog.Info("backup_import_complete",
		"entry_count", result.Entries,
		"image_count", result.Images,
		"image_failures", result.ImageFailures)
	return result, nil
}

// Clear removes all existing data ahead of a restore.
func (r *Restorer) Clear(ctx context.Context) error {
	if err := r.store.ClearAll(ctx); err != nil {
		return errors.Wrap(err, "failed to clear data")
	}
	if r.validator != nil {
		r.validator.Reset()
	}
	return nil
}

// RestoreEntries inserts entries in document order.
func (r *Restorer) RestoreEntries(ctx context.Context, entries []Entry) (*Result, error) {
	result := &Result{}
	for i, e := range entries {
		imageID, err := r.restoreImage(ctx, e.ImageData)
		if err != nil {
			slog.Error("backup_image_restore_failed", "index", i, "error", err)
			result.ImageFailures++
			imageID = ""
		}

		_, err = r.store.AddWithImageID(ctx, db.NewEntry{
			Calories:    e.Calories,
			Description: e.Description,
			Timestamp:   e.Timestamp,
		}, imageID)
		if err != nil {
			return result, errors.Wrap(err, "failed to restore entry")
		}

		result.Entries++
		if imageID != "" {
			result.Images++
		}
	}
	return result, nil
}

// RestoreSettings writes the calorie limit, if the document has one.
func (r *Restorer) RestoreSettings(ctx context.Context, settings Settings) error {
	if settings.CalorieLimit == nil {
		slog.Warn("backup_calorie_limit_missing")
		return nil
	}
	if err := r.store.SetCalorieLimit(ctx, *settings.CalorieLimit); err != nil {
		return errors.Wrap(err, "failed to restore calorie limit")
	}
	return nil
}

// restoreImage decodes and stores one embedded photo under a fresh id. It
// returns "" without error when there is no photo.
func (r *Restorer) restoreImage(ctx context.Context, encoded string) (string, error) {
	if encoded == "" {
		return "", nil
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", errors.Wrap(err, "bad base64 image")
	}
	if len(data) == 0 {
		return "", nil
	}

	if r.validator != nil {
		if err := r.validator.ValidateImageSize(int64(len(data))); err != nil {
			return "", err
		}
		if err := r.validator.AddImageSize(int64(len(data))); err != nil {
			return "", err
		}
	}

	id := uuid.NewString()
	if err := r.store.StoreImage(ctx, id, data); err != nil {
		return "", err
	}
	return id, nil
}
