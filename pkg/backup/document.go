// Package backup exports the calorie log to a versioned JSON document and
// restores it, replacing all existing data.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mealhelper/mealhelper/pkg/db"
	"github.com/mealhelper/mealhelper/pkg/errors"
	"github.com/mealhelper/mealhelper/pkg/security"
)

// Version is the only backup format version this build reads and writes.
const Version = 1

// Document is the on-disk backup format.
type Document struct {
	Version  int      `json:"version"`
	Entries  []Entry  `json:"entries"`
	Settings Settings `json:"settings"`
}

// Entry is one exported entry. Photos are inlined as base64 in ImageData in
// place of the live image reference.
type Entry struct {
	ID          int64   `json:"id,omitempty"`
	Calories    float64 `json:"calories"`
	Description string  `json:"description"`
	Timestamp   int64   `json:"timestamp"`
	ImageData   string  `json:"imageData,omitempty"`
}

// Settings holds exported settings. CalorieLimit is nil in documents that
// omit it.
type Settings struct {
	CalorieLimit *int `json:"calorieLimit,omitempty"`
}

// Store is the persistence surface backup needs. *db.Repository implements it.
type Store interface {
	List(ctx context.Context) ([]*db.Entry, error)
	GetImage(ctx context.Context, id string) ([]byte, error)
	StoreImage(ctx context.Context, id string, data []byte) error
	AddWithImageID(ctx context.Context, in db.NewEntry, imageID string) (*db.Entry, error)
	GetCalorieLimit(ctx context.Context) (int, error)
	SetCalorieLimit(ctx context.Context, value int) error
	ClearAll(ctx context.Context) error
}

var _ Store = (*db.Repository)(nil)

// DefaultFileName returns the conventional backup file name for now.
func DefaultFileName(now time.Time) string {
	return fmt.Sprintf("calorie-tracker-backup-%s.json", now.UTC().Format("2006-01-02"))
}

// CheckVersion fails with ErrUnsupportedVersion unless doc is a version this
// build can restore.
func CheckVersion(doc *Document) error {
	if doc.Version != Version {
		return fmt.Errorf("%w: got %d, want %d", errors.ErrUnsupportedVersion, doc.Version, Version)
	}
	return nil
}

// Write encodes doc as JSON to w.
func Write(w io.Writer, doc *Document) error {
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		return errors.Wrap(err, "failed to encode backup")
	}
	return nil
}

// Decode reads a backup document from r. Documents larger than the
// validator's backup limit are rejected before parsing.
func Decode(r io.Reader, validator *security.Validator) (*Document, error) {
	limit := validator.MaxBackupSize()
	raw, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read backup")
	}
	if err := validator.ValidateBackupSize(int64(len(raw))); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "malformed backup")
	}
	return &doc, nil
}
