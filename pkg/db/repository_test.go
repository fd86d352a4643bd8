package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	repo, err := NewRepository(filepath.Join(t.TempDir(), "mealhelper.db"))
	require.NoError(t, err, "failed to create repository")
	t.Cleanup(func() { repo.Close() })

	return repo
}

func TestRepository_AddAndList(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local).UnixMilli()
	inputs := []NewEntry{
		{Calories: 300, Description: "Oatmeal", Timestamp: base + 2000},
		{Calories: 450, Description: "Turkey Sandwich", Timestamp: base},
		{Calories: 120, Description: "Coffee", Timestamp: base + 1000},
	}
	for _, in := range inputs {
		_, err := repo.Add(ctx, in, nil)
		require.NoError(t, err)
	}

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	seen := map[int64]bool{}
	for _, e := range entries {
		assert.False(t, seen[e.ID], "duplicate id %d", e.ID)
		seen[e.ID] = true
	}

	assert.Equal(t, "Turkey Sandwich", entries[0].Description)
	assert.Equal(t, "Coffee", entries[1].Description)
	assert.Equal(t, "Oatmeal", entries[2].Description)
	assert.Equal(t, float64(450), entries[0].Calories)
	assert.Equal(t, base, entries[0].Timestamp)
}

func TestRepository_AddDefaultsTimestamp(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	fixed := time.Date(2024, 5, 1, 8, 30, 0, 0, time.Local)
	repo.now = func() time.Time { return fixed }

	entry, err := repo.Add(ctx, NewEntry{Calories: 100, Description: "Banana"}, nil)
	require.NoError(t, err)
	assert.Equal(t, fixed.UnixMilli(), entry.Timestamp)
	assert.NotZero(t, entry.ID)
}

func TestRepository_AddParsesCategoryTag(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	entry, err := repo.Add(ctx, NewEntry{Calories: 450, Description: "[Lunch] Turkey Sandwich", Timestamp: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, CategoryLunch, entry.Category)
	assert.Equal(t, "Turkey Sandwich", entry.Description)
	assert.Empty(t, entry.ImageID)

	got, err := repo.Get(ctx, entry.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, CategoryLunch, got.Category)
	assert.Equal(t, "[Lunch] Turkey Sandwich", got.Label())
	assert.Empty(t, got.ImageID)
}

func TestRepository_AddRejectsUnknownCategory(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Add(context.Background(), NewEntry{Calories: 1, Description: "x", Category: "Brunch"}, nil)
	assert.Error(t, err)
}

func TestRepository_AddWithImage(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	photo := []byte{0xff, 0xd8, 0xff, 0xe0, 1, 2, 3}
	entry, err := repo.Add(ctx, NewEntry{Calories: 450, Description: "Salad", Timestamp: 1}, photo)
	require.NoError(t, err)
	require.NotEmpty(t, entry.ImageID)

	data, err := repo.GetImage(ctx, entry.ImageID)
	require.NoError(t, err)
	assert.Equal(t, photo, data)
}

func TestRepository_TotalForDay(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	day := time.Date(2024, 3, 10, 15, 0, 0, 0, time.Local)
	start, end := DayBounds(day)

	// Inserted out of order, including both boundaries.
	entries := []NewEntry{
		{Calories: 500, Description: "tomorrow midnight", Timestamp: end},
		{Calories: 200, Description: "midnight", Timestamp: start},
		{Calories: 1000, Description: "yesterday", Timestamp: start - 1},
		{Calories: 300, Description: "last ms", Timestamp: end - 1},
		{Calories: 50, Description: "noon", Timestamp: start + 12*3600*1000},
	}
	for _, in := range entries {
		_, err := repo.Add(ctx, in, nil)
		require.NoError(t, err)
	}

	total, err := repo.TotalForDay(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, float64(550), total)

	dayEntries, err := repo.ListForDay(ctx, day)
	require.NoError(t, err)
	require.Len(t, dayEntries, 3)
	assert.Equal(t, "midnight", dayEntries[0].Description)
	assert.Equal(t, "last ms", dayEntries[2].Description)
}

func TestRepository_TodaysTotal(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	now := time.Date(2024, 7, 4, 10, 0, 0, 0, time.Local)
	repo.now = func() time.Time { return now }

	_, err := repo.Add(ctx, NewEntry{Calories: 250, Description: "breakfast"}, nil)
	require.NoError(t, err)
	_, err = repo.Add(ctx, NewEntry{Calories: 700, Description: "old", Timestamp: now.AddDate(0, 0, -1).UnixMilli()}, nil)
	require.NoError(t, err)

	total, err := repo.TodaysTotal(ctx)
	require.NoError(t, err)
	assert.Equal(t, float64(250), total)
}

func TestRepository_TotalForEmptyDay(t *testing.T) {
	repo := newTestRepository(t)

	total, err := repo.TotalForDay(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	keep, err := repo.Add(ctx, NewEntry{Calories: 1, Description: "keep", Timestamp: 1}, nil)
	require.NoError(t, err)
	drop, err := repo.Add(ctx, NewEntry{Calories: 2, Description: "drop", Timestamp: 2}, nil)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, drop.ID))

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, keep.ID, entries[0].ID)

	// Deleting again, or deleting an id that never existed, is a no-op.
	assert.NoError(t, repo.Delete(ctx, drop.ID))
	assert.NoError(t, repo.Delete(ctx, 9999))

	got, err := repo.Get(ctx, drop.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepository_ClearEntriesKeepsSettings(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	_, err := repo.Add(ctx, NewEntry{Calories: 1, Description: "a", Timestamp: 1}, nil)
	require.NoError(t, err)
	require.NoError(t, repo.SetCalorieLimit(ctx, 1800))

	require.NoError(t, repo.ClearEntries(ctx))

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	limit, err := repo.GetCalorieLimit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1800, limit)
}

func TestRepository_ClearAll(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	_, err := repo.Add(ctx, NewEntry{Calories: 1, Description: "a", Timestamp: 1}, []byte("img"))
	require.NoError(t, err)
	require.NoError(t, repo.SetCalorieLimit(ctx, 1800))

	require.NoError(t, repo.ClearAll(ctx))

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	ids, err := repo.ListImageIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	limit, err := repo.GetCalorieLimit(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultCalorieLimit, limit)
}

func TestRepository_CalorieLimit(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	limit, err := repo.GetCalorieLimit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3000, limit)

	require.NoError(t, repo.SetCalorieLimit(ctx, 5))
	limit, err = repo.GetCalorieLimit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, limit)

	require.NoError(t, repo.SetCalorieLimit(ctx, 2200))
	limit, err = repo.GetCalorieLimit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2200, limit)
}

func TestRepository_Images(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	data, err := repo.GetImage(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, repo.StoreImage(ctx, "img-1", []byte("first")))
	require.NoError(t, repo.StoreImage(ctx, "img-1", []byte("second")))

	data, err = repo.GetImage(ctx, "img-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)
}

func TestRepository_PruneOrphanedImages(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	kept, err := repo.Add(ctx, NewEntry{Calories: 1, Description: "kept", Timestamp: 1}, []byte("kept"))
	require.NoError(t, err)
	dropped, err := repo.Add(ctx, NewEntry{Calories: 2, Description: "dropped", Timestamp: 2}, []byte("dropped"))
	require.NoError(t, err)
	_, err = repo.Add(ctx, NewEntry{Calories: 3, Description: "no photo", Timestamp: 3}, nil)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, dropped.ID))

	// The image survives its entry until pruned.
	data, err := repo.GetImage(ctx, dropped.ImageID)
	require.NoError(t, err)
	assert.NotNil(t, data)

	removed, err := repo.PruneOrphanedImages(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	ids, err := repo.ListImageIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{kept.ImageID}, ids)
}
