package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDescription(t *testing.T) {
	tests := []struct {
		in       string
		category Category
		text     string
	}{
		{"[Lunch] Turkey Sandwich", CategoryLunch, "Turkey Sandwich"},
		{"[breakfast] Oatmeal", CategoryBreakfast, "Oatmeal"},
		{"[Snack]Banana", CategorySnack, "Banana"},
		{"Plain salad", CategoryNone, "Plain salad"},
		{"[Brunch] Eggs", CategoryNone, "[Brunch] Eggs"},
		{"[Dinner", CategoryNone, "[Dinner"},
		{"[] empty", CategoryNone, "[] empty"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			category, text := ParseDescription(tt.in)
			assert.Equal(t, tt.category, category)
			assert.Equal(t, tt.text, text)
		})
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" dinner ")
	assert.NoError(t, err)
	assert.Equal(t, CategoryDinner, c)

	c, err = ParseCategory("")
	assert.NoError(t, err)
	assert.Equal(t, CategoryNone, c)

	_, err = ParseCategory("elevenses")
	assert.Error(t, err)
}

func TestEntryLabel(t *testing.T) {
	e := &Entry{Description: "Fish Tacos", Category: CategoryDinner}
	assert.Equal(t, "[Dinner] Fish Tacos", e.Label())

	e.Category = CategoryNone
	assert.Equal(t, "Fish Tacos", e.Label())
}

func TestDayBounds(t *testing.T) {
	loc := time.FixedZone("test", 2*3600)
	start, end := DayBounds(time.Date(2024, 1, 31, 23, 59, 0, 0, loc))

	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, loc).UnixMilli(), start)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, loc).UnixMilli(), end)
}
