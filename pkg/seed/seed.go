// Package seed fills the log with two weeks of plausible meals for local
// development.
package seed

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/mealhelper/mealhelper/pkg/db"
	"github.com/mealhelper/mealhelper/pkg/errors"
)

// Days is how many days back the seeder generates.
const Days = 14

// Meal is a menu item the seeder picks from.
type Meal struct {
	Description string
	Calories    float64
	Category    db.Category
}

var (
	breakfasts = []Meal{
		{"Oatmeal with Berries", 290, db.CategoryBreakfast},
		{"Avocado Toast", 350, db.CategoryBreakfast},
		{"Greek Yogurt with Granola", 280, db.CategoryBreakfast},
		{"Breakfast Burrito", 450, db.CategoryBreakfast},
		{"Smoothie Bowl", 320, db.CategoryBreakfast},
	}
	snacks = []Meal{
		{"Apple with Peanut Butter", 200, db.CategorySnack},
		{"Trail Mix", 210, db.CategorySnack},
		{"Protein Bar", 180, db.CategorySnack},
		{"Banana", 105, db.CategorySnack},
		{"Handful of Almonds", 160, db.CategorySnack},
	}
	lunches = []Meal{
		{"Chicken Salad", 450, db.CategoryLunch},
		{"Turkey Sandwich", 380, db.CategoryLunch},
		{"Quinoa Bowl", 420, db.CategoryLunch},
		{"Tuna Wrap", 350, db.CategoryLunch},
		{"Buddha Bowl", 480, db.CategoryLunch},
	}
	dinners = []Meal{
		{"Grilled Salmon", 460, db.CategoryDinner},
		{"Chicken Stir Fry", 520, db.CategoryDinner},
		{"Pasta with Meatballs", 650, db.CategoryDinner},
		{"Vegetable Curry", 380, db.CategoryDinner},
		{"Fish Tacos", 450, db.CategoryDinner},
	}
	drinks = []Meal{
		{"Morning Coffee", 120, db.CategorySnack},
		{"Green Tea", 5, db.CategorySnack},
		{"Protein Shake", 180, db.CategorySnack},
		{"Smoothie", 220, db.CategorySnack},
		{"Sparkling Water", 0, db.CategorySnack},
	}
)

// slot is one chance at a meal during the day.
type slot struct {
	hour, minute int
	chance       float64
	menu         []Meal
}

var day = []slot{
	{8, 30, 0.8, drinks},
	{9, 0, 0.9, breakfasts},
	{11, 0, 0.6, snacks},
	{13, 0, 0.95, lunches},
	{15, 30, 0.7, snacks},
	{16, 0, 0.4, drinks},
	{19, 0, 0.98, dinners},
	{21, 0, 0.3, snacks},
}

// Generate returns the meals eaten on date's calendar day.
func Generate(rng *rand.Rand, date time.Time) []db.NewEntry {
	var entries []db.NewEntry
	for _, s := range day {
		if rng.Float64() >= s.chance {
			continue
		}
		meal := s.menu[rng.IntN(len(s.menu))]
		at := time.Date(date.Year(), date.Month(), date.Day(), s.hour, s.minute, 0, 0, date.Location())
		entries = append(entries, db.NewEntry{
			Calories:    meal.Calories,
			Description: meal.Description,
			Category:    meal.Category,
			Timestamp:   at.UnixMilli(),
		})
	}
	return entries
}

// Seeder replaces the log with generated meals.
type Seeder struct {
	repo    *db.Repository
	devMode bool
	rng     *rand.Rand
}

// NewSeeder creates a seeder. It only runs when devMode is set.
func NewSeeder(repo *db.Repository, devMode bool) *Seeder {
	now := uint64(time.Now().UnixNano())
	return &Seeder{repo: repo, devMode: devMode, rng: rand.New(rand.NewPCG(now, now>>32))}
}

// Run clears existing entries and inserts Days days of meals ending at now.
// It returns the number of entries written.
func (s *Seeder) Run(ctx context.Context, now time.Time) (int, error) {
	if !s.devMode {
		slog.Warn("seed_skipped", "reason", "dev_mode_disabled")
		return 0, errors.ErrDevModeDisabled
	}

	slog.Info("seed_start", "days", Days)

	if err := s.repo.ClearEntries(ctx); err != nil {
		return 0, errors.Wrap(err, "failed to clear entries")
	}

	count := 0
	for i := 0; i < Days; i++ {
		for _, in := range Generate(s.rng, now.AddDate(0, 0, -i)) {
			if _, err := s.repo.Add(ctx, in, nil); err != nil {
				return count, errors.Wrap(err, "failed to add seed entry")
			}
			count++
		}
	}

	slog.Info("seed_complete", "entry_count", count)
	return count, nil
}
