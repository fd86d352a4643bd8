package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mealhelper/mealhelper/pkg/db"
	"github.com/mealhelper/mealhelper/pkg/errors"
	"github.com/mealhelper/mealhelper/pkg/imaging"
	"github.com/spf13/cobra"
)

var (
	addCategory string
	addAt       string
	addPhoto    string
)

var addCmd = &cobra.Command{
	Use:   "add <calories> <description...>",
	Short: "Log a meal",
	Long: `Log a meal with its calories and description.
A description starting with a tag such as "[Lunch] Salad" sets the category.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addCategory, "category", "", "Meal category (Breakfast, Lunch, Dinner, Snack)")
	addCmd.Flags().StringVar(&addAt, "at", "", `When the meal was eaten ("YYYY-MM-DD HH:MM"), default now`)
	addCmd.Flags().StringVar(&addPhoto, "photo", "", "Photo to attach; resized before storing")
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	calories, err := parseCalories(args[0])
	if err != nil {
		return err
	}
	description := strings.TrimSpace(strings.Join(args[1:], " "))
	if description == "" {
		return fmt.Errorf("description cannot be empty")
	}
	category, err := db.ParseCategory(addCategory)
	if err != nil {
		return err
	}
	timestamp, err := parseTimestamp(addAt)
	if err != nil {
		return err
	}

	cfg, repo, err := openRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	var photo []byte
	if addPhoto != "" {
		f, err := os.Open(addPhoto)
		if err != nil {
			return errors.Wrap(err, "failed to open photo")
		}
		defer f.Close()

		resizer := imaging.NewResizer(cfg.ImageMaxDimension, cfg.ImageQuality, newValidator(cfg))
		photo, err = resizer.Resize(f)
		if err != nil {
			return errors.Wrap(err, "photo processing failed")
		}
	}

	entry, err := repo.Add(ctx, db.NewEntry{
		Calories:    calories,
		Description: description,
		Category:    category,
		Timestamp:   timestamp,
	}, photo)
	if err != nil {
		return errors.Wrap(err, "add failed")
	}

	fmt.Printf("✅ Added #%d: %s cal %s\n", entry.ID, formatCalories(entry.Calories), entry.Label())
	return nil
}

// parseCalories accepts a positive number.
func parseCalories(s string) (float64, error) {
	calories, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || calories <= 0 {
		return 0, fmt.Errorf("calories must be a positive number, got %q", s)
	}
	return calories, nil
}
