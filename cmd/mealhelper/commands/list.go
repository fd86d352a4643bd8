package commands

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/mealhelper/mealhelper/pkg/errors"
	"github.com/spf13/cobra"
)

var listDay string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged meals, optionally for one day",
	RunE:  runList,
}

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's total against the daily limit",
	RunE:  runToday,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(todayCmd)
	listCmd.Flags().StringVar(&listDay, "day", "", "Only show this day (YYYY-MM-DD)")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	_, repo, err := openRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	if listDay == "" {
		entries, err := repo.List(ctx)
		if err != nil {
			return errors.Wrap(err, "list failed")
		}
		if len(entries) == 0 {
			fmt.Println("No entries found")
			return nil
		}
		printEntries(entries, true)
		return nil
	}

	day, err := parseDay(listDay)
	if err != nil {
		return err
	}

	entries, err := repo.ListForDay(ctx, day)
	if err != nil {
		return errors.Wrap(err, "list failed")
	}
	if len(entries) == 0 {
		fmt.Printf("No entries for %s\n", day.Format("January 2, 2006"))
		return nil
	}

	var total float64
	for _, e := range entries {
		total += e.Calories
	}

	fmt.Printf("%s: %s cal\n\n", day.Format("January 2, 2006"), formatCalories(total))
	printEntries(entries, false)
	return nil
}

func runToday(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	_, repo, err := openRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	total, err := repo.TodaysTotal(ctx)
	if err != nil {
		return errors.Wrap(err, "total failed")
	}
	limit, err := repo.GetCalorieLimit(ctx)
	if err != nil {
		return errors.Wrap(err, "limit failed")
	}

	fmt.Printf("Today: %s / %d cal\n", formatCalories(total), limit)
	fmt.Println(progressBar(total, limit, 40))

	if remaining := float64(limit) - total; remaining >= 0 {
		fmt.Printf("%s cal remaining\n", formatCalories(remaining))
	} else {
		fmt.Printf("⚠️  %s cal over limit\n", formatCalories(-remaining))
	}
	return nil
}

// progressBar renders total/limit as a fixed-width bar capped at 100%.
func progressBar(total float64, limit, width int) string {
	ratio := 0.0
	if limit > 0 {
		ratio = total / float64(limit)
	}
	pct := int(math.Round(ratio * 100))
	ratio = max(min(ratio, 1), 0)

	filled := int(ratio * float64(width))
	return fmt.Sprintf("[%s%s] %d%%", strings.Repeat("#", filled), strings.Repeat(".", width-filled), pct)
}
