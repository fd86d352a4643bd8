package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mealhelper/mealhelper/pkg/errors"
	"github.com/spf13/cobra"
)

var limitCmd = &cobra.Command{
	Use:   "limit [calories]",
	Short: "Show or set the daily calorie limit",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLimit,
}

func init() {
	rootCmd.AddCommand(limitCmd)
}

func runLimit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var value int
	if len(args) == 1 {
		v, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil || v <= 0 {
			return fmt.Errorf("limit must be a positive integer, got %q", args[0])
		}
		value = v
	}

	_, repo, err := openRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	if value > 0 {
		if err := repo.SetCalorieLimit(ctx, value); err != nil {
			return errors.Wrap(err, "set limit failed")
		}
		fmt.Printf("✅ Daily limit set to %d cal\n", value)
		return nil
	}

	limit, err := repo.GetCalorieLimit(ctx)
	if err != nil {
		return errors.Wrap(err, "get limit failed")
	}
	fmt.Printf("Daily limit: %d cal\n", limit)
	return nil
}
