package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mealhelper/mealhelper/pkg/errors"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <entry-id>",
	Short: "Delete an entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var clearAll bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all entries (--all also removes photos and settings)",
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().BoolVar(&clearAll, "all", false, "Also remove photos and settings")
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid entry id %q", args[0])
	}

	_, repo, err := openRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.Delete(context.Background(), id); err != nil {
		return errors.Wrap(err, "delete failed")
	}

	fmt.Printf("🗑️  Deleted #%d\n", id)
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	_, repo, err := openRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	if clearAll {
		if err := repo.ClearAll(ctx); err != nil {
			return errors.Wrap(err, "clear failed")
		}
		fmt.Println("🧹 Cleared entries, photos and settings")
		return nil
	}

	if err := repo.ClearEntries(ctx); err != nil {
		return errors.Wrap(err, "clear failed")
	}
	fmt.Println("🧹 Cleared entries")
	return nil
}
