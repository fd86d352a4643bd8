package commands

import (
	"context"
	"fmt"

	"github.com/mealhelper/mealhelper/pkg/errors"
	"github.com/spf13/cobra"
)

var cleanupOrphaned bool

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Clean up stored data",
	Long: `Clean up stored data:
  --orphaned   Remove photos whose entry has been deleted`,
	RunE: runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
	cleanupCmd.Flags().BoolVar(&cleanupOrphaned, "orphaned", false, "Remove orphaned photos")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	if !cleanupOrphaned {
		return fmt.Errorf("must specify --orphaned")
	}

	_, repo, err := openRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	fmt.Println("🔍 Scanning for orphaned photos...")

	removed, err := repo.PruneOrphanedImages(context.Background())
	if err != nil {
		return errors.Wrap(err, "cleanup failed")
	}

	fmt.Printf("✅ Removed %d orphaned photos\n", removed)
	return nil
}
