package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/mealhelper/mealhelper/pkg/errors"
	"github.com/mealhelper/mealhelper/pkg/seed"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:    "seed",
	Short:  "Replace entries with two weeks of demo meals (dev mode only)",
	Hidden: true,
	RunE:   runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, repo, err := openRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	count, err := seed.NewSeeder(repo, cfg.DevMode).Run(context.Background(), time.Now())
	if err != nil {
		if errors.Is(err, errors.ErrDevModeDisabled) {
			return fmt.Errorf("%w: run with --dev-mode", err)
		}
		return errors.Wrap(err, "seed failed")
	}

	fmt.Printf("✅ Seeded %d entries over %d days\n", count, seed.Days)
	return nil
}
