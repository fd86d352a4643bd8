package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mealhelper/mealhelper/pkg/backup"
	"github.com/mealhelper/mealhelper/pkg/errors"
	appfsm "github.com/mealhelper/mealhelper/pkg/fsm"
	"github.com/spf13/cobra"
	"github.com/superfly/fsm"
)

var backupOutput string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export or restore the whole log as JSON",
}

var backupExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write entries, photos and settings to a JSON backup",
	Args:  cobra.NoArgs,
	RunE:  runBackupExport,
}

var backupImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all data with the contents of a JSON backup",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackupImport,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupExportCmd)
	backupCmd.AddCommand(backupImportCmd)
	backupExportCmd.Flags().StringVarP(&backupOutput, "output", "o", "", `Output file, "-" for stdout (default calorie-tracker-backup-<date>.json)`)
}

func runBackupExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	_, repo, err := openRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	doc, err := backup.Export(ctx, repo)
	if err != nil {
		return errors.Wrap(err, "backup failed")
	}

	var w io.Writer = os.Stdout
	out := backupOutput
	if out != "-" {
		if out == "" {
			out = backup.DefaultFileName(time.Now())
		}
		f, err := os.Create(out)
		if err != nil {
			return errors.Wrap(err, "failed to create backup file")
		}
		defer f.Close()
		w = f
	}

	if err := backup.Write(w, doc); err != nil {
		return err
	}

	if out != "-" {
		fmt.Printf("💾 Backed up %d entries to %s\n", len(doc.Entries), out)
	}
	return nil
}

func runBackupImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	path, err := filepath.Abs(args[0])
	if err != nil {
		return errors.Wrap(err, "invalid backup path")
	}

	cfg, repo, err := openRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := ensureDirectories(cfg.SQLitePath, cfg.FSMDBPath); err != nil {
		return err
	}

	manager, err := fsm.New(fsm.Config{DBPath: cfg.FSMDBPath})
	if err != nil {
		return errors.Wrap(err, "FSM manager failed")
	}
	defer manager.Shutdown(10 * time.Second)

	machine := appfsm.NewMachine(repo, newValidator(cfg), cfg.FSMMaxRetries)
	result, err := machine.Restore(ctx, manager, path)
	if err != nil {
		return errors.Wrap(err, "restore failed")
	}

	fmt.Printf("✅ Restored %d entries (%d photos) from %s\n", result.Entries, result.Images, args[0])
	if result.ImageFailures > 0 {
		fmt.Printf("⚠️  %d photos could not be restored; their entries were kept without them\n", result.ImageFailures)
	}
	fmt.Printf("Daily limit: %d cal\n", result.CalorieLimit)
	return nil
}
