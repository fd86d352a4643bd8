package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mealhelper/mealhelper/internal/config"
	"github.com/mealhelper/mealhelper/pkg/errors"
	"github.com/mealhelper/mealhelper/pkg/reminder"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Show meal reminders at 09:00, 13:00 and 18:00 until interrupted",
	RunE:  runRemind,
}

func init() {
	rootCmd.AddCommand(remindCmd)
	remindCmd.Flags().Bool("notifications-enabled", false, "Grant permission to show reminders")
	viper.BindPFlag("notifications-enabled", remindCmd.Flags().Lookup("notifications-enabled"))
}

func runRemind(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "config load failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := reminder.NewScheduler(reminder.Defaults, reminder.WriterNotifier{W: os.Stdout}, cfg.NotificationsEnabled)

	fmt.Println("⏰ Reminders armed for 09:00, 13:00 and 18:00 (Ctrl-C to stop)")
	if err := scheduler.Run(ctx); err != nil {
		if errors.Is(err, errors.ErrPermissionDenied) {
			return fmt.Errorf("%w: enable with --notifications-enabled or MEALHELPER_NOTIFICATIONS_ENABLED=true", err)
		}
		return err
	}
	return nil
}
