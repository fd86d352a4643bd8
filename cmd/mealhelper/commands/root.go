package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/mealhelper/mealhelper/internal/config"
	"github.com/mealhelper/mealhelper/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var logCloser io.Closer

var rootCmd = &cobra.Command{
	Use:   "mealhelper",
	Short: "Meal Helper - local calorie log",
	Long:  `Logs meals with calories and photos, tracks the daily total against a limit, and backs up or restores the log as JSON.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logCloser = logging.Setup(cfg.LogLevel, cfg.LogFile)
		return nil
	},
	SilenceUsage: true,
}

func Execute() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes the command line in args. The log file is closed here rather
// than in a post-run hook, which cobra skips when a command fails.
func run(args []string) error {
	rootCmd.SetArgs(args)
	defer closeLog()
	return rootCmd.Execute()
}

func closeLog() {
	if logCloser != nil {
		logCloser.Close()
		logCloser = nil
	}
}

func init() {
	rootCmd.PersistentFlags().String("sqlite-path", ".mealhelper/calories.db", "SQLite database path")
	rootCmd.PersistentFlags().String("fsm-db-path", ".mealhelper/fsm", "FSM BoltDB path")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "Also write JSON logs to this rotating file")
	rootCmd.PersistentFlags().Int64("max-backup-size", 256*1024*1024, "Max backup file size in bytes")
	rootCmd.PersistentFlags().Int64("max-image-size", 10*1024*1024, "Max size of a single photo in bytes")
	rootCmd.PersistentFlags().Bool("dev-mode", false, "Enable development-only commands")

	viper.BindPFlag("sqlite-path", rootCmd.PersistentFlags().Lookup("sqlite-path"))
	viper.BindPFlag("fsm-db-path", rootCmd.PersistentFlags().Lookup("fsm-db-path"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file"))
	viper.BindPFlag("max-backup-size", rootCmd.PersistentFlags().Lookup("max-backup-size"))
	viper.BindPFlag("max-image-size", rootCmd.PersistentFlags().Lookup("max-image-size"))
	viper.BindPFlag("dev-mode", rootCmd.PersistentFlags().Lookup("dev-mode"))
}
