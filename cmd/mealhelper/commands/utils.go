package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mealhelper/mealhelper/internal/config"
	"github.com/mealhelper/mealhelper/pkg/db"
	"github.com/mealhelper/mealhelper/pkg/errors"
	"github.com/mealhelper/mealhelper/pkg/security"
)

// ensureDirectories creates all necessary directories for the application
func ensureDirectories(sqlitePath, fsmDBPath string) error {
	// Create database directory
	if err := os.MkdirAll(filepath.Dir(sqlitePath), 0755); err != nil {
		return errors.Wrap(err, "failed to create database directory")
	}

	// Create FSM database directory (only needed for backup import)
	if fsmDBPath != "" {
		if err := os.MkdirAll(fsmDBPath, 0755); err != nil {
			return errors.Wrap(err, "failed to create FSM directory")
		}
	}

	return nil
}

// openRepository loads and validates config, then opens the database.
func openRepository() (*config.Config, *db.Repository, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, errors.Wrap(err, "config load failed")
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "config invalid")
	}

	if err := ensureDirectories(cfg.SQLitePath, ""); err != nil {
		return nil, nil, err
	}

	repo, err := db.NewRepository(cfg.SQLitePath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "db init failed")
	}
	return cfg, repo, nil
}

func newValidator(cfg *config.Config) *security.Validator {
	return security.NewValidator(cfg.MaxBackupSize, cfg.MaxImageSize, cfg.MaxImagePixels)
}

// parseDay parses a YYYY-MM-DD date in local time. An empty string means today.
func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	day, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q, want YYYY-MM-DD", s)
	}
	return day, nil
}

// parseTimestamp accepts "YYYY-MM-DD HH:MM" (local) or RFC 3339. An empty
// string yields zero, which the store replaces with now.
func parseTimestamp(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local); err == nil {
		return t.UnixMilli(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UnixMilli(), nil
	}
	return 0, fmt.Errorf("invalid time %q, want \"YYYY-MM-DD HH:MM\" or RFC 3339", s)
}

func formatCalories(c float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", c), "0"), ".")
}

func printEntries(entries []*db.Entry, showDate bool) {
	layout := "15:04"
	if showDate {
		layout = "2006-01-02 15:04"
	}

	fmt.Printf("%-6s %-16s %-9s %-10s %-40s %-5s\n", "ID", "TIME", "CALORIES", "CATEGORY", "DESCRIPTION", "PHOTO")
	fmt.Println("------------------------------------------------------------------------------------------------")

	for _, e := range entries {
		category := string(e.Category)
		if category == "" {
			category = "-"
		}
		photo := "-"
		if e.ImageID != "" {
			photo = "yes"
		}
		fmt.Printf("%-6d %-16s %-9s %-10s %-40s %-5s\n",
			e.ID, e.Time().Format(layout), formatCalories(e.Calories), category, e.Description, photo)
	}
}
