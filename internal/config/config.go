package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Database paths
	SQLitePath string `mapstructure:"sqlite-path"`
	FSMDBPath  string `mapstructure:"fsm-db-path"`

	// Logging
	LogLevel string `mapstructure:"log-level"`
	LogFile  string `mapstructure:"log-file"`

	// Security limits
	MaxBackupSize  int64 `mapstructure:"max-backup-size"`
	MaxImageSize   int64 `mapstructure:"max-image-size"`
	MaxImagePixels int64 `mapstructure:"max-image-pixels"`

	// Photo processing
	ImageMaxDimension int `mapstructure:"image-max-dimension"`
	ImageQuality      int `mapstructure:"image-quality"`

	// Feature flags
	NotificationsEnabled bool `mapstructure:"notifications-enabled"`
	DevMode              bool `mapstructure:"dev-mode"`

	// FSM configuration
	FSMMaxRetries int `mapstructure:"fsm-max-retries"`
}

// Load reads configuration from environment, config file, and defaults
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("sqlite-path", ".mealhelper/calories.db")
	viper.SetDefault("fsm-db-path", ".mealhelper/fsm")
	viper.SetDefault("log-level", "warn")
	viper.SetDefault("log-file", "")
	viper.SetDefault("max-backup-size", 256*1024*1024)
	viper.SetDefault("max-image-size", 10*1024*1024)
	viper.SetDefault("max-image-pixels", 50*1000*1000)
	viper.SetDefault("image-max-dimension", 800)
	viper.SetDefault("image-quality", 80)
	viper.SetDefault("notifications-enabled", false)
	viper.SetDefault("dev-mode", false)
	viper.SetDefault("fsm-max-retries", 5)

	// Environment variables (will be MEALHELPER_SQLITE_PATH, etc.)
	viper.SetEnvPrefix("MEALHELPER")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Config file (optional)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.mealhelper")

	// Read config file (ignore if not found)
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration for errors
func (c *Config) Validate() error {
	if c.SQLitePath == "" {
		return fmt.Errorf("sqlite-path cannot be empty")
	}
	if c.FSMDBPath == "" {
		return fmt.Errorf("fsm-db-path cannot be empty")
	}
	if c.MaxBackupSize <= 0 {
		return fmt.Errorf("max-backup-size must be positive")
	}
	if c.MaxImageSize <= 0 {
		return fmt.Errorf("max-image-size must be positive")
	}
	if c.MaxImagePixels <= 0 {
		return fmt.Errorf("max-image-pixels must be positive")
	}
	if c.ImageMaxDimension <= 0 {
		return fmt.Errorf("image-max-dimension must be positive")
	}
	if c.ImageQuality < 1 || c.ImageQuality > 100 {
		return fmt.Errorf("image-quality must be between 1 and 100")
	}
	if c.FSMMaxRetries < 0 {
		return fmt.Errorf("fsm-max-retries must be non-negative")
	}
	return nil
}
