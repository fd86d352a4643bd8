// Package logging configures structured logging: colored output on stderr via
// tint and, when a log file is configured, a rotating JSON log via lumberjack.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for the log file.
const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

// Setup installs the default logger at the named level ("debug", "info",
// "warn", "error"). When logFile is non-empty records are also written there.
// The returned closer flushes the file and is safe to call when no file is used.
func Setup(level, logFile string) io.Closer {
	lvl := ParseLevel(level)

	console := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      lvl,
		TimeFormat: time.Kitchen,
	})

	if logFile == "" {
		slog.SetDefault(slog.New(console))
		return nopCloser{}
	}

	file := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: lvl})

	slog.SetDefault(slog.New(slogmulti.Fanout(console, fileHandler)))
	return file
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
