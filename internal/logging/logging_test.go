package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestSetup_WritesLogFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "mealhelper.log")
	closer := Setup("info", path)

	slog.Info("entry_added", "calories", 450)
	slog.Debug("hidden_detail")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"entry_added"`)
	assert.Contains(t, string(data), `"calories":450`)
	assert.NotContains(t, string(data), "hidden_detail")
}

func TestSetup_ConsoleOnly(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	closer := Setup("warn", "")
	assert.NoError(t, closer.Close())
	assert.False(t, slog.Default().Enabled(t.Context(), slog.LevelInfo))
}

func TestSetup_FanoutHonorsLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "mealhelper.log")
	closer := Setup("warn", path)

	assert.False(t, slog.Default().Enabled(t.Context(), slog.LevelInfo))
	slog.Warn("restore_slow", "entries", 3)
	slog.Info("entry_listed")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"restore_slow"`)
	assert.NotContains(t, string(data), "entry_listed")
}
