package fsm

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mealhelper/mealhelper/pkg/db"
	"github.com/mealhelper/mealhelper/pkg/errors"
	"github.com/mealhelper/mealhelper/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMachine(t *testing.T, maxBackupSize int64) *Machine {
	t.Helper()

	repo, err := db.NewRepository(filepath.Join(t.TempDir(), "fsm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return NewMachine(repo, security.NewValidator(maxBackupSize, 1024, 1<<20), 3)
}

func writeBackup(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		maxSize     int64
		wantErr     bool
		wantVersion bool
	}{
		{
			name:    "valid document",
			body:    `{"version":1,"entries":[{"calories":100,"description":"Toast","timestamp":1}],"settings":{"calorieLimit":2000}}`,
			maxSize: 1 << 20,
		},
		{
			name:        "unsupported version",
			body:        `{"version":2,"entries":[]}`,
			maxSize:     1 << 20,
			wantErr:     true,
			wantVersion: true,
		},
		{
			name:        "missing version",
			body:        `{"entries":[]}`,
			maxSize:     1 << 20,
			wantErr:     true,
			wantVersion: true,
		},
		{
			name:    "malformed json",
			body:    `{"version":1,"entries":[`,
			maxSize: 1 << 20,
			wantErr: true,
		},
		{
			name:    "too large",
			body:    `{"version":1,"entries":[]}`,
			maxSize: 4,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, tt.maxSize)

			doc, err := m.load(writeBackup(t, tt.body))
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, 1, doc.Version)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantVersion, errors.Is(err, errors.ErrUnsupportedVersion))
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	m := newTestMachine(t, 1<<20)

	_, err := m.load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestAbortRecordsFailure(t *testing.T) {
	m := newTestMachine(t, 1<<20)
	assert.Nil(t, m.Err())
	assert.Nil(t, m.Result())

	cause := stderrors.New("boom")
	resp := &RestoreResponse{Status: StatusRestoring}

	err := m.abort(resp, cause)
	require.Error(t, err)
	assert.Equal(t, cause, m.Err())
	assert.Equal(t, StatusFailed, resp.Status)
	assert.Equal(t, "boom", resp.ErrorMessage)
}
