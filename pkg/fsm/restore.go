package fsm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mealhelper/mealhelper/pkg/errors"
	"github.com/superfly/fsm"
)

// RunID is the resource id every restore runs under, so a restore left
// active in the FSM store is found again by the next import.
const RunID = "backup-restore"

// Restore registers the machine on manager, finishes any interrupted restore,
// then restores the backup at path and waits for it to complete.
func (m *Machine) Restore(ctx context.Context, manager *fsm.Manager, path string) (*RestoreResponse, error) {
	start, resume, err := m.Register(ctx, manager)
	if err != nil {
		return nil, err
	}

	if err := resume(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to resume interrupted restore")
	}
	if err := manager.WaitByID(ctx, RunID); err != nil {
		slog.Warn("interrupted_restore_failed", "run_id", RunID, "error", err)
	}
	m.reset()

	req := &RestoreRequest{Path: path}
	resp := &RestoreResponse{}

	version, err := start(ctx, RunID, fsm.NewRequest(req, resp))
	if err != nil {
		return nil, errors.Wrap(err, "FSM start failed")
	}

	slog.Info("fsm_started", "run_id", RunID, "version", version.String(), "path", path)

	waitErr := manager.Wait(ctx, version)
	if err := m.Err(); err != nil {
		return nil, err
	}
	if waitErr != nil {
		return nil, errors.Wrap(waitErr, "restore failed")
	}

	result := m.Result()
	if result == nil {
		return nil, fmt.Errorf("restore did not complete")
	}
	return result, nil
}
