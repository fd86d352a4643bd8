// Package fsm implements the backup restore workflow.
// It runs load, clear, entry restore and settings restore as persisted
// transitions using the superfly/fsm library, with bounded retries per state.
package fsm

import (
	"context"

	"github.com/mealhelper/mealhelper/pkg/errors"
	"github.com/superfly/fsm"
)

// Register registers the restore FSM
func (m *Machine) Register(ctx context.Context, manager *fsm.Manager) (fsm.Start[RestoreRequest, RestoreResponse], fsm.Resume, error) {
	start, resume, err := fsm.Register[RestoreRequest, RestoreResponse](manager, "backup-restore").
		Start(StateLoad, m.handleLoad).
		To(StateClear, m.handleClear).
		To(StateRestoreEntries, m.handleRestoreEntries).
		To(StateRestoreSettings, m.handleRestoreSettings).
		To(StateComplete, m.handleComplete).
		End(StateFailed).
		Build(ctx)

	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to register FSM")
	}

	return start, resume, nil
}
