package fsm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/mealhelper/mealhelper/pkg/backup"
	"github.com/mealhelper/mealhelper/pkg/errors"
	"github.com/mealhelper/mealhelper/pkg/security"
	"github.com/superfly/fsm"
)

// Machine holds dependencies for FSM transitions
type Machine struct {
	store      backup.Store
	validator  *security.Validator
	restorer   *backup.Restorer
	maxRetries int

	mu     sync.Mutex
	result *RestoreResponse
	err    error
}

// NewMachine creates a new FSM machine with dependencies
func NewMachine(store backup.Store, validator *security.Validator, maxRetries int) *Machine {
	return &Machine{
		store:      store,
		validator:  validator,
		restorer:   backup.NewRestorer(store, validator),
		maxRetries: maxRetries,
	}
}

// Result returns the response recorded by the last completed run.
func (m *Machine) Result() *RestoreResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result
}

// Err returns the error that aborted the last run, if any.
func (m *Machine) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *Machine) reset() {
	m.mu.Lock()
	m.result = nil
	m.err = nil
	m.mu.Unlock()
}

func (m *Machine) abort(resp *RestoreResponse, err error) error {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()

	if resp != nil {
		resp.Status = StatusFailed
		resp.ErrorMessage = err.Error()
	}
	return fsm.Abort(err)
}

func (m *Machine) retriesExceeded(ctx context.Context, state, path string) error {
	if retryCount := fsm.RetryFromContext(ctx); retryCount >= uint64(m.maxRetries) {
		slog.Error("max_retries_exceeded", "state", state, "path", path, "max_retries", m.maxRetries)
		return fmt.Errorf("max retries (%d) exceeded", m.maxRetries)
	}
	return nil
}

// handleLoad reads the backup and checks its version before anything is mutated
func (m *Machine) handleLoad(ctx context.Context, req *fsm.Request[RestoreRequest, RestoreResponse]) (*fsm.Response[RestoreResponse], error) {
	slog.Info("fsm_state_load", "path", req.Msg.Path)

	resp := req.W.Msg
	if resp == nil {
		resp = &RestoreResponse{}
	}

	if err := m.retriesExceeded(ctx, StateLoad, req.Msg.Path); err != nil {
		return nil, m.abort(resp, err)
	}

	doc, err := m.load(req.Msg.Path)
	if err != nil {
		slog.Error("backup_load_failed", "path", req.Msg.Path, "error", err)
		return nil, m.abort(resp, err)
	}

	resp.Version = doc.Version
	resp.EntryCount = len(doc.Entries)
	resp.Status = StatusRestoring

	slog.Info("backup_loaded", "path", req.Msg.Path, "version", doc.Version, "entry_count", len(doc.Entries))
	return fsm.NewResponse(resp), nil
}

// handleClear removes all existing entries, images and settings
func (m *Machine) handleClear(ctx context.Context, req *fsm.Request[RestoreRequest, RestoreResponse]) (*fsm.Response[RestoreResponse], error) {
	slog.Info("fsm_state_clear", "path", req.Msg.Path)

	resp := req.W.Msg
	if resp == nil {
		return nil, m.abort(nil, fmt.Errorf("response not initialized"))
	}

	if err := m.retriesExceeded(ctx, StateClear, req.Msg.Path); err != nil {
		return nil, m.abort(resp, err)
	}

	if err := m.restorer.Clear(ctx); err != nil {
		slog.Error("clear_failed", "error", err)
		return nil, err
	}

	return fsm.NewResponse(resp), nil
}

// handleRestoreEntries re-inserts the entries and their photos
func (m *Machine) handleRestoreEntries(ctx context.Context, req *fsm.Request[RestoreRequest, RestoreResponse]) (*fsm.Response[RestoreResponse], error) {
	slog.Info("fsm_state_restore_entries", "path", req.Msg.Path)

	resp := req.W.Msg
	if resp == nil {
		return nil, m.abort(nil, fmt.Errorf("response not initialized"))
	}

	if err := m.retriesExceeded(ctx, StateRestoreEntries, req.Msg.Path); err != nil {
		return nil, m.abort(resp, err)
	}

	// A retry starts over from an empty log so entries are not duplicated.
	if fsm.RetryFromContext(ctx) > 0 {
		slog.Warn("restore_entries_retry_clearing", "path", req.Msg.Path)
		if err := m.restorer.Clear(ctx); err != nil {
			return nil, err
		}
	}

	doc, err := m.load(req.Msg.Path)
	if err != nil {
		return nil, m.abort(resp, err)
	}

	result, err := m.restorer.RestoreEntries(ctx, doc.Entries)
	if err != nil {
		slog.Error("restore_entries_failed", "path", req.Msg.Path, "error", err)
		return nil, err
	}

	resp.Entries = result.Entries
	resp.Images = result.Images
	resp.ImageFailures = result.ImageFailures

	slog.Info("entries_restored", "entries", result.Entries, "images", result.Images, "image_failures", result.ImageFailures)
	return fsm.NewResponse(resp), nil
}

// handleRestoreSettings restores the calorie limit
func (m *Machine) handleRestoreSettings(ctx context.Context, req *fsm.Request[RestoreRequest, RestoreResponse]) (*fsm.Response[RestoreResponse], error) {
	slog.Info("fsm_state_restore_settings", "path", req.Msg.Path)

	resp := req.W.Msg
	if resp == nil {
		return nil, m.abort(nil, fmt.Errorf("response not initialized"))
	}

	if err := m.retriesExceeded(ctx, StateRestoreSettings, req.Msg.Path); err != nil {
		return nil, m.abort(resp, err)
	}

	doc, err := m.load(req.Msg.Path)
	if err != nil {
		return nil, m.abort(resp, err)
	}

	if err := m.restorer.RestoreSettings(ctx, doc.Settings); err != nil {
		slog.Error("restore_settings_failed", "error", err)
		return nil, err
	}

	limit, err := m.store.GetCalorieLimit(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read calorie limit")
	}
	resp.CalorieLimit = limit

	return fsm.NewResponse(resp), nil
}

// handleComplete marks the restore as done
func (m *Machine) handleComplete(ctx context.Context, req *fsm.Request[RestoreRequest, RestoreResponse]) (*fsm.Response[RestoreResponse], error) {
	slog.Info("fsm_state_complete", "path", req.Msg.Path)

	resp := req.W.Msg
	if resp == nil {
		resp = &RestoreResponse{}
	}
	resp.Status = StatusComplete

	m.mu.Lock()
	result := *resp
	m.result = &result
	m.err = nil
	m.mu.Unlock()

	slog.Info("fsm_complete",
		"path", req.Msg.Path,
		"entries", resp.Entries,
		"images", resp.Images,
		"calorie_limit", resp.CalorieLimit)

	return fsm.NewResponse(resp), nil
}

// load opens, size-checks, decodes and version-checks a backup file.
func (m *Machine) load(path string) (*backup.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open backup")
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil {
		if err := m.validator.ValidateBackupSize(info.Size()); err != nil {
			return nil, err
		}
	}

	doc, err := backup.Decode(f, m.validator)
	if err != nil {
		return nil, err
	}
	if err := backup.CheckVersion(doc); err != nil {
		return nil, err
	}
	return doc, nil
}
