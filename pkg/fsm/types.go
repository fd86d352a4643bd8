package fsm

// RestoreRequest is the FSM input
type RestoreRequest struct {
	// Path is the backup file to restore.
	Path string
}

// RestoreResponse is the FSM output (accumulated across transitions)
type RestoreResponse struct {
	// From Load
	Version    int
	EntryCount int

	// From RestoreEntries
	Entries       int
	Images        int
	ImageFailures int

	// From RestoreSettings
	CalorieLimit int

	// From Complete/Failed
	Status       string
	ErrorMessage string
}

// State names
const (
	StateLoad            = "load"
	StateClear           = "clear"
	StateRestoreEntries  = "restore_entries"
	StateRestoreSettings = "restore_settings"
	StateComplete        = "complete"
	StateFailed          = "failed"
)

// Status values reported in RestoreResponse.Status
const (
	StatusRestoring = "restoring"
	StatusComplete  = "complete"
	StatusFailed    = "failed"
)
