package sync

import "errors"

var (
	// ErrAlreadyRunning is returned to a trigger that arrives while another
	// run holds the single-flight slot.
	ErrAlreadyRunning = errors.New("a sync is already running")

	// ErrEmptyFetchSuspected signals that the source returned zero items
	// while the store still has products. That pattern is treated as an
	// upstream outage, not a real catalog wipe, so no deletions happen.
	ErrEmptyFetchSuspected = errors.New("empty fetch with non-empty store, suspected source outage")

	// ErrTimeout is returned when a run was cancelled by the caller's
	// deadline before it could finish.
	ErrTimeout = errors.New("sync run timed out")
)

// Per-item failure kinds recorded in a run result.
const (
	KindWriteFailed  = "write_failed"
	KindDeleteFailed = "delete_failed"
	KindCancelled    = "cancelled"
)
