package sync

import "time"

// ItemFailure records one per-item write that was caught and accounted for
// without aborting the run.
type ItemFailure struct {
	ExternalID string `json:"external_id"`
	Kind       string `json:"kind"`
	Message    string `json:"message"`
}

// Result summarizes one completed sync run.
type Result struct {
	Created  int           `json:"created"`
	Updated  int           `json:"updated"`
	Deleted  int           `json:"deleted"`
	Failed   int           `json:"failed"`
	Failures []ItemFailure `json:"failures,omitempty"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
	SyncedAt time.Time     `json:"synced_at"`
}
