package domain

import "time"

// CycleStats holds statistics about one sync cycle or backfill run.
type CycleStats struct {
	StartedAt   time.Time
	CompletedAt time.Time
	Fetched     int
	Synced      int
	Skipped     int
	Errors      int
	// ErrorMessage records a failure of the fetch traversal itself.
	// Per-item write failures only increment Errors.
	ErrorMessage string
	Duration     time.Duration
}

// Failed reports whether the traversal itself broke down.
func (s *CycleStats) Failed() bool {
	return s.ErrorMessage != ""
}
