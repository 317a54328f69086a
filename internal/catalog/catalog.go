// Package catalog keeps a local history of record and compare runs so the
// history command can show what was done, when, and with what outcome. The
// catalog is auxiliary bookkeeping: core operations proceed even when it
// is unavailable.
package catalog

import (
	"database/sql"
	"time"
)

// Run statuses. A run starts as StatusRunning and is finalized to exactly
// one of the other two.
const (
	StatusRunning = "running"
	StatusOK      = "ok"
	StatusError   = "error"
)

// Run is one recorded invocation of a cataloged operation.
type Run struct {
	ID         int64
	Operation  string // "record" or "compare"
	Root       string
	RecordPath string
	StartedAt  time.Time
	FinishedAt sql.NullTime
	Status     string

	// Outcome counters, meaningful once the run finished.
	FilesSeen       int64
	OnlyInDirectory int64
	OnlyInRecord    int64
	Differs         int64
}

// Catalog records runs and answers history queries.
type Catalog interface {
	// StartRun inserts a new run in the running state and returns it.
	StartRun(operation, root, recordPath string) (*Run, error)

	// FinishRun stamps the run's finish time and persists its status and
	// counters.
	FinishRun(run *Run) error

	// RecentRuns returns up to limit runs, most recent first.
	RecentRuns(limit int) ([]*Run, error)

	// Close releases the underlying storage.
	Close() error
}
