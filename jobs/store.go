package jobs

import (
	"context"
	"errors"
	"time"

	"toolhub/spec"
)

// ErrNotFound is returned by Store.Get when no job exists for the given
// ID.
var ErrNotFound = errors.New("jobs: job not found")

// Filter narrows List results. Zero-value fields are "any".
type Filter struct {
	Status   spec.JobStatus
	ToolName string
}

// Store is the pluggable persistence backend for async jobs. The default
// is an in-memory map (NewMemStore in memstore.go); jobs/store/redis and
// jobs/store/mongo provide durable alternatives.
type Store interface {
	Save(ctx context.Context, job *spec.Job) error
	Get(ctx context.Context, jobID string) (*spec.Job, error)
	List(ctx context.Context, filter Filter) ([]*spec.Job, error)
	// DeleteTerminalBefore removes every terminal (completed/failed) job
	// last updated before cutoff, returning how many were removed. It
	// backs the manager's TTL sweep.
	DeleteTerminalBefore(ctx context.Context, cutoff time.Time) (int, error)
}
