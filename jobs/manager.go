package jobs

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"toolhub/runtime"
	"toolhub/spec"
)

// DefaultTTL is how long a terminal job is retained before the background
// sweep removes it, per spec.md §4.9.
const DefaultTTL = time.Hour

// SubmitOptions carries the fields needed to create a queued job.
type SubmitOptions struct {
	ToolName  string
	RequestID string
	TaskID    string
	Metadata  map[string]any
}

// Manager owns the async job lifecycle: submit, transition, query, and
// TTL-based cleanup of terminal jobs. It mirrors the runtime package's
// event-emission shape so job lifecycle events flow through the same
// EventSink the invocation pipeline uses.
type Manager struct {
	store  Store
	events runtime.EventSink
	ttl    time.Duration

	sweepStop chan struct{}
	sweepOnce sync.Once
}

// NewManager builds a Manager over store, emitting lifecycle events to
// events (may be nil to disable emission). ttl of zero uses DefaultTTL.
func NewManager(store Store, events runtime.EventSink, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{store: store, events: events, ttl: ttl}
}

// Submit creates a queued job and emits JOB_SUBMITTED.
func (m *Manager) Submit(ctx context.Context, opts SubmitOptions) (*spec.Job, error) {
	now := time.Now()
	job := &spec.Job{
		JobID:     uuid.New().String(),
		ToolName:  opts.ToolName,
		RequestID: opts.RequestID,
		TaskID:    opts.TaskID,
		Status:    spec.JobQueued,
		CreatedAt: now,
		UpdatedAt: now,
		Metadata:  opts.Metadata,
	}
	if err := m.store.Save(ctx, job); err != nil {
		return nil, err
	}
	m.emit(spec.EventJobSubmitted, job, nil)
	return job, nil
}

// MarkRunning transitions a queued job to running.
func (m *Manager) MarkRunning(ctx context.Context, jobID string) (*spec.Job, error) {
	return m.transition(ctx, jobID, func(job *spec.Job) {
		job.Status = spec.JobRunning
	}, "")
}

// Complete transitions a job to completed with the given result payload
// and emits JOB_COMPLETED.
func (m *Manager) Complete(ctx context.Context, jobID string, result json.RawMessage) (*spec.Job, error) {
	return m.transition(ctx, jobID, func(job *spec.Job) {
		job.Status = spec.JobCompleted
		job.Result = result
	}, spec.EventJobCompleted)
}

// Fail transitions a job to failed with the given error and emits
// JOB_FAILED.
func (m *Manager) Fail(ctx context.Context, jobID string, toolErr *spec.ToolError) (*spec.Job, error) {
	return m.transition(ctx, jobID, func(job *spec.Job) {
		job.Status = spec.JobFailed
		job.Error = toolErr
	}, spec.EventJobFailed)
}

func (m *Manager) transition(ctx context.Context, jobID string, mutate func(*spec.Job), terminalEvent spec.EventType) (*spec.Job, error) {
	job, err := m.store.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	mutate(job)
	job.UpdatedAt = time.Now()
	if err := m.store.Save(ctx, job); err != nil {
		return nil, err
	}
	if terminalEvent != "" {
		m.emit(terminalEvent, job, nil)
	}
	return job, nil
}

// GetStatus returns just the job's current status.
func (m *Manager) GetStatus(ctx context.Context, jobID string) (spec.JobStatus, error) {
	job, err := m.store.Get(ctx, jobID)
	if err != nil {
		return "", err
	}
	return job.Status, nil
}

// GetJob returns the full job record.
func (m *Manager) GetJob(ctx context.Context, jobID string) (*spec.Job, error) {
	return m.store.Get(ctx, jobID)
}

// GetResult returns the job's result payload, or the job's error if it
// failed, or nil/nil if it has not yet reached a terminal state.
func (m *Manager) GetResult(ctx context.Context, jobID string) (json.RawMessage, *spec.ToolError, error) {
	job, err := m.store.Get(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	if !job.Terminal() {
		return nil, nil, nil
	}
	return job.Result, job.Error, nil
}

// List returns jobs matching filter.
func (m *Manager) List(ctx context.Context, filter Filter) ([]*spec.Job, error) {
	return m.store.List(ctx, filter)
}

func (m *Manager) emit(t spec.EventType, job *spec.Job, fields map[string]any) {
	if m.events == nil {
		return
	}
	if fields == nil {
		fields = map[string]any{"jobId": job.JobID, "status": string(job.Status)}
	}
	m.events.Append(spec.Event{
		Type:      t,
		RequestID: job.RequestID,
		TaskID:    job.TaskID,
		ToolName:  job.ToolName,
		Timestamp: time.Now(),
		Fields:    fields,
	})
}

// StartSweep launches the background ticker that removes terminal jobs
// older than the manager's TTL, per spec.md §4.9. Call Stop to halt it.
func (m *Manager) StartSweep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	m.sweepOnce.Do(func() {
		m.sweepStop = make(chan struct{})
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-m.sweepStop:
					return
				case <-ticker.C:
					_, _ = m.store.DeleteTerminalBefore(ctx, time.Now().Add(-m.ttl))
				}
			}
		}()
	})
}

// StopSweep halts a running background sweep, if one was started.
func (m *Manager) StopSweep() {
	if m.sweepStop != nil {
		close(m.sweepStop)
	}
}
