package spec

import (
	"encoding/json"
	"time"
)

// JobStatus enumerates the lifecycle states of an async job.
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Job tracks a long-running invocation submitted to the async job manager.
type Job struct {
	JobID     string
	ToolName  string
	RequestID string
	TaskID    string
	Status    JobStatus
	CreatedAt time.Time
	UpdatedAt time.Time
	Result    json.RawMessage
	Error     *ToolError
	Metadata  map[string]any
}

// Terminal reports whether the job has reached a terminal status.
func (j *Job) Terminal() bool {
	return j.Status == JobCompleted || j.Status == JobFailed
}
