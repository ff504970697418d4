// Package redis backs jobs.Store with a Redis hash, JSON-encoding each
// spec.Job the same way registry/store/replicated keeps replicated
// toolsets: one hash field per key, JSON payload as the value.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"toolhub/jobs"
	"toolhub/spec"
)

const jobsHashKey = "toolhub:jobs"

// Store persists jobs in a single Redis hash keyed by job ID.
type Store struct {
	client *redis.Client
}

// New wraps an existing *redis.Client. The caller owns the client's
// lifecycle (dialling and closing it).
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Save(ctx context.Context, job *spec.Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("jobs/store/redis: marshal job %s: %w", job.JobID, err)
	}
	return s.client.HSet(ctx, jobsHashKey, job.JobID, payload).Err()
}

func (s *Store) Get(ctx context.Context, jobID string) (*spec.Job, error) {
	raw, err := s.client.HGet(ctx, jobsHashKey, jobID).Bytes()
	if err == redis.Nil {
		return nil, jobs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var job spec.Job
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, fmt.Errorf("jobs/store/redis: unmarshal job %s: %w", jobID, err)
	}
	return &job, nil
}

func (s *Store) List(ctx context.Context, filter jobs.Filter) ([]*spec.Job, error) {
	all, err := s.client.HGetAll(ctx, jobsHashKey).Result()
	if err != nil {
		return nil, err
	}
	var out []*spec.Job
	for id, raw := range all {
		var job spec.Job
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			return nil, fmt.Errorf("jobs/store/redis: unmarshal job %s: %w", id, err)
		}
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		if filter.ToolName != "" && job.ToolName != filter.ToolName {
			continue
		}
		jobCopy := job
		out = append(out, &jobCopy)
	}
	return out, nil
}

func (s *Store) DeleteTerminalBefore(ctx context.Context, cutoff time.Time) (int, error) {
	all, err := s.client.HGetAll(ctx, jobsHashKey).Result()
	if err != nil {
		return 0, err
	}
	n := 0
	for id, raw := range all {
		var job spec.Job
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			continue
		}
		if job.Terminal() && job.UpdatedAt.Before(cutoff) {
			if err := s.client.HDel(ctx, jobsHashKey, id).Err(); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}

var _ jobs.Store = (*Store)(nil)
