package jobs

import (
	"context"
	"sync"
	"time"

	"toolhub/spec"
)

// memStore is the default in-process Store, backed by a mutex-guarded map.
// It is the only store the manager needs for a single-process deployment;
// jobs/store/redis and jobs/store/mongo exist for multi-process ones.
type memStore struct {
	mu   sync.RWMutex
	jobs map[string]*spec.Job
}

// NewMemStore returns an empty in-memory Store.
func NewMemStore() Store {
	return &memStore{jobs: make(map[string]*spec.Job)}
}

func (s *memStore) Save(ctx context.Context, job *spec.Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *job
	s.jobs[job.JobID] = &cp
	return nil
}

func (s *memStore) Get(ctx context.Context, jobID string) (*spec.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (s *memStore) List(ctx context.Context, filter Filter) ([]*spec.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*spec.Job
	for _, job := range s.jobs {
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		if filter.ToolName != "" && job.ToolName != filter.ToolName {
			continue
		}
		cp := *job
		out = append(out, &cp)
	}
	return out, nil
}

func (s *memStore) DeleteTerminalBefore(ctx context.Context, cutoff time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, job := range s.jobs {
		if job.Terminal() && job.UpdatedAt.Before(cutoff) {
			delete(s.jobs, id)
			n++
		}
	}
	return n, nil
}
