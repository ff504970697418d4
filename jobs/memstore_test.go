package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"toolhub/spec"
)

func TestMemStoreSaveAndGet(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()
	job := &spec.Job{JobID: "j1", ToolName: "demo", Status: spec.JobQueued, CreatedAt: time.Now(), UpdatedAt: time.Now()}

	require.NoError(t, s.Save(ctx, job))

	got, err := s.Get(ctx, "j1")
	require.NoError(t, err)
	require.Equal(t, "demo", got.ToolName)
}

func TestMemStoreGetMissingReturnsErrNotFound(t *testing.T) {
	s := NewMemStore()
	_, err := s.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemStoreListFilters(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, &spec.Job{JobID: "a", ToolName: "x", Status: spec.JobQueued, UpdatedAt: time.Now()}))
	require.NoError(t, s.Save(ctx, &spec.Job{JobID: "b", ToolName: "y", Status: spec.JobCompleted, UpdatedAt: time.Now()}))

	got, err := s.List(ctx, Filter{Status: spec.JobCompleted})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "b", got[0].JobID)

	got, err = s.List(ctx, Filter{ToolName: "x"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "a", got[0].JobID)
}

func TestMemStoreDeleteTerminalBefore(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, s.Save(ctx, &spec.Job{JobID: "old", Status: spec.JobCompleted, UpdatedAt: old}))
	require.NoError(t, s.Save(ctx, &spec.Job{JobID: "fresh", Status: spec.JobCompleted, UpdatedAt: time.Now()}))
	require.NoError(t, s.Save(ctx, &spec.Job{JobID: "active", Status: spec.JobRunning, UpdatedAt: old}))

	n, err := s.DeleteTerminalBefore(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, err = s.Get(ctx, "old")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.Get(ctx, "fresh")
	require.NoError(t, err)
	_, err = s.Get(ctx, "active")
	require.NoError(t, err)
}
