package budget

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"toolhub/spec"
)

func TestExecuteSucceeds(t *testing.T) {
	m := NewManager()
	got, err := Execute(context.Background(), m, "t1", Config{}, func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	require.Equal(t, "ok", got)
}

func TestExecuteRateLimitRejectsBurstBeyondCapacity(t *testing.T) {
	m := NewManager()
	cfg := Config{RateWindowMs: 60_000, RateMaxCalls: 1}
	_, err := Execute(context.Background(), m, "t2", cfg, func(ctx context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)

	_, err = Execute(context.Background(), m, "t2", cfg, func(ctx context.Context) (int, error) { return 1, nil })
	require.Error(t, err)
	require.Equal(t, spec.ErrBudgetExceeded, spec.KindOf(err))
}

func TestExecuteBulkheadRejectsOverCapacity(t *testing.T) {
	m := NewManager()
	cfg := Config{MaxConcurrency: 1, RateMaxCalls: 100, RateWindowMs: 1}
	started := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_, _ = Execute(context.Background(), m, "t3", cfg, func(ctx context.Context) (int, error) {
			close(started)
			<-release
			return 1, nil
		})
	}()
	<-started

	_, err := Execute(context.Background(), m, "t3", cfg, func(ctx context.Context) (int, error) { return 1, nil })
	require.Error(t, err)
	require.Equal(t, spec.ErrBudgetExceeded, spec.KindOf(err))
	close(release)
}

func TestExecuteBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	m := NewManager()
	cfg := Config{FailureThreshold: 3, HalfOpenAfter: time.Hour, RateMaxCalls: 100, RateWindowMs: 1, MaxConcurrency: 10}
	boom := errors.New("boom")

	var calls int32
	fail := func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 0, boom
	}

	for i := 0; i < 3; i++ {
		_, err := Execute(context.Background(), m, "t4", cfg, fail)
		require.ErrorIs(t, err, boom)
	}

	_, err := Execute(context.Background(), m, "t4", cfg, fail)
	require.Error(t, err)
	require.Equal(t, spec.ErrBudgetExceeded, spec.KindOf(err))
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestExecuteBreakerHalfOpenAdmitsOneTrial(t *testing.T) {
	m := NewManager()
	cfg := Config{FailureThreshold: 1, HalfOpenAfter: time.Millisecond, RateMaxCalls: 100, RateWindowMs: 1, MaxConcurrency: 10}
	boom := errors.New("boom")

	_, err := Execute(context.Background(), m, "t5", cfg, func(ctx context.Context) (int, error) { return 0, boom })
	require.Error(t, err)

	time.Sleep(5 * time.Millisecond)

	got, err := Execute(context.Background(), m, "t5", cfg, func(ctx context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	require.Equal(t, 7, got)
}

func TestExecuteTimeoutMapsToErrTimeout(t *testing.T) {
	m := NewManager()
	cfg := Config{DefaultTimeout: 5 * time.Millisecond, RateMaxCalls: 100, RateWindowMs: 1, MaxConcurrency: 10}

	_, err := Execute(context.Background(), m, "t6", cfg, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	require.Error(t, err)
	require.Equal(t, spec.ErrTimeout, spec.KindOf(err))
}

func TestResetClearsBreakerState(t *testing.T) {
	m := NewManager()
	cfg := Config{FailureThreshold: 1, HalfOpenAfter: time.Hour, RateMaxCalls: 100, RateWindowMs: 1, MaxConcurrency: 10}
	boom := errors.New("boom")

	_, err := Execute(context.Background(), m, "t7", cfg, func(ctx context.Context) (int, error) { return 0, boom })
	require.Error(t, err)

	m.Reset("t7")

	got, err := Execute(context.Background(), m, "t7", cfg, func(ctx context.Context) (int, error) { return 9, nil })
	require.NoError(t, err)
	require.Equal(t, 9, got)
}
