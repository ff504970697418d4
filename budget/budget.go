// Package budget implements the runtime's budgeted-execution gate:
// timeout, per-tool rate limiting, a concurrency bulkhead, and a
// consecutive-failure circuit breaker, composed as breaker(bulkhead(call))
// so the breaker only ever observes semaphore-admitted attempts.
package budget

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"toolhub/spec"
)

// Config configures the four sub-mechanisms for one tool. Zero values
// fall back to sane defaults inside each sub-mechanism's constructor.
type Config struct {
	DefaultTimeout time.Duration

	RateWindowMs int
	RateMaxCalls int

	MaxConcurrency int

	FailureThreshold int
	HalfOpenAfter    time.Duration
}

// toolBudget bundles the lazily-built sub-mechanisms for a single tool
// name.
type toolBudget struct {
	limiter  *rate.Limiter
	bulkhead *bulkhead
	breaker  *breaker
	timeout  time.Duration
}

// Manager owns one toolBudget per tool name, created on first use.
type Manager struct {
	mu    sync.Mutex
	tools map[string]*toolBudget
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{tools: make(map[string]*toolBudget)}
}

func (m *Manager) get(toolName string, cfg Config) *toolBudget {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tb, ok := m.tools[toolName]; ok {
		return tb
	}
	timeout := cfg.DefaultTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	tb := &toolBudget{
		limiter:  newSlidingLimiter(cfg.RateWindowMs, cfg.RateMaxCalls),
		bulkhead: newBulkhead(cfg.MaxConcurrency),
		breaker:  newBreaker(cfg.FailureThreshold, cfg.HalfOpenAfter),
		timeout:  timeout,
	}
	m.tools[toolName] = tb
	return tb
}

// Reset resets one tool's circuit breaker to closed, clearing its
// failure count. Exposed for tests.
func (m *Manager) Reset(toolName string) {
	m.mu.Lock()
	tb, ok := m.tools[toolName]
	m.mu.Unlock()
	if ok {
		tb.breaker.reset()
	}
}

// ResetAll resets every tool's circuit breaker.
func (m *Manager) ResetAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tb := range m.tools {
		tb.breaker.reset()
	}
}

// Execute runs fn under toolName's budget: a rate-limit check, then a
// bulkhead-admitted, breaker-guarded, timeout-bounded call. It returns a
// *spec.ToolError tagged ErrBudgetExceeded or ErrTimeout when the gate
// itself rejects the call, and otherwise returns whatever fn returns.
func Execute[T any](ctx context.Context, m *Manager, toolName string, cfg Config, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	tb := m.get(toolName, cfg)

	if !tb.limiter.Allow() {
		return zero, spec.NewToolError(spec.ErrBudgetExceeded, "rate limit exceeded for tool "+toolName)
	}

	if !tb.bulkhead.tryAcquire() {
		return zero, spec.NewToolError(spec.ErrBudgetExceeded, "concurrency limit exceeded for tool "+toolName)
	}
	defer tb.bulkhead.release()

	if !tb.breaker.allow() {
		return zero, spec.NewToolError(spec.ErrBudgetExceeded, "circuit breaker open for tool "+toolName)
	}

	callCtx, cancel := context.WithTimeout(ctx, tb.timeout)
	defer cancel()

	result, err := fn(callCtx)
	if err != nil {
		tb.breaker.onFailure()
		if callCtx.Err() == context.DeadlineExceeded {
			return zero, spec.NewToolError(spec.ErrTimeout, "tool "+toolName+" exceeded its budgeted timeout")
		}
		return zero, err
	}
	tb.breaker.onSuccess()
	return result, nil
}
