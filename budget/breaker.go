package budget

import (
	"sync"
	"time"
)

// breakerState mirrors the standard three-state circuit breaker.
type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

// breaker is a consecutive-failure circuit breaker: it opens after
// threshold consecutive failures and stays open until halfOpenAfter has
// elapsed, at which point it admits exactly one trial call.
type breaker struct {
	threshold     int
	halfOpenAfter time.Duration

	mu           sync.Mutex
	state        breakerState
	failureCount int
	openedAt     time.Time
	trialInFlight bool
}

func newBreaker(threshold int, halfOpenAfter time.Duration) *breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if halfOpenAfter <= 0 {
		halfOpenAfter = 30 * time.Second
	}
	return &breaker{threshold: threshold, halfOpenAfter: halfOpenAfter, state: breakerClosed}
}

// allow reports whether a call may proceed, and if so records the trial
// bookkeeping needed so a concurrent call doesn't also sneak through
// during half-open.
func (b *breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case breakerClosed:
		return true
	case breakerOpen:
		if time.Since(b.openedAt) < b.halfOpenAfter {
			return false
		}
		b.state = breakerHalfOpen
		b.trialInFlight = true
		return true
	case breakerHalfOpen:
		// Only the call that flipped us into half-open gets to try;
		// everything else is rejected until that trial resolves.
		if b.trialInFlight {
			return false
		}
		b.trialInFlight = true
		return true
	default:
		return false
	}
}

func (b *breaker) onSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failureCount = 0
	b.trialInFlight = false
	b.state = breakerClosed
}

func (b *breaker) onFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trialInFlight = false

	switch b.state {
	case breakerHalfOpen:
		b.state = breakerOpen
		b.openedAt = time.Now()
	case breakerClosed:
		b.failureCount++
		if b.failureCount >= b.threshold {
			b.state = breakerOpen
			b.openedAt = time.Now()
		}
	}
}

func (b *breaker) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = breakerClosed
	b.failureCount = 0
	b.trialInFlight = false
}

func (b *breaker) currentState() breakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
