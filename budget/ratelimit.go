package budget

import (
	"time"

	"golang.org/x/time/rate"
)

// newSlidingLimiter approximates a "maxCalls per windowMs" sliding window
// with a token-bucket limiter sized so a cold caller can burst up to
// maxCalls immediately and then refills at the window's average rate —
// the same budget golang.org/x/time/rate is built to express.
func newSlidingLimiter(windowMs int, maxCalls int) *rate.Limiter {
	if maxCalls <= 0 {
		maxCalls = 1
	}
	if windowMs <= 0 {
		windowMs = 1000
	}
	window := time.Duration(windowMs) * time.Millisecond
	perCall := window / time.Duration(maxCalls)
	return rate.NewLimiter(rate.Every(perCall), maxCalls)
}
