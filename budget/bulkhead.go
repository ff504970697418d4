package budget

import (
	"golang.org/x/sync/semaphore"
)

// bulkhead caps concurrent in-flight calls for one tool. It never queues:
// tryAcquire either grabs a slot immediately or reports saturation.
type bulkhead struct {
	sem *semaphore.Weighted
}

func newBulkhead(maxConcurrency int) *bulkhead {
	if maxConcurrency <= 0 {
		maxConcurrency = 10
	}
	return &bulkhead{sem: semaphore.NewWeighted(int64(maxConcurrency))}
}

func (b *bulkhead) tryAcquire() bool {
	return b.sem.TryAcquire(1)
}

func (b *bulkhead) release() {
	b.sem.Release(1)
}
