package discovery

import "time"

func durationMs(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
