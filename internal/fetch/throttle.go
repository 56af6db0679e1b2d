package fetch

import (
	"context"
	"sync"
	"time"
)

// Throttle enforces a minimum delay between consecutive requests to the same
// host. Adapters that drive their own transport (e.g. a browser session) hold
// one of these and call Wait before every navigation.
type Throttle struct {
	mu    sync.Mutex
	delay time.Duration
	last  map[string]time.Time
}

// NewThrottle builds a Throttle with the given minimum per-host delay.
// A non-positive delay disables throttling.
func NewThrottle(delay time.Duration) *Throttle {
	return &Throttle{
		delay: delay,
		last:  make(map[string]time.Time),
	}
}

// Wait blocks until at least the configured delay has passed since the last
// call for host, or until ctx is done. The reservation is taken before
// sleeping so concurrent callers for the same host queue up behind each other.
func (t *Throttle) Wait(ctx context.Context, host string) error {
	if t == nil || t.delay <= 0 {
		return ctx.Err()
	}

	t.mu.Lock()
	now := time.Now()
	next := t.last[host].Add(t.delay)
	if next.Before(now) {
		next = now
	}
	t.last[host] = next
	t.mu.Unlock()

	wait := time.Until(next)
	if wait <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
