package httpapi

import (
	"sync"
	"time"
)

// RateLimiter tracks request timestamps per client over a sliding one-minute
// window. It is explicit, injected state owned by this transport layer, with
// a lifecycle scoped to the App.
type RateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string][]time.Time
	now    func() time.Time
}

// NewRateLimiter allows limit requests per client per minute. A limit <= 0
// returns a limiter that always allows.
func NewRateLimiter(limit int) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: time.Minute,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow records one request for key and reports whether it is within the
// window limit.
func (l *RateLimiter) Allow(key string) bool {
	if l.limit <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	l.cleanupLocked(cutoff)

	recent := l.hits[key]
	if len(recent) >= l.limit {
		return false
	}
	l.hits[key] = append(recent, now)
	return true
}

// cleanupLocked drops timestamps older than the window and empty entries.
func (l *RateLimiter) cleanupLocked(cutoff time.Time) {
	for key, stamps := range l.hits {
		kept := stamps[:0]
		for _, ts := range stamps {
			if ts.After(cutoff) {
				kept = append(kept, ts)
			}
		}
		if len(kept) == 0 {
			delete(l.hits, key)
			continue
		}
		l.hits[key] = kept
	}
}
