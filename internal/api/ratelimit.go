package api

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

const (
	// defaultRateBuffer is how many requests are kept in reserve on a
	// single call; pagination uses a larger buffer to protect long scans.
	defaultRateBuffer    = 5
	paginationRateBuffer = 10

	// probeWindow is how stale the tracker may be before an exhausted
	// quota is probed with a real request instead of waiting.
	probeWindow = 60 * time.Second

	// fallbackWait is the short pause used when the quota looks
	// exhausted but the reset time has already passed.
	fallbackWait = 10 * time.Second
)

// RateTracker keeps the last-known quota state parsed from response
// headers and decides whether the next call should be delayed. It is
// mutex-protected so one tracker can back a client shared by callers,
// but the core itself issues one call at a time.
type RateTracker struct {
	mu           sync.Mutex
	limit        int
	remaining    int
	hasRemaining bool
	resetAt      time.Time
	lastObserved time.Time

	now func() time.Time // test seam
}

// NewRateTracker returns a tracker with no quota knowledge yet.
func NewRateTracker() *RateTracker {
	return &RateTracker{now: time.Now}
}

// UpdateFromHeaders refreshes quota state from X-RateLimit-* headers.
// Called on every response, success or not.
func (t *RateTracker) UpdateFromHeaders(h http.Header) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if v := h.Get("X-RateLimit-Limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			t.limit = n
		}
	}
	if v := h.Get("X-RateLimit-Remaining"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			t.remaining = n
			t.hasRemaining = true
		}
	}
	if v := h.Get("X-RateLimit-Reset"); v != "" {
		if unix, err := strconv.ParseInt(v, 10, 64); err == nil {
			t.resetAt = time.Unix(unix, 0)
		}
	}
	t.lastObserved = t.now()
}

// ShouldWait decides whether the next call should be delayed and by how
// long, keeping buffer requests in reserve. With no quota knowledge it
// never waits; with an exhausted quota whose reset has passed it allows
// a probe request once a minute rather than waiting forever.
func (t *RateTracker) ShouldWait(buffer int) (bool, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.hasRemaining || t.resetAt.IsZero() {
		return false, 0
	}
	if t.remaining > buffer {
		return false, 0
	}

	now := t.now()
	if untilReset := t.resetAt.Sub(now); untilReset > 0 {
		return true, untilReset
	}

	// Reset time has passed but we have no fresh headers. Probe if the
	// tracker is stale, otherwise pause briefly.
	if now.Sub(t.lastObserved) >= probeWindow {
		return false, 0
	}
	return true, fallbackWait
}

// Snapshot returns the last-known limit, remaining count, and reset time.
func (t *RateTracker) Snapshot() (limit, remaining int, resetAt time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.limit, t.remaining, t.resetAt
}
