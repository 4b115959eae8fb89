package api

import (
	"net/http"
	"strconv"
	"testing"
	"time"
)

func trackerAt(now time.Time) *RateTracker {
	t := NewRateTracker()
	t.now = func() time.Time { return now }
	return t
}

func headers(limit, remaining int, resetAt time.Time) http.Header {
	h := http.Header{}
	h.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
	return h
}

func TestShouldWaitNoKnowledge(t *testing.T) {
	tracker := NewRateTracker()
	if wait, _ := tracker.ShouldWait(defaultRateBuffer); wait {
		t.Error("tracker with no quota knowledge should never wait")
	}
}

func TestShouldWaitHealthyQuota(t *testing.T) {
	now := time.Now()
	tracker := trackerAt(now)
	tracker.UpdateFromHeaders(headers(3000, 2500, now.Add(30*time.Minute)))

	if wait, _ := tracker.ShouldWait(defaultRateBuffer); wait {
		t.Error("should not wait with 2500 requests remaining")
	}
}

func TestShouldWaitExhaustedQuota(t *testing.T) {
	now := time.Now()
	resetAt := now.Add(10 * time.Minute)
	tracker := trackerAt(now)
	tracker.UpdateFromHeaders(headers(3000, 3, resetAt))

	wait, d := tracker.ShouldWait(defaultRateBuffer)
	if !wait {
		t.Fatal("should wait with remaining inside the buffer")
	}
	if d != resetAt.Sub(now) {
		t.Errorf("wait = %v, want time until reset %v", d, resetAt.Sub(now))
	}
}

func TestShouldWaitBufferBoundary(t *testing.T) {
	now := time.Now()
	tracker := trackerAt(now)

	// Exactly at the buffer still waits; one above it does not.
	tracker.UpdateFromHeaders(headers(3000, defaultRateBuffer, now.Add(time.Hour)))
	if wait, _ := tracker.ShouldWait(defaultRateBuffer); !wait {
		t.Error("remaining == buffer should wait")
	}

	tracker.UpdateFromHeaders(headers(3000, defaultRateBuffer+1, now.Add(time.Hour)))
	if wait, _ := tracker.ShouldWait(defaultRateBuffer); wait {
		t.Error("remaining just above buffer should not wait")
	}
}

func TestShouldWaitStaleAllowsProbe(t *testing.T) {
	observed := time.Now()
	tracker := trackerAt(observed)
	tracker.UpdateFromHeaders(headers(3000, 0, observed.Add(time.Minute)))

	// Reset has passed and the tracker has been stale past the probe
	// window, so a real request is allowed through.
	tracker.now = func() time.Time { return observed.Add(2 * probeWindow) }
	if wait, _ := tracker.ShouldWait(defaultRateBuffer); wait {
		t.Error("stale tracker past reset should probe, not wait")
	}
}

func TestShouldWaitRecentButPastReset(t *testing.T) {
	observed := time.Now()
	tracker := trackerAt(observed)
	tracker.UpdateFromHeaders(headers(3000, 0, observed.Add(time.Second)))

	// Reset passed moments ago with fresh observations: short pause.
	tracker.now = func() time.Time { return observed.Add(5 * time.Second) }
	wait, d := tracker.ShouldWait(defaultRateBuffer)
	if !wait {
		t.Fatal("should pause briefly just after reset with fresh headers")
	}
	if d != fallbackWait {
		t.Errorf("wait = %v, want the fallback pause %v", d, fallbackWait)
	}
}

func TestUpdateFromHeadersPartial(t *testing.T) {
	tracker := NewRateTracker()

	// Headers without a remaining count leave the tracker ignorant.
	h := http.Header{}
	h.Set("X-RateLimit-Limit", "3000")
	tracker.UpdateFromHeaders(h)

	if wait, _ := tracker.ShouldWait(defaultRateBuffer); wait {
		t.Error("limit without remaining should not trigger waits")
	}

	limit, _, _ := tracker.Snapshot()
	if limit != 3000 {
		t.Errorf("limit = %d, want 3000", limit)
	}
}

func TestUpdateFromHeadersIgnoresGarbage(t *testing.T) {
	tracker := NewRateTracker()
	h := http.Header{}
	h.Set("X-RateLimit-Limit", "not-a-number")
	h.Set("X-RateLimit-Remaining", "")
	tracker.UpdateFromHeaders(h)

	limit, remaining, _ := tracker.Snapshot()
	if limit != 0 || remaining != 0 {
		t.Errorf("tracker = %d/%d, want untouched zeros", remaining, limit)
	}
}
