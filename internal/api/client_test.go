package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// mapCache is an in-memory cache.Cache for tests.
type mapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string][]byte{}}
}

func (c *mapCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	payload, ok := c.entries[key]
	return payload, ok
}

func (c *mapCache) Set(key string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = payload
}

// testClient builds a client against server with the sleep seam
// replaced by a recorder.
func testClient(server *httptest.Server, retryCount int, retryDelay time.Duration, responseCache *mapCache) (*Client, *[]time.Duration) {
	var c *Client
	if responseCache != nil {
		c = NewClient(server.URL, "test-token", 5*time.Second, retryCount, retryDelay, responseCache)
	} else {
		c = NewClient(server.URL, "test-token", 5*time.Second, retryCount, retryDelay, nil)
	}
	var sleeps []time.Duration
	c.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return c, &sleeps
}

func TestCallSendsBearerToken(t *testing.T) {
	var gotAuth, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		fmt.Fprint(w, `{"data": []}`)
	}))
	defer server.Close()

	client, _ := testClient(server, 3, time.Second, nil)
	if _, err := client.Call("leagues", nil); err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want application/json", gotAccept)
	}
}

func TestCallRetriesTransportFailures(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"data": [{"id": 1}]}`)
	}))
	defer server.Close()

	baseDelay := 100 * time.Millisecond
	client, sleeps := testClient(server, 3, baseDelay, nil)

	body, err := client.Call("fixtures", nil)
	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if len(body) == 0 {
		t.Error("expected the successful payload")
	}
	if attempts != 3 {
		t.Errorf("made %d attempts, want 3", attempts)
	}

	// Exponential backoff off the base delay between attempts.
	want := []time.Duration{baseDelay, baseDelay * 2}
	if len(*sleeps) != len(want) {
		t.Fatalf("slept %d times (%v), want %d", len(*sleeps), *sleeps, len(want))
	}
	for i, d := range want {
		if (*sleeps)[i] != d {
			t.Errorf("sleep %d = %v, want %v", i, (*sleeps)[i], d)
		}
	}
}

func TestCallExhaustsRetries(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, _ := testClient(server, 3, time.Millisecond, nil)
	_, err := client.Call("fixtures", nil)
	if err == nil {
		t.Fatal("expected failure after exhausting retries")
	}
	if attempts != 3 {
		t.Errorf("made %d attempts, want 3", attempts)
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindTransport {
		t.Errorf("error = %v, want transport kind", err)
	}
}

func TestCallAuthenticationIsTerminal(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client, sleeps := testClient(server, 3, time.Second, nil)
	_, err := client.Call("fixtures", nil)
	if err == nil {
		t.Fatal("expected authentication error")
	}
	if attempts != 1 {
		t.Errorf("made %d attempts, want 1 (no retry on auth failure)", attempts)
	}
	if len(*sleeps) != 0 {
		t.Errorf("slept %v, want no sleeps", *sleeps)
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindAuthentication {
		t.Errorf("error = %v, want authentication kind", err)
	}
}

func TestCallEmbeddedAppErrorClassified(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		// 200 status, but the payload carries an auth error object.
		fmt.Fprint(w, `{"error": {"message": "Unauthorized", "code": 401}}`)
	}))
	defer server.Close()

	client, _ := testClient(server, 3, time.Millisecond, nil)
	_, err := client.Call("fixtures", nil)
	if err == nil {
		t.Fatal("expected embedded application error")
	}
	if attempts != 1 {
		t.Errorf("made %d attempts, want 1", attempts)
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindAuthentication {
		t.Errorf("error = %v, want authentication kind", err)
	}
}

func TestCallRateLimitedHonorsRetryAfter(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"data": []}`)
	}))
	defer server.Close()

	client, sleeps := testClient(server, 3, time.Second, nil)
	if _, err := client.Call("fixtures", nil); err != nil {
		t.Fatalf("expected success after rate limit, got %v", err)
	}
	if attempts != 2 {
		t.Errorf("made %d attempts, want 2", attempts)
	}
	if len(*sleeps) != 1 || (*sleeps)[0] != 2*time.Second {
		t.Errorf("sleeps = %v, want one sleep of 2s from Retry-After", *sleeps)
	}
}

func TestCallUsesCache(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		fmt.Fprint(w, `{"data": [{"id": 1}]}`)
	}))
	defer server.Close()

	client, _ := testClient(server, 3, time.Second, newMapCache())

	if _, err := client.Call("leagues", nil); err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if _, err := client.Call("leagues", nil); err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if attempts != 1 {
		t.Errorf("server saw %d requests, want 1 (second served from cache)", attempts)
	}

	// NoCache bypasses in both directions.
	if _, err := client.CallNoCache("leagues", nil); err != nil {
		t.Fatalf("no-cache call failed: %v", err)
	}
	if attempts != 2 {
		t.Errorf("server saw %d requests, want 2 after no-cache call", attempts)
	}
}

func TestCallUpdatesRateTracker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "3000")
		w.Header().Set("X-RateLimit-Remaining", "2990")
		fmt.Fprint(w, `{"data": []}`)
	}))
	defer server.Close()

	client, _ := testClient(server, 3, time.Second, nil)
	if _, err := client.Call("leagues", nil); err != nil {
		t.Fatalf("Call failed: %v", err)
	}

	limit, remaining, _ := client.Tracker().Snapshot()
	if limit != 3000 || remaining != 2990 {
		t.Errorf("tracker = %d/%d, want 2990/3000", remaining, limit)
	}
}
