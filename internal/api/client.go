// Package api implements the SportMonks v3 football API client: a
// dispatcher with authentication, response caching, rate-limit
// tracking, and retry/backoff, plus pagination and typed endpoint
// methods on top of it.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"football-data-collector/internal/cache"
	"football-data-collector/internal/logging"
)

// Client issues authenticated calls against the provider, consulting
// the response cache and the rate tracker before touching the network.
// One call path is in flight per Client; concurrent ingestion needs one
// Client per worker.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	cache      cache.Cache // nil disables caching
	tracker    *RateTracker
	retryCount int
	retryDelay time.Duration
	log        *logrus.Entry

	sleep func(time.Duration) // test seam
}

// NewClient builds a client. A nil responseCache disables caching
// entirely; live endpoints bypass it regardless.
func NewClient(baseURL, token string, timeout time.Duration, retryCount int, retryDelay time.Duration, responseCache cache.Cache) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		cache:      responseCache,
		tracker:    NewRateTracker(),
		retryCount: retryCount,
		retryDelay: retryDelay,
		log:        logging.WithComponent("api"),
		sleep:      time.Sleep,
	}
}

// Tracker exposes the rate tracker for status reporting.
func (c *Client) Tracker() *RateTracker {
	return c.tracker
}

// Call issues one logical API call and returns the raw response
// payload. Expected failure modes come back as a typed *Error.
func (c *Client) Call(endpoint string, params map[string]string) ([]byte, error) {
	return c.call(endpoint, params, false)
}

// CallNoCache is Call with the response cache bypassed in both
// directions, for live data that must never be stale.
func (c *Client) CallNoCache(endpoint string, params map[string]string) ([]byte, error) {
	return c.call(endpoint, params, true)
}

func (c *Client) call(endpoint string, params map[string]string, noCache bool) ([]byte, error) {
	useCache := c.cache != nil && !noCache

	var key string
	if useCache {
		key = cacheKey(endpoint, params)
		if payload, ok := c.cache.Get(key); ok {
			c.log.WithField("endpoint", endpoint).Debug("cache hit")
			return payload, nil
		}
	}

	if wait, d := c.tracker.ShouldWait(defaultRateBuffer); wait {
		limit, remaining, _ := c.tracker.Snapshot()
		c.log.WithFields(logging.Fields{
			"remaining": remaining,
			"limit":     limit,
			"wait":      d.String(),
		}).Warn("rate limit approaching, waiting")
		c.sleep(d)
	}

	var lastErr *Error
	for attempt := 0; attempt < c.retryCount; attempt++ {
		payload, apiErr := c.doOnce(endpoint, params)
		if apiErr == nil {
			if useCache {
				c.cache.Set(key, payload)
			}
			return payload, nil
		}
		if apiErr.Terminal() {
			return nil, apiErr
		}
		lastErr = apiErr

		if attempt == c.retryCount-1 {
			break
		}

		var backoff time.Duration
		if apiErr.Kind == KindRateLimited {
			backoff = apiErr.RetryAfter
			if backoff <= 0 {
				backoff = c.retryDelay
			}
		} else {
			backoff = c.retryDelay * (1 << attempt)
		}
		c.log.WithFields(logging.Fields{
			"endpoint": endpoint,
			"attempt":  attempt + 1,
			"retries":  c.retryCount,
			"backoff":  backoff.String(),
		}).WithError(apiErr).Warn("request failed, retrying")
		c.sleep(backoff)
	}

	return nil, lastErr
}

// doOnce performs a single HTTP round trip and classifies the outcome.
func (c *Client) doOnce(endpoint string, params map[string]string) ([]byte, *Error) {
	req, err := http.NewRequest(http.MethodGet, c.buildURL(endpoint, params), nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "creating request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	// Quota headers arrive on every response, success or not.
	c.tracker.UpdateFromHeaders(resp.Header)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, &Error{Kind: KindAuthentication, Code: resp.StatusCode, Message: "invalid API token"}
	case resp.StatusCode == http.StatusForbidden:
		return nil, &Error{Kind: KindAuthorization, Code: resp.StatusCode, Message: "insufficient permissions for this endpoint"}
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := c.retryDelay
		if v := resp.Header.Get("Retry-After"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				retryAfter = time.Duration(n) * time.Second
			}
		}
		return nil, &Error{Kind: KindRateLimited, Code: resp.StatusCode, Message: "rate limit exceeded", RetryAfter: retryAfter}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &Error{Kind: KindTransport, Code: resp.StatusCode, Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "reading response", Err: err}
	}

	// A 2xx payload can still carry an application-level error object.
	var envelope struct {
		Error *struct {
			Message string `json:"message"`
			Code    int    `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		return nil, classifyAppError(envelope.Error.Code, envelope.Error.Message)
	}

	return body, nil
}

func (c *Client) buildURL(endpoint string, params map[string]string) string {
	u := c.baseURL + "/" + endpoint
	if len(params) == 0 {
		return u
	}
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	return u + "?" + q.Encode()
}
