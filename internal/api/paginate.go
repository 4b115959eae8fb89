package api

import (
	"context"
	"encoding/json"
	"strconv"

	"golang.org/x/time/rate"

	"football-data-collector/internal/logging"
)

const (
	// defaultPerPage is applied when the caller doesn't set one.
	defaultPerPage = 50
	// pagesPerSecond bounds the request rate between pages even when
	// the quota looks healthy.
	pagesPerSecond = 2
)

// pagination is the page metadata the provider attaches to list
// responses. Absent metadata means a single page.
type pagination struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

type listEnvelope struct {
	Data       []json.RawMessage `json:"data"`
	Pagination *pagination       `json:"pagination"`
}

// FetchAll drives Call across pages until the provider reports no
// further pages, and returns the combined records. Any page failure
// aborts the whole operation with no partial results.
func (c *Client) FetchAll(endpoint string, params map[string]string) ([]json.RawMessage, error) {
	return c.fetchAll(endpoint, params, false)
}

// FetchAllNoCache is FetchAll with the response cache bypassed, for
// live endpoints.
func (c *Client) FetchAllNoCache(endpoint string, params map[string]string) ([]json.RawMessage, error) {
	return c.fetchAll(endpoint, params, true)
}

func (c *Client) fetchAll(endpoint string, params map[string]string, noCache bool) ([]json.RawMessage, error) {
	// Copy so the caller's map is never mutated by paging.
	pageParams := make(map[string]string, len(params)+2)
	for k, v := range params {
		pageParams[k] = v
	}
	if _, ok := pageParams["per_page"]; !ok {
		pageParams["per_page"] = strconv.Itoa(defaultPerPage)
	}

	pacer := rate.NewLimiter(rate.Limit(pagesPerSecond), 1)

	var results []json.RawMessage
	page := 1
	for {
		// Paces every request after the first; the initial token is
		// free so single-page fetches never wait here.
		_ = pacer.Wait(context.Background())

		pageParams["page"] = strconv.Itoa(page)

		// Long scans keep a bigger quota buffer than single calls.
		if wait, d := c.tracker.ShouldWait(paginationRateBuffer); wait {
			c.log.WithField("wait", d.String()).Info("pausing pagination to avoid rate limit")
			c.sleep(d)
		}

		body, err := c.call(endpoint, pageParams, noCache)
		if err != nil {
			return nil, err
		}

		var envelope listEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, &Error{Kind: KindTransport, Message: "parsing list response", Err: err}
		}
		results = append(results, envelope.Data...)

		if envelope.Pagination == nil || envelope.Pagination.CurrentPage >= envelope.Pagination.TotalPages {
			return results, nil
		}

		c.log.WithFields(logging.Fields{
			"endpoint": endpoint,
			"page":     envelope.Pagination.CurrentPage,
			"pages":    envelope.Pagination.TotalPages,
		}).Debug("fetching next page")
		page++
	}
}
