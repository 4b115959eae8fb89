package api

import (
	"encoding/json"
	"fmt"
)

// Resource describes an endpoint group available to the subscription.
type Resource struct {
	Name string `json:"name"`
}

// Enrichment describes an include available to the subscription.
type Enrichment struct {
	Name string `json:"name"`
}

// MyResources fetches the endpoints the current subscription covers.
func (c *Client) MyResources() ([]Resource, error) {
	var resources []Resource
	if err := c.callDecodeList("my/resources", &resources); err != nil {
		return nil, err
	}
	return resources, nil
}

// MyEnrichments fetches the includes the current subscription covers.
func (c *Client) MyEnrichments() ([]Enrichment, error) {
	var enrichments []Enrichment
	if err := c.callDecodeList("my/enrichments", &enrichments); err != nil {
		return nil, err
	}
	return enrichments, nil
}

// MyLeagues fetches the leagues the current subscription covers.
func (c *Client) MyLeagues() ([]json.RawMessage, error) {
	var leagues []json.RawMessage
	if err := c.callDecodeList("my/leagues", &leagues); err != nil {
		return nil, err
	}
	return leagues, nil
}

// MyUsage fetches the subscription's request usage counters.
func (c *Client) MyUsage() (json.RawMessage, error) {
	body, err := c.Call("my/usage", nil)
	if err != nil {
		return nil, fmt.Errorf("fetching usage: %w", err)
	}
	return unwrapData(body), nil
}

// Filters fetches the filter vocabulary the provider accepts.
func (c *Client) Filters() (json.RawMessage, error) {
	body, err := c.Call("filters", nil)
	if err != nil {
		return nil, fmt.Errorf("fetching filters: %w", err)
	}
	return unwrapData(body), nil
}

// HasResource reports whether the subscription covers a named resource.
func (c *Client) HasResource(name string) (bool, error) {
	resources, err := c.MyResources()
	if err != nil {
		return false, err
	}
	for _, r := range resources {
		if r.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// HasEnrichment reports whether the subscription covers a named include.
func (c *Client) HasEnrichment(name string) (bool, error) {
	enrichments, err := c.MyEnrichments()
	if err != nil {
		return false, err
	}
	for _, e := range enrichments {
		if e.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (c *Client) callDecodeList(endpoint string, out interface{}) error {
	body, err := c.Call(endpoint, nil)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", endpoint, err)
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("parsing %s response: %w", endpoint, err)
	}
	if len(envelope.Data) == 0 {
		return nil // empty subscription data is a valid result
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("parsing %s data: %w", endpoint, err)
	}
	return nil
}
