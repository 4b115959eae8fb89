package api

import (
	"encoding/json"
	"fmt"
	"time"
)

// Fixture is the slice of a fixture payload the collector needs to
// scope further requests.
type Fixture struct {
	ID         int    `json:"id"`
	LeagueID   int    `json:"league_id"`
	SeasonID   int    `json:"season_id"`
	Name       string `json:"name"`
	StartingAt string `json:"starting_at"`
}

// FixtureOptions selects optional includes and filters for fixture fetches.
type FixtureOptions struct {
	IncludePredictions bool
	IncludeOdds        bool
	LeagueIDs          []int
}

func fixtureIncludes(opts FixtureOptions) []string {
	var includes []string
	if opts.IncludePredictions {
		includes = append(includes, "predictions")
	}
	if opts.IncludeOdds {
		includes = append(includes, "odds", "odds.bookmaker")
	}
	return append(includes, "participants", "league")
}

func decodeFixtures(raw []json.RawMessage) []Fixture {
	fixtures := make([]Fixture, 0, len(raw))
	for _, item := range raw {
		var f Fixture
		if err := json.Unmarshal(item, &f); err != nil || f.ID == 0 {
			continue
		}
		fixtures = append(fixtures, f)
	}
	return fixtures
}

// FixturesBetweenDates fetches fixtures in [start, end] (YYYY-MM-DD),
// scoped to the given leagues.
func (c *Client) FixturesBetweenDates(start, end string, opts FixtureOptions) ([]Fixture, error) {
	var filters filterSet
	filters.add("fixtures.from", start)
	filters.add("fixtures.to", end)
	filters.addInts("leagues", opts.LeagueIDs)

	params := map[string]string{
		"include": joinIncludes(fixtureIncludes(opts)),
	}
	filters.apply(params)

	raw, err := c.FetchAll("fixtures", params)
	if err != nil {
		return nil, fmt.Errorf("fetching fixtures: %w", err)
	}
	return decodeFixtures(raw), nil
}

// FixtureByID fetches a single fixture payload.
func (c *Client) FixtureByID(fixtureID int, opts FixtureOptions) (json.RawMessage, error) {
	params := map[string]string{
		"include": joinIncludes(fixtureIncludes(opts)),
	}

	body, err := c.Call(fmt.Sprintf("fixtures/%d", fixtureID), params)
	if err != nil {
		return nil, fmt.Errorf("fetching fixture %d: %w", fixtureID, err)
	}
	return unwrapData(body), nil
}

// FixturesWithOdds fetches fixtures that have odds available.
func (c *Client) FixturesWithOdds(start, end string, leagueIDs, bookmakerIDs, marketIDs []int) ([]Fixture, error) {
	var filters filterSet
	filters.add("fixtures.from", start)
	filters.add("fixtures.to", end)
	filters.addInts("leagues", leagueIDs)
	filters.addInts("bookmakers", bookmakerIDs)
	filters.addInts("markets", marketIDs)

	params := map[string]string{
		"include": joinIncludes([]string{"participants", "league"}),
	}
	filters.apply(params)

	raw, err := c.FetchAll("fixtures/hasodds", params)
	if err != nil {
		return nil, fmt.Errorf("fetching fixtures with odds: %w", err)
	}
	return decodeFixtures(raw), nil
}

// Livescores fetches current live fixtures. The response cache is
// bypassed: live data must never be stale.
func (c *Client) Livescores(opts FixtureOptions) ([]Fixture, error) {
	var filters filterSet
	filters.addInts("leagues", opts.LeagueIDs)

	params := map[string]string{
		"include": joinIncludes(fixtureIncludes(opts)),
	}
	filters.apply(params)

	raw, err := c.FetchAllNoCache("livescores", params)
	if err != nil {
		return nil, fmt.Errorf("fetching livescores: %w", err)
	}
	return decodeFixtures(raw), nil
}

// leaguesCacheTTL is used for the leagues endpoint; leagues rarely change.
const leaguesCacheTTL = 24 * time.Hour

// Leagues fetches all leagues available to the subscription, with a
// longer cache window when the cache backend supports swapping TTLs.
func (c *Client) Leagues() ([]json.RawMessage, error) {
	type ttlCache interface {
		TTL() time.Duration
		SetTTL(time.Duration)
	}
	if tc, ok := c.cache.(ttlCache); ok {
		previous := tc.TTL()
		tc.SetTTL(leaguesCacheTTL)
		defer tc.SetTTL(previous)
	}

	raw, err := c.FetchAll("leagues", map[string]string{"per_page": "100"})
	if err != nil {
		return nil, fmt.Errorf("fetching leagues: %w", err)
	}
	return raw, nil
}

// OddsFilter scopes an odds fetch.
type OddsFilter struct {
	FixtureIDs   []int
	BookmakerIDs []int
	MarketIDs    []int
}

func (f OddsFilter) params() map[string]string {
	var filters filterSet
	filters.addInts("fixtures", f.FixtureIDs)
	filters.addInts("bookmakers", f.BookmakerIDs)
	filters.addInts("markets", f.MarketIDs)

	params := map[string]string{}
	filters.apply(params)
	return params
}

// PreMatchOdds fetches pre-match odds records matching the filter.
func (c *Client) PreMatchOdds(filter OddsFilter) ([]json.RawMessage, error) {
	raw, err := c.FetchAll("odds/pre-match", filter.params())
	if err != nil {
		return nil, fmt.Errorf("fetching pre-match odds: %w", err)
	}
	return raw, nil
}

// PreMatchOddsByFixture fetches pre-match odds for one fixture.
func (c *Client) PreMatchOddsByFixture(fixtureID int) ([]json.RawMessage, error) {
	return c.PreMatchOdds(OddsFilter{FixtureIDs: []int{fixtureID}})
}

// OddsByFixtureAndMarket fetches one fixture's odds for one market.
func (c *Client) OddsByFixtureAndMarket(fixtureID, marketID int) ([]json.RawMessage, error) {
	return c.PreMatchOdds(OddsFilter{FixtureIDs: []int{fixtureID}, MarketIDs: []int{marketID}})
}

// InplayOdds fetches live in-play odds matching the filter, bypassing
// the cache. Live responses use a smaller page size for faster turnaround.
func (c *Client) InplayOdds(filter OddsFilter) ([]json.RawMessage, error) {
	params := filter.params()
	params["per_page"] = "30"

	raw, err := c.FetchAllNoCache("odds/inplay", params)
	if err != nil {
		return nil, fmt.Errorf("fetching in-play odds: %w", err)
	}
	return raw, nil
}

// InplayOddsByFixture fetches live odds for one fixture.
func (c *Client) InplayOddsByFixture(fixtureID int) ([]json.RawMessage, error) {
	return c.InplayOdds(OddsFilter{FixtureIDs: []int{fixtureID}})
}

// PredictionProbabilities fetches prediction probability blocks,
// optionally scoped to fixtures.
func (c *Client) PredictionProbabilities(fixtureIDs []int) ([]json.RawMessage, error) {
	var filters filterSet
	filters.addInts("fixtures", fixtureIDs)

	params := map[string]string{}
	filters.apply(params)

	raw, err := c.FetchAll("predictions/probabilities", params)
	if err != nil {
		return nil, fmt.Errorf("fetching prediction probabilities: %w", err)
	}
	return raw, nil
}

// PredictionProbabilitiesByFixture fetches prediction probability
// blocks for one fixture. A fixture with no predictions yields nil.
func (c *Client) PredictionProbabilitiesByFixture(fixtureID int) (json.RawMessage, error) {
	raw, err := c.PredictionProbabilities([]int{fixtureID})
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return raw[0], nil
}

// PredictionPerformances fetches prediction model performance for all leagues.
func (c *Client) PredictionPerformances() ([]json.RawMessage, error) {
	raw, err := c.FetchAll("predictions/performances", nil)
	if err != nil {
		return nil, fmt.Errorf("fetching prediction performances: %w", err)
	}
	return raw, nil
}

// PredictionPerformanceByLeague fetches prediction model performance
// for one league.
func (c *Client) PredictionPerformanceByLeague(leagueID int) (json.RawMessage, error) {
	body, err := c.Call(fmt.Sprintf("predictions/performances/leagues/%d", leagueID), nil)
	if err != nil {
		return nil, fmt.Errorf("fetching prediction performance for league %d: %w", leagueID, err)
	}
	return unwrapData(body), nil
}

// ValueBetFilter scopes a value-bet fetch. MinProbability and MinOdds
// are applied client-side after the fetch.
type ValueBetFilter struct {
	LeagueIDs      []int
	FixtureIDs     []int
	MarketID       int
	MinProbability float64
	MinOdds        float64
}

// ValueBets fetches the provider's value-bet recommendations.
func (c *Client) ValueBets(filter ValueBetFilter) ([]json.RawMessage, error) {
	var filters filterSet
	filters.addInts("leagues", filter.LeagueIDs)
	filters.addInts("fixtures", filter.FixtureIDs)
	if filter.MarketID > 0 {
		filters.addInts("markets", []int{filter.MarketID})
	}

	params := map[string]string{
		"include": joinIncludes([]string{"fixture", "fixture.league", "fixture.participants"}),
	}
	filters.apply(params)

	raw, err := c.FetchAll("predictions/valuebet", params)
	if err != nil {
		return nil, fmt.Errorf("fetching value bets: %w", err)
	}

	if filter.MinProbability <= 0 && filter.MinOdds <= 0 {
		return raw, nil
	}

	filtered := raw[:0]
	for _, item := range raw {
		var bet struct {
			Probability float64 `json:"probability"`
			Odds        float64 `json:"odds"`
		}
		if err := json.Unmarshal(item, &bet); err != nil {
			continue
		}
		if filter.MinProbability > 0 && bet.Probability < filter.MinProbability {
			continue
		}
		if filter.MinOdds > 0 && bet.Odds < filter.MinOdds {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered, nil
}

// TestConnection makes a minimal request to verify connectivity and
// authentication, returning a human-readable summary.
func (c *Client) TestConnection() (string, error) {
	body, err := c.Call("leagues", map[string]string{"per_page": "1"})
	if err != nil {
		return "", fmt.Errorf("API request failed, check your token and connection: %w", err)
	}

	var envelope struct {
		Data []struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", fmt.Errorf("unexpected API response format: %w", err)
	}
	if len(envelope.Data) == 0 {
		return "API connection successful, but no leagues were returned", nil
	}
	return fmt.Sprintf("API connection successful, sample league: %s", envelope.Data[0].Name), nil
}

// VerifyEndpointAccess checks whether the subscription can reach an
// endpoint.
func (c *Client) VerifyEndpointAccess(endpoint string) error {
	if _, err := c.Call(endpoint, map[string]string{"per_page": "1"}); err != nil {
		return fmt.Errorf("cannot access endpoint %q: %w", endpoint, err)
	}
	return nil
}

// unwrapData returns the "data" field of a single-object envelope, or
// the body unchanged when there is no envelope.
func unwrapData(body []byte) json.RawMessage {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
		return envelope.Data
	}
	return body
}
