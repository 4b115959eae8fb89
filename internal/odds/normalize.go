// Package odds flattens the provider's nested bookmaker → market →
// selection odds payloads into query-able records and provides market
// analytics over them.
package odds

import (
	"encoding/json"
	"time"

	"football-data-collector/internal/logging"
	"football-data-collector/internal/markets"
)

// Record is one bookmaker/market/selection price. Market and Selection
// hold the taxonomy's best effort: unresolved names pass through as the
// raw string rather than failing the record.
type Record struct {
	FixtureID          int
	BookmakerID        int
	BookmakerName      string
	MarketID           int
	MarketName         string
	Market             markets.Market
	SelectionID        int
	SelectionName      string
	Selection          string
	Value              float64
	ImpliedProbability float64
	Live               bool
	CapturedAt         time.Time
}

// Normalize walks an odds payload and emits one record per usable
// selection. Malformed bookmakers, markets, and selections are skipped
// with a warning; they never fail the batch. In pre-match mode, markets
// that resolve to a canonical code outside the tracked set are dropped;
// live mode processes everything and tags every record live.
func Normalize(payload []byte, live bool) []Record {
	log := logging.WithComponent("odds")
	capturedAt := time.Now().UTC()

	var records []Record
	for _, rawObject := range splitOddsObjects(payload) {
		var object oddsObject
		if err := json.Unmarshal(rawObject, &object); err != nil {
			log.WithError(err).Warn("skipping unparseable odds object")
			continue
		}
		if object.FixtureID == 0 {
			log.Warn("skipping odds object with no fixture id")
			continue
		}

		isLive := live || object.IsLive
		for _, rawBookmaker := range object.Bookmakers {
			records = append(records, normalizeBookmaker(rawBookmaker, object.FixtureID, isLive, capturedAt)...)
		}
	}
	return records
}

func normalizeBookmaker(raw json.RawMessage, fixtureID int, live bool, capturedAt time.Time) []Record {
	log := logging.WithComponent("odds")

	var bookmaker bookmakerBlock
	if err := json.Unmarshal(raw, &bookmaker); err != nil {
		log.WithError(err).Warn("skipping unparseable bookmaker block")
		return nil
	}
	if bookmaker.ID == 0 || bookmaker.Name == "" {
		log.WithField("fixture_id", fixtureID).Warn("skipping bookmaker with missing id or name")
		return nil
	}

	var records []Record
	for _, rawMarket := range bookmaker.Markets {
		var market marketBlock
		if err := json.Unmarshal(rawMarket, &market); err != nil {
			log.WithError(err).Warn("skipping unparseable market block")
			continue
		}

		marketName := market.Name
		if marketName == "" {
			// Some payloads carry only the market id.
			if canonical := markets.ByID(market.ID); canonical != "" {
				marketName = markets.DisplayName(canonical)
			}
		}
		if marketName == "" {
			log.WithFields(logging.Fields{
				"fixture_id":   fixtureID,
				"bookmaker_id": bookmaker.ID,
			}).Warn("skipping market with no resolvable name")
			continue
		}

		canonical := markets.Normalize(marketName)
		if !live && markets.IsCanonical(canonical) && !markets.Tracked[canonical] {
			continue
		}

		for _, rawSelection := range market.Odds {
			var selection selectionBlock
			if err := json.Unmarshal(rawSelection, &selection); err != nil {
				log.WithError(err).Warn("skipping unparseable selection block")
				continue
			}
			if selection.Name == "" || selection.Value == nil {
				continue
			}
			value := float64(*selection.Value)

			records = append(records, Record{
				FixtureID:          fixtureID,
				BookmakerID:        bookmaker.ID,
				BookmakerName:      bookmaker.Name,
				MarketID:           market.ID,
				MarketName:         marketName,
				Market:             canonical,
				SelectionID:        selection.ID,
				SelectionName:      selection.Name,
				Selection:          markets.SelectionDisplayName(canonical, selection.Name),
				Value:              value,
				ImpliedProbability: markets.ImpliedProbability(value),
				Live:               live,
				CapturedAt:         capturedAt,
			})
		}
	}
	return records
}
