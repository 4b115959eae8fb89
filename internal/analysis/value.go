// Package analysis derives value-bet signals by comparing predicted
// probabilities against the implied probability of the best market
// price.
package analysis

import (
	"sort"

	"football-data-collector/internal/markets"
	"football-data-collector/internal/odds"
	"football-data-collector/internal/predictions"
)

// Edge is the predicted probability minus the probability implied by
// the odds. predictedPct is a percentage.
func Edge(predictedPct, oddsValue float64) float64 {
	if oddsValue <= 0 {
		return 0
	}
	return predictedPct/100 - 1/oddsValue
}

// ExpectedValue is the expected profit per unit staked at the given
// price under the predicted probability.
func ExpectedValue(predictedPct, oddsValue float64) float64 {
	return oddsValue*(predictedPct/100) - 1
}

// KellyFraction is the Kelly-criterion stake for the given price and
// predicted probability. Zero whenever there is no positive edge.
func KellyFraction(predictedPct, oddsValue float64) float64 {
	if oddsValue <= 1 {
		return 0
	}
	p := predictedPct / 100
	if p <= 1/oddsValue {
		return 0
	}
	fraction := (p*oddsValue - 1) / (oddsValue - 1)
	if fraction < 0 {
		return 0
	}
	return fraction
}

// ValueEdge is one prediction whose probability beats the market's best
// price by more than the caller's threshold.
type ValueEdge struct {
	FixtureID     int
	Market        markets.Market
	Selection     string
	BookmakerID   int
	BookmakerName string
	Odds          float64
	ImpliedPct    float64
	PredictedPct  float64
	Edge          float64
	ExpectedValue float64
	Kelly         float64
}

// predictionMarkets maps the prediction types that have a direct odds
// counterpart onto the canonical market and the translation from
// prediction keys to normalized odds selection names.
var predictionMarkets = map[string]struct {
	market     markets.Market
	selections map[string]string
}{
	predictions.TypeMatchWinner: {
		market:     markets.Market1X2,
		selections: map[string]string{"home": "Home", "draw": "Draw", "away": "Away"},
	},
	predictions.TypeBTTS: {
		market:     markets.MarketBTTS,
		selections: map[string]string{"yes": "Yes", "no": "No"},
	},
	predictions.TypeOverUnder25: {
		market:     markets.MarketOverUnder,
		selections: map[string]string{"yes": "Over 2.5", "no": "Under 2.5"},
	},
	predictions.TypeDoubleChance: {
		market: markets.MarketDoubleChance,
		selections: map[string]string{
			"draw_home": "Home/Draw",
			"draw_away": "Draw/Away",
			"home_away": "Home/Away",
		},
	},
}

// FindValueEdges joins predictions for one fixture against its best
// odds and returns every selection whose edge exceeds threshold,
// strongest edge first. Predictions without an odds counterpart are
// ignored.
func FindValueEdges(preds []predictions.Record, oddsRecords []odds.Record, threshold float64) []ValueEdge {
	best := odds.BestOdds(oddsRecords, "", nil)

	var edges []ValueEdge
	for _, pred := range preds {
		mapping, ok := predictionMarkets[pred.DeveloperName]
		if !ok {
			continue
		}
		selection, ok := mapping.selections[pred.Selection]
		if !ok {
			continue
		}
		quote, ok := best[mapping.market][selection]
		if !ok || quote.Value <= 0 {
			continue
		}

		edge := Edge(pred.Probability, quote.Value)
		if edge <= threshold {
			continue
		}
		edges = append(edges, ValueEdge{
			FixtureID:     pred.FixtureID,
			Market:        mapping.market,
			Selection:     selection,
			BookmakerID:   quote.BookmakerID,
			BookmakerName: quote.BookmakerName,
			Odds:          quote.Value,
			ImpliedPct:    markets.ImpliedProbability(quote.Value) * 100,
			PredictedPct:  pred.Probability,
			Edge:          edge,
			ExpectedValue: ExpectedValue(pred.Probability, quote.Value),
			Kelly:         KellyFraction(pred.Probability, quote.Value),
		})
	}

	sort.Slice(edges, func(i, j int) bool { return edges[i].Edge > edges[j].Edge })
	return edges
}
