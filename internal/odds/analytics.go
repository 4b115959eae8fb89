package odds

import (
	"math"
	"sort"

	"football-data-collector/internal/markets"
)

// BestQuote is the best available price for one selection and the
// bookmaker that supplied it.
type BestQuote struct {
	Value         float64
	BookmakerID   int
	BookmakerName string
}

// groupKey identifies a (market, selection) group. Unresolved markets
// group by their raw name, which is what Market holds for them.
type groupKey struct {
	market    markets.Market
	selection string
}

// BestOdds groups records by (market, selection) and picks the best
// quote per group. If any preferred bookmaker has a quote, the first
// one in the caller's priority order wins; otherwise the maximum quoted
// value wins, with ties broken by the lowest bookmaker id so the result
// doesn't depend on payload order. A zero-value marketFilter keeps all
// markets.
func BestOdds(records []Record, marketFilter markets.Market, preferred []int) map[markets.Market]map[string]BestQuote {
	groups := make(map[groupKey][]Record)
	for _, r := range records {
		if marketFilter != "" && r.Market != marketFilter {
			continue
		}
		key := groupKey{market: r.Market, selection: r.Selection}
		groups[key] = append(groups[key], r)
	}

	best := make(map[markets.Market]map[string]BestQuote)
	for key, group := range groups {
		quote, ok := pickQuote(group, preferred)
		if !ok {
			continue
		}
		if best[key.market] == nil {
			best[key.market] = make(map[string]BestQuote)
		}
		best[key.market][key.selection] = quote
	}
	return best
}

func pickQuote(group []Record, preferred []int) (BestQuote, bool) {
	for _, bookmakerID := range preferred {
		for _, r := range group {
			if r.BookmakerID == bookmakerID {
				return BestQuote{Value: r.Value, BookmakerID: r.BookmakerID, BookmakerName: r.BookmakerName}, true
			}
		}
	}

	found := false
	var quote BestQuote
	for _, r := range group {
		if !found || r.Value > quote.Value || (r.Value == quote.Value && r.BookmakerID < quote.BookmakerID) {
			quote = BestQuote{Value: r.Value, BookmakerID: r.BookmakerID, BookmakerName: r.BookmakerName}
			found = true
		}
	}
	return quote, found
}

// MarketProbabilities converts each selection's best odds for a market
// into implied probability, expressed as a percentage.
func MarketProbabilities(records []Record, market markets.Market) map[string]float64 {
	best := BestOdds(records, market, nil)
	selections, ok := best[market]
	if !ok {
		return nil
	}

	probabilities := make(map[string]float64, len(selections))
	for selection, quote := range selections {
		if quote.Value > 0 {
			probabilities[selection] = markets.ImpliedProbability(quote.Value) * 100
		}
	}
	return probabilities
}

// BookmakerEfficiency holds one bookmaker's overround and margin for a
// market, both as percentages.
type BookmakerEfficiency struct {
	BookmakerID   int
	BookmakerName string
	Overround     float64
	Margin        float64
	Selections    int
}

// Efficiency summarizes how much margin bookmakers build into a market.
type Efficiency struct {
	Market       markets.Market
	HasData      bool
	Bookmakers   []BookmakerEfficiency
	AvgOverround float64
}

// MarketEfficiency computes per-bookmaker overround and margin for a
// market. Overround above zero is the expected state, not an error.
//
// Margin is computed as overround / totalProbability * 100, matching
// the upstream system this replaces. That differs from the conventional
// bookmaker-margin definition (1 - 1/totalProbability); kept as-is for
// compatibility with historical records.
func MarketEfficiency(records []Record, market markets.Market) Efficiency {
	type bookmakerOdds struct {
		name  string
		total float64
		count int
	}

	byBookmaker := make(map[int]*bookmakerOdds)
	for _, r := range records {
		if r.Market != market {
			continue
		}
		entry, ok := byBookmaker[r.BookmakerID]
		if !ok {
			entry = &bookmakerOdds{name: r.BookmakerName}
			byBookmaker[r.BookmakerID] = entry
		}
		entry.total += r.ImpliedProbability
		entry.count++
	}

	result := Efficiency{Market: market}
	if len(byBookmaker) == 0 {
		return result
	}
	result.HasData = true

	ids := make([]int, 0, len(byBookmaker))
	for id := range byBookmaker {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var overroundSum float64
	for _, id := range ids {
		entry := byBookmaker[id]
		overround := (entry.total - 1) * 100
		margin := 0.0
		if entry.total > 0 {
			margin = overround / entry.total * 100
		}
		overroundSum += overround
		result.Bookmakers = append(result.Bookmakers, BookmakerEfficiency{
			BookmakerID:   id,
			BookmakerName: entry.name,
			Overround:     round2(overround),
			Margin:        round2(margin),
			Selections:    entry.count,
		})
	}
	result.AvgOverround = overroundSum / float64(len(ids))

	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
