// Package markets defines the internal vocabulary for betting markets
// and selections, and the rules that map provider-specific names onto it.
package markets

import (
	"fmt"
	"strings"
)

// Market is a canonical market code.
type Market string

// Canonical market codes.
const (
	Market1X2          Market = "1X2"          // Home (1), Draw (X), Away (2)
	MarketBTTS         Market = "btts"         // Both Teams To Score - Yes/No
	MarketOverUnder    Market = "over_under"   // Over/Under Total Goals
	MarketDNB          Market = "dnb"          // Draw No Bet - Home/Away
	MarketDoubleChance Market = "double_chance"
	MarketHandicap     Market = "handicap"
	MarketExactScore   Market = "exact_score"
	MarketHTFT         Market = "ht_ft" // Halftime/Fulltime
	MarketFirstScorer  Market = "first_scorer"
	MarketTeamGoals    Market = "team_goals"
	MarketCleanSheet   Market = "clean_sheet"
	MarketCorners      Market = "corners"
	MarketCards        Market = "cards"
	MarketWinner       Market = "winner" // tournament winner
	MarketToQualify    Market = "to_qualify"
)

// marketIDs maps provider market ids to canonical markets.
var marketIDs = map[int]Market{
	1:  Market1X2,
	2:  MarketOverUnder,
	3:  MarketBTTS,
	5:  MarketExactScore,
	6:  MarketHandicap,
	8:  MarketDNB,
	10: MarketDoubleChance,
	15: MarketCleanSheet,
	21: MarketToQualify,
}

// selections maps canonical markets to provider selection codes and
// their display names. Markets with dynamic codes (over/under lines,
// handicaps, exact scores) are handled by pattern rules in
// SelectionDisplayName instead.
var selections = map[Market]map[string]string{
	Market1X2: {
		"1": "Home",
		"X": "Draw",
		"2": "Away",
	},
	MarketBTTS: {
		"yes": "Yes",
		"no":  "No",
	},
	MarketDNB: {
		"1": "Home",
		"2": "Away",
	},
	MarketDoubleChance: {
		"1X": "Home/Draw",
		"12": "Home/Away",
		"X2": "Draw/Away",
	},
	MarketCleanSheet: {
		"home": "Home Team",
		"away": "Away Team",
		"yes":  "Yes",
		"no":   "No",
	},
	MarketToQualify: {
		"1": "Home Team",
		"2": "Away Team",
	},
}

var displayNames = map[Market]string{
	Market1X2:          "1X2 (Match Result)",
	MarketBTTS:         "Both Teams To Score",
	MarketOverUnder:    "Over/Under Goals",
	MarketDNB:          "Draw No Bet",
	MarketDoubleChance: "Double Chance",
	MarketHandicap:     "Handicap",
	MarketExactScore:   "Exact Score",
	MarketHTFT:         "Halftime/Fulltime",
	MarketFirstScorer:  "First Goalscorer",
	MarketTeamGoals:    "Team Goals",
	MarketCleanSheet:   "Clean Sheet",
	MarketCorners:      "Total Corners",
	MarketCards:        "Total Cards",
	MarketWinner:       "Tournament Winner",
	MarketToQualify:    "To Qualify",
}

// Tracked is the set of markets the collector records for pre-match
// odds. Live mode ignores this filter.
var Tracked = map[Market]bool{
	Market1X2:          true,
	MarketBTTS:         true,
	MarketOverUnder:    true,
	MarketDNB:          true,
	MarketDoubleChance: true,
	MarketHandicap:     true,
	MarketExactScore:   true,
	MarketCleanSheet:   true,
}

// nameRule matches a raw market name by substring. Rules are checked in
// order, so more specific terms must come before generic ones ("both
// teams to score" before "score").
type nameRule struct {
	substr string
	market Market
}

var nameRules = []nameRule{
	{"1x2", Market1X2},
	{"match winner", Market1X2},
	{"fulltime result", Market1X2},
	{"both teams to score", MarketBTTS},
	{"both teams score", MarketBTTS},
	{"btts", MarketBTTS},
	{"over/under", MarketOverUnder},
	{"over under", MarketOverUnder},
	{"total goals", MarketOverUnder},
	{"draw no bet", MarketDNB},
	{"double chance", MarketDoubleChance},
	{"asian handicap", MarketHandicap},
	{"handicap", MarketHandicap},
	{"exact score", MarketExactScore},
	{"correct score", MarketExactScore},
	{"halftime/fulltime", MarketHTFT},
	{"ht/ft", MarketHTFT},
	{"first goalscorer", MarketFirstScorer},
	{"first scorer", MarketFirstScorer},
	{"clean sheet", MarketCleanSheet},
	{"corner", MarketCorners},
	{"card", MarketCards},
	{"to qualify", MarketToQualify},
}

// Normalize maps a raw provider market name onto a canonical market
// code. Unresolved names pass through unchanged (never empty) so
// downstream consumers can still group by them.
func Normalize(raw string) Market {
	if raw == "" {
		return ""
	}

	lower := strings.ToLower(raw)
	for _, rule := range nameRules {
		if strings.Contains(lower, rule.substr) {
			return rule.market
		}
	}

	// Some payloads tag markets as "id:<n>" instead of naming them.
	for id, market := range marketIDs {
		if strings.Contains(lower, fmt.Sprintf("id:%d", id)) {
			return market
		}
	}

	return Market(raw)
}

// IsCanonical reports whether m is one of the canonical codes, as
// opposed to a raw name that passed through Normalize unresolved.
func IsCanonical(m Market) bool {
	_, ok := displayNames[m]
	return ok
}

// ByID returns the canonical market for a provider market id, or "" if
// the id is unknown.
func ByID(id int) Market {
	return marketIDs[id]
}

// DisplayName returns a human-readable name for a market. Unresolved
// markets display as their raw name.
func DisplayName(m Market) string {
	if name, ok := displayNames[m]; ok {
		return name
	}
	return string(m)
}

// SelectionDisplayName returns the display name for a selection code
// within a market: exact table lookup first, then market-specific
// pattern rules, else the code unchanged.
func SelectionDisplayName(market Market, code string) string {
	if table, ok := selections[market]; ok {
		if name, ok := table[code]; ok {
			return name
		}
	}

	switch market {
	case MarketOverUnder:
		if v, ok := strings.CutPrefix(code, "over_"); ok {
			return "Over " + v
		}
		if v, ok := strings.CutPrefix(code, "under_"); ok {
			return "Under " + v
		}
	case MarketHandicap:
		// Asian handicap codes look like "home_-1.5".
		if v, ok := strings.CutPrefix(code, "home_"); ok {
			return "Home " + v
		}
		if v, ok := strings.CutPrefix(code, "away_"); ok {
			return "Away " + v
		}
	case MarketExactScore:
		// Score strings like "2-1" are already readable.
		return code
	}

	return code
}

// ImpliedProbability converts decimal odds to the probability the price
// implies absent margin. Non-positive odds yield 0.
func ImpliedProbability(odds float64) float64 {
	if odds <= 0 {
		return 0
	}
	return 1.0 / odds
}
