package predictions

import (
	"math"
	"testing"
)

func TestNormalizeCorrectScore(t *testing.T) {
	payload := `[{
		"id": 9001,
		"fixture_id": 101,
		"type": {"id": 240, "name": "Correct Score Probability", "developer_name": "CORRECT_SCORE_PROBABILITY"},
		"predictions": {"scores": {"2-1": 14.3, "0-0": 9.8}}
	}]`

	records := Normalize([]byte(payload))
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	byScore := map[string]float64{}
	for _, r := range records {
		if r.FixtureID != 101 || r.PredictionID != 9001 {
			t.Errorf("wrong identity fields: %+v", r)
		}
		byScore[r.Selection] = r.Probability
	}
	if math.Abs(byScore["2-1"]-14.3) > 0.001 {
		t.Errorf("2-1 probability = %v, want 14.3", byScore["2-1"])
	}
	if math.Abs(byScore["0-0"]-9.8) > 0.001 {
		t.Errorf("0-0 probability = %v, want 9.8", byScore["0-0"])
	}
}

func TestNormalizeThreeWay(t *testing.T) {
	payload := `{"data": [{
		"id": 9002,
		"fixture_id": 101,
		"type": {"id": 237, "name": "Match Result", "developer_name": "FULLTIME_RESULT_PROBABILITY"},
		"predictions": {"home": 45.12, "draw": 27.4, "away": 27.48}
	}]}`

	records := Normalize([]byte(payload))
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	// Fixed outcome order, not map order.
	wantOrder := []string{"home", "away", "draw"}
	for i, want := range wantOrder {
		if records[i].Selection != want {
			t.Errorf("record %d selection = %q, want %q", i, records[i].Selection, want)
		}
	}
}

func TestNormalizeHTFT(t *testing.T) {
	payload := `[{
		"id": 9003,
		"fixture_id": 101,
		"type": {"id": 235, "developer_name": "HTFT_PROBABILITY"},
		"predictions": {
			"home_home": 30.1, "home_draw": 5.2, "home_away": 1.1,
			"draw_home": 12.0, "draw_draw": 14.5, "draw_away": 7.3,
			"away_home": 2.2, "away_draw": 6.6, "away_away": 21.0
		}
	}]`

	records := Normalize([]byte(payload))
	if len(records) != 9 {
		t.Fatalf("got %d records, want 9", len(records))
	}
	for _, r := range records {
		if r.TypeName != "Half-Time/Full-Time" {
			t.Errorf("type name fallback = %q", r.TypeName)
		}
	}
}

func TestNormalizeDoubleChance(t *testing.T) {
	payload := `[{
		"id": 9004,
		"fixture_id": 101,
		"type": {"id": 238, "developer_name": "DOUBLE_CHANCE_PROBABILITY"},
		"predictions": {"draw_home": 72.5, "draw_away": 54.9, "home_away": 72.6}
	}]`

	records := Normalize([]byte(payload))
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
}

func TestNormalizeValueBet(t *testing.T) {
	payload := `[{
		"id": 9005,
		"fixture_id": 101,
		"type": {"id": 1686, "name": "Value Bet", "developer_name": "VALUEBET"},
		"predictions": {"bet": "home", "bookmaker": 2, "fair_odd": "1.85", "odd": 2.05, "stake": 3, "is_value": true}
	}]`

	records := Normalize([]byte(payload))
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	r := records[0]
	if r.Selection != "home" || r.Bookmaker != 2 || !r.IsValue {
		t.Errorf("value bet fields wrong: %+v", r)
	}
	if math.Abs(r.FairOdd-1.85) > 0.001 {
		t.Errorf("fair odd = %v, want 1.85 (string decode)", r.FairOdd)
	}
	if math.Abs(r.Odd-2.05) > 0.001 {
		t.Errorf("odd = %v, want 2.05", r.Odd)
	}
	if math.Abs(r.Stake-3) > 0.001 {
		t.Errorf("stake = %v, want 3", r.Stake)
	}
}

func TestNormalizeGenericBinary(t *testing.T) {
	payload := `[{
		"id": 9006,
		"fixture_id": 101,
		"type": {"id": 231, "name": "Both Teams To Score", "developer_name": "BTTS_PROBABILITY"},
		"predictions": {"yes": 61.2, "no": 38.8, "extra": {"nested": true}}
	}]`

	records := Normalize([]byte(payload))
	// Nested objects skip; the two scalar outcomes survive.
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	for _, r := range records {
		if r.Selection != "yes" && r.Selection != "no" {
			t.Errorf("unexpected selection %q", r.Selection)
		}
	}
}

// A malformed middle block must not take its siblings down with it.
func TestNormalizeMalformedBlockResilience(t *testing.T) {
	payload := `[
		{
			"id": 1, "fixture_id": 101,
			"type": {"developer_name": "BTTS_PROBABILITY"},
			"predictions": {"yes": 61.2, "no": 38.8}
		},
		{
			"id": 2, "fixture_id": 101,
			"type": {"developer_name": "CORRECT_SCORE_PROBABILITY"},
			"predictions": {"scores": "completely wrong shape"}
		},
		{
			"id": 3, "fixture_id": 102,
			"type": {"developer_name": "FULLTIME_RESULT_PROBABILITY"},
			"predictions": {"home": 50.0, "draw": 25.0, "away": 25.0}
		}
	]`

	records := Normalize([]byte(payload))
	if len(records) != 5 {
		t.Fatalf("got %d records, want 5 (blocks 1 and 3 only)", len(records))
	}
	for _, r := range records {
		if r.PredictionID == 2 {
			t.Error("malformed block produced records")
		}
	}
}

func TestNormalizeMissingFixtureID(t *testing.T) {
	payload := `[{
		"id": 1,
		"type": {"developer_name": "BTTS_PROBABILITY"},
		"predictions": {"yes": 61.2}
	}]`

	if records := Normalize([]byte(payload)); len(records) != 0 {
		t.Errorf("got %d records for block without fixture id, want 0", len(records))
	}
}

func TestNormalizeUnknownTypeUsesGenericPath(t *testing.T) {
	payload := `[{
		"id": 1, "fixture_id": 101,
		"type": {"developer_name": "SOME_FUTURE_PROBABILITY"},
		"predictions": {"alpha": 10.0, "beta": 90.0}
	}]`

	records := Normalize([]byte(payload))
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].TypeName != "SOME_FUTURE_PROBABILITY" {
		t.Errorf("unknown type display name = %q", records[0].TypeName)
	}
}

func TestTypeDisplayName(t *testing.T) {
	if got := TypeDisplayName(TypeCorrectScore); got != "Correct Score" {
		t.Errorf("TypeDisplayName(correct score) = %q", got)
	}
	if got := TypeDisplayName("NOVEL_TYPE"); got != "NOVEL_TYPE" {
		t.Errorf("TypeDisplayName(unknown) = %q", got)
	}
}
