// Package predictions flattens SportMonks prediction payloads into
// per-selection records. Each prediction type carries its values in a
// different shape, so decoding dispatches on the type's developer name.
package predictions

import (
	"encoding/json"
	"fmt"
	"sort"

	"football-data-collector/internal/logging"
)

// Developer names for the prediction types the API serves.
const (
	TypeBTTS            = "BTTS_PROBABILITY"
	TypeMatchWinner     = "FULLTIME_RESULT_PROBABILITY"
	TypeFirstHalfWinner = "FIRST_HALF_WINNER_PROBABILITY"
	TypeOverUnder15     = "OVER_UNDER_1_5_PROBABILITY"
	TypeOverUnder25     = "OVER_UNDER_2_5_PROBABILITY"
	TypeOverUnder35     = "OVER_UNDER_3_5_PROBABILITY"
	TypeDoubleChance    = "DOUBLE_CHANCE_PROBABILITY"
	TypeHTFT            = "HTFT_PROBABILITY"
	TypeCorrectScore    = "CORRECT_SCORE_PROBABILITY"
	TypeTeamScoreFirst  = "TEAM_TO_SCORE_FIRST_PROBABILITY"
	TypeHomeOverUnder05 = "HOME_OVER_UNDER_0_5_PROBABILITY"
	TypeHomeOverUnder15 = "HOME_OVER_UNDER_1_5_PROBABILITY"
	TypeAwayOverUnder05 = "AWAY_OVER_UNDER_0_5_PROBABILITY"
	TypeAwayOverUnder15 = "AWAY_OVER_UNDER_1_5_PROBABILITY"
	TypeCornersOU105    = "CORNERS_OVER_UNDER_10_5_PROBABILITY"
	TypeValueBet        = "VALUEBET"
)

var typeDisplayNames = map[string]string{
	TypeBTTS:            "Both Teams To Score",
	TypeMatchWinner:     "Match Result",
	TypeFirstHalfWinner: "First Half Result",
	TypeOverUnder15:     "Over/Under 1.5 Goals",
	TypeOverUnder25:     "Over/Under 2.5 Goals",
	TypeOverUnder35:     "Over/Under 3.5 Goals",
	TypeDoubleChance:    "Double Chance",
	TypeHTFT:            "Half-Time/Full-Time",
	TypeCorrectScore:    "Correct Score",
	TypeTeamScoreFirst:  "Team To Score First",
	TypeHomeOverUnder05: "Home Team Over/Under 0.5 Goals",
	TypeHomeOverUnder15: "Home Team Over/Under 1.5 Goals",
	TypeAwayOverUnder05: "Away Team Over/Under 0.5 Goals",
	TypeAwayOverUnder15: "Away Team Over/Under 1.5 Goals",
	TypeCornersOU105:    "Corners Over/Under 10.5",
	TypeValueBet:        "Value Bet",
}

// TypeDisplayName returns the human-readable name for a prediction
// type, or the developer name itself when the type is unknown.
func TypeDisplayName(developerName string) string {
	if name, ok := typeDisplayNames[developerName]; ok {
		return name
	}
	return developerName
}

// Record is one flattened prediction selection. Probability is a
// percentage. The bet fields are populated only for value bets, where
// the API reports a suggested price instead of a probability grid.
type Record struct {
	PredictionID  int
	FixtureID     int
	TypeID        int
	TypeName      string
	DeveloperName string
	Selection     string
	Probability   float64

	// Value-bet fields.
	Bookmaker int
	FairOdd   float64
	Odd       float64
	Stake     float64
	IsValue   bool
}

type predictionType struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	DeveloperName string `json:"developer_name"`
}

type predictionBlock struct {
	ID          int             `json:"id"`
	FixtureID   int             `json:"fixture_id"`
	Type        predictionType  `json:"type"`
	Predictions json.RawMessage `json:"predictions"`
}

type valueBetValues struct {
	Bet       string   `json:"bet"`
	Bookmaker int      `json:"bookmaker"`
	FairOdd   *numeric `json:"fair_odd"`
	Odd       *numeric `json:"odd"`
	Stake     *numeric `json:"stake"`
	IsValue   bool     `json:"is_value"`
}

// numeric accepts a JSON number or a numeric string. Prediction value
// fields show up both ways.
type numeric float64

func (n *numeric) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = numeric(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	var parsed float64
	if err := json.Unmarshal([]byte(s), &parsed); err != nil {
		return err
	}
	*n = numeric(parsed)
	return nil
}

func (n *numeric) value() float64 {
	if n == nil {
		return 0
	}
	return float64(*n)
}

// Normalize flattens a fixture's prediction blocks into records. A
// malformed block is logged and skipped without affecting its siblings.
func Normalize(payload []byte) []Record {
	log := logging.WithComponent("predictions")

	var blocks []predictionBlock
	if err := json.Unmarshal(payload, &blocks); err != nil {
		var wrapper struct {
			Data []predictionBlock `json:"data"`
		}
		if err := json.Unmarshal(payload, &wrapper); err != nil {
			log.WithField("error", err).Warn("unusable prediction payload")
			return nil
		}
		blocks = wrapper.Data
	}

	var records []Record
	for _, block := range blocks {
		if block.FixtureID == 0 {
			log.WithField("prediction_id", block.ID).Warn("prediction missing fixture id")
			continue
		}
		flat, err := flattenBlockSafe(block)
		if err != nil {
			log.WithFields(logging.Fields{
				"prediction_id": block.ID,
				"type":          block.Type.DeveloperName,
				"error":         err,
			}).Warn("skipping malformed prediction block")
			continue
		}
		records = append(records, flat...)
	}
	return records
}

// flattenBlockSafe contains a panic from one block so a bad payload
// never takes down the rest of the batch.
func flattenBlockSafe(block predictionBlock) (records []Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			records = nil
			err = fmt.Errorf("panic processing prediction block: %v", r)
		}
	}()
	return flattenBlock(block)
}

func flattenBlock(block predictionBlock) ([]Record, error) {
	base := Record{
		PredictionID:  block.ID,
		FixtureID:     block.FixtureID,
		TypeID:        block.Type.ID,
		TypeName:      block.Type.Name,
		DeveloperName: block.Type.DeveloperName,
	}
	if base.TypeName == "" {
		base.TypeName = TypeDisplayName(base.DeveloperName)
	}

	switch block.Type.DeveloperName {
	case TypeCorrectScore:
		return flattenCorrectScore(base, block.Predictions)
	case TypeValueBet:
		return flattenValueBet(base, block.Predictions)
	case TypeMatchWinner, TypeFirstHalfWinner, TypeTeamScoreFirst:
		return flattenKeyed(base, block.Predictions, []string{"home", "away", "draw"})
	case TypeDoubleChance:
		return flattenKeyed(base, block.Predictions, []string{"draw_home", "draw_away", "home_away"})
	case TypeHTFT:
		return flattenKeyed(base, block.Predictions, htftKeys())
	default:
		return flattenGeneric(base, block.Predictions)
	}
}

func htftKeys() []string {
	outcomes := []string{"home", "away", "draw"}
	keys := make([]string, 0, 9)
	for _, ht := range outcomes {
		for _, ft := range outcomes {
			keys = append(keys, ht+"_"+ft)
		}
	}
	return keys
}

func flattenCorrectScore(base Record, raw json.RawMessage) ([]Record, error) {
	var values struct {
		Scores map[string]numeric `json:"scores"`
	}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}

	scores := make([]string, 0, len(values.Scores))
	for score := range values.Scores {
		scores = append(scores, score)
	}
	sort.Strings(scores)

	records := make([]Record, 0, len(scores))
	for _, score := range scores {
		r := base
		r.Selection = score
		r.Probability = float64(values.Scores[score])
		records = append(records, r)
	}
	return records, nil
}

func flattenValueBet(base Record, raw json.RawMessage) ([]Record, error) {
	var values valueBetValues
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}
	r := base
	r.Selection = values.Bet
	if r.Selection == "" {
		r.Selection = "unknown"
	}
	r.Bookmaker = values.Bookmaker
	r.FairOdd = values.FairOdd.value()
	r.Odd = values.Odd.value()
	r.Stake = values.Stake.value()
	r.IsValue = values.IsValue
	return []Record{r}, nil
}

func flattenKeyed(base Record, raw json.RawMessage, keys []string) ([]Record, error) {
	var values map[string]json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}

	var records []Record
	for _, key := range keys {
		rawValue, ok := values[key]
		if !ok {
			continue
		}
		var probability numeric
		if err := json.Unmarshal(rawValue, &probability); err != nil {
			return nil, err
		}
		r := base
		r.Selection = key
		r.Probability = float64(probability)
		records = append(records, r)
	}
	return records, nil
}

// flattenGeneric handles binary yes/no types and anything unrecognized.
// Nested objects and arrays are skipped; those belong to the structured
// types handled above.
func flattenGeneric(base Record, raw json.RawMessage) ([]Record, error) {
	var values map[string]json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var records []Record
	for _, key := range keys {
		rawValue := values[key]
		var probability numeric
		if err := json.Unmarshal(rawValue, &probability); err != nil {
			// Nested structure, not a scalar probability.
			continue
		}
		r := base
		r.Selection = key
		r.Probability = float64(probability)
		records = append(records, r)
	}
	return records, nil
}
