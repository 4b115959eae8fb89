package odds

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// nodeSet is a collection inside an odds payload. The provider is
// inconsistent about shape: the same collection arrives as a bare
// array, as a {"data": [...]} wrapper, or as a keyed map. All three
// decode to one ordered slice here so nothing downstream branches on
// shape. Map keys are sorted for a deterministic order.
type nodeSet []json.RawMessage

func (s *nodeSet) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = nil
		return nil
	}

	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*s = items
		return nil
	}

	// Object form: either a data wrapper or a keyed map.
	var wrapper struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err == nil && wrapper.Data != nil {
		*s = wrapper.Data
		return nil
	}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &keyed); err != nil {
		return err
	}
	keys := make([]string, 0, len(keyed))
	for k := range keyed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := make([]json.RawMessage, 0, len(keyed))
	for _, k := range keys {
		items = append(items, keyed[k])
	}
	*s = items
	return nil
}

// flexFloat accepts a JSON number or a numeric string; odds values
// arrive both ways.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = 0
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return err
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

type oddsObject struct {
	FixtureID  int     `json:"fixture_id"`
	IsLive     bool    `json:"is_live"`
	Bookmakers nodeSet `json:"bookmakers"`
}

type bookmakerBlock struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Markets nodeSet `json:"markets"`
}

type marketBlock struct {
	ID   int     `json:"id"`
	Name string  `json:"name"`
	Odds nodeSet `json:"odds"` // selections live under "odds"
}

type selectionBlock struct {
	ID    int        `json:"id"`
	Name  string     `json:"name"`
	Value *flexFloat `json:"value"`
}

// splitOddsObjects accepts the three top-level payload forms: a list of
// odds objects, a data-wrapped list, or a single odds object.
func splitOddsObjects(payload []byte) []json.RawMessage {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil
	}

	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil
		}
		return items
	}

	var wrapper struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err == nil && wrapper.Data != nil {
		return wrapper.Data
	}

	return []json.RawMessage{trimmed}
}
