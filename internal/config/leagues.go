package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// defaultLeagues is the compiled-in allow-list of league id -> name,
// used when no leagues file is configured.
var defaultLeagues = map[int]string{
	8:    "Premier League",
	9:    "Championship",
	24:   "FA Cup",
	27:   "Carabao Cup",
	72:   "Eredivisie",
	82:   "Bundesliga",
	181:  "Tipico Bundesliga",
	208:  "Pro League",
	271:  "Superliga",
	301:  "Ligue 1",
	384:  "Serie A",
	387:  "Serie B",
	390:  "Coppa Italia",
	444:  "Eliteserien",
	453:  "Ekstraklasa",
	462:  "Primeira Liga",
	501:  "Premiership",
	564:  "La Liga",
	567:  "La Liga 2",
	570:  "Copa Del Rey",
	573:  "Allsvenskan",
	591:  "Super League",
	600:  "Super Lig",
	1371: "UEFA Europa League Play-offs",
}

// Leagues is the set of leagues the collector is interested in.
type Leagues struct {
	byID map[int]string
}

type leaguesFile struct {
	Leagues map[int]string `yaml:"leagues"`
}

// DefaultLeagues returns the compiled-in league allow-list.
func DefaultLeagues() *Leagues {
	return &Leagues{byID: defaultLeagues}
}

// LoadLeagues reads a league allow-list from a YAML file of the form:
//
//	leagues:
//	  8: Premier League
//	  564: La Liga
//
// An empty path returns the compiled-in defaults.
func LoadLeagues(path string) (*Leagues, error) {
	if path == "" {
		return DefaultLeagues(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading leagues file: %w", err)
	}

	var parsed leaguesFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parsing leagues file %s: %w", path, err)
	}
	if len(parsed.Leagues) == 0 {
		return nil, fmt.Errorf("leagues file %s defines no leagues", path)
	}

	return &Leagues{byID: parsed.Leagues}, nil
}

// IDs returns the league ids in ascending order.
func (l *Leagues) IDs() []int {
	ids := make([]int, 0, len(l.byID))
	for id := range l.byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Name returns the display name for a league id, or "" if unknown.
func (l *Leagues) Name(id int) string {
	return l.byID[id]
}

// Contains reports whether the league id is in the allow-list.
func (l *Leagues) Contains(id int) bool {
	_, ok := l.byID[id]
	return ok
}
