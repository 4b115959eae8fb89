package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"football-data-collector/internal/analysis"
	"football-data-collector/internal/config"
	"football-data-collector/internal/logging"
	"football-data-collector/internal/store"
)

func main() {
	threshold := flag.Float64("threshold", 0, "minimum edge to report (default: EDGE_THRESHOLD from config)")
	fixtureID := flag.Int("fixture", 0, "restrict to one fixture id")
	flag.Parse()

	cfg := config.Load()
	log := logging.WithComponent("valuebets")

	if *threshold == 0 {
		*threshold = cfg.EdgeThreshold
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.WithFields(logging.Fields{"path": cfg.DBPath, "error": err}).Fatal("opening store")
	}
	defer db.Close()

	var fixtureIDs []int
	if *fixtureID != 0 {
		fixtureIDs = []int{*fixtureID}
	} else {
		fixtureIDs, err = db.FixtureIDs()
		if err != nil {
			log.WithField("error", err).Fatal("listing fixtures")
		}
	}

	var edges []analysis.ValueEdge
	for _, id := range fixtureIDs {
		oddsRecords, err := db.OddsByFixture(id)
		if err != nil {
			log.WithFields(logging.Fields{"fixture_id": id, "error": err}).Warn("loading odds")
			continue
		}
		predRecords, err := db.PredictionsByFixture(id)
		if err != nil {
			log.WithFields(logging.Fields{"fixture_id": id, "error": err}).Warn("loading predictions")
			continue
		}
		edges = append(edges, analysis.FindValueEdges(predRecords, oddsRecords, *threshold)...)
	}

	if len(edges) == 0 {
		fmt.Printf("No value edges above %.1f%% across %d fixtures.\n", *threshold*100, len(fixtureIDs))
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FIXTURE\tMARKET\tSELECTION\tBOOKMAKER\tODDS\tPRED%\tIMPL%\tEDGE\tEV\tKELLY")
	for _, e := range edges {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\t%.1f\t%.1f\t%+.3f\t%+.3f\t%.3f\n",
			e.FixtureID, e.Market, e.Selection, e.BookmakerName,
			e.Odds, e.PredictedPct, e.ImpliedPct, e.Edge, e.ExpectedValue,
			e.Kelly*cfg.KellyFraction)
	}
	w.Flush()

	fmt.Printf("\n%d value edges above %.1f%% (Kelly scaled by %.2f).\n",
		len(edges), *threshold*100, cfg.KellyFraction)
}
