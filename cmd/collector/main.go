package main

import (
	"encoding/json"
	"errors"
	"flag"

	"github.com/sirupsen/logrus"

	"football-data-collector/internal/api"
	"football-data-collector/internal/cache"
	"football-data-collector/internal/config"
	"football-data-collector/internal/logging"
	"football-data-collector/internal/odds"
	"football-data-collector/internal/predictions"
	"football-data-collector/internal/store"
)

func main() {
	live := flag.Bool("live", false, "collect livescores and in-play odds instead of the pre-match window")
	flag.Parse()

	cfg := config.Load()
	if cfg.LogFile != "" {
		logging.ConfigureFile(cfg.LogFile, 50, 3)
	}
	log := logging.WithComponent("collector")

	if err := config.Validate(cfg); err != nil {
		log.WithField("error", err).Fatal("invalid configuration")
	}

	leagues, err := config.LoadLeagues(cfg.LeaguesFile)
	if err != nil {
		log.WithFields(logging.Fields{"file": cfg.LeaguesFile, "error": err}).Fatal("loading league list")
	}

	responseCache := buildCache(cfg, log)
	client := api.NewClient(cfg.BaseURL, cfg.APIToken, cfg.Timeout, cfg.RetryCount, cfg.RetryDelay, responseCache)

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.WithFields(logging.Fields{"path": cfg.DBPath, "error": err}).Fatal("opening store")
	}
	defer db.Close()

	var fixtures []api.Fixture
	if *live {
		fixtures, err = client.Livescores(api.FixtureOptions{LeagueIDs: leagues.IDs()})
	} else {
		fixtures, err = client.FixturesBetweenDates(cfg.StartDate(), cfg.EndDate(), api.FixtureOptions{
			LeagueIDs: leagues.IDs(),
		})
	}
	if err != nil {
		log.WithField("error", err).Fatal("fetching fixtures")
	}
	log.WithFields(logging.Fields{"fixtures": len(fixtures), "live": *live}).Info("fixtures fetched")

	collected := 0
	for _, fixture := range fixtures {
		if collectFixture(client, db, fixture, *live) {
			collected++
		}
	}

	limit, remaining, _ := client.Tracker().Snapshot()
	log.WithFields(logging.Fields{
		"fixtures_collected":   collected,
		"rate_limit":           limit,
		"rate_limit_remaining": remaining,
	}).Info("collection run finished")
}

func buildCache(cfg config.Config, log *logrus.Entry) cache.Cache {
	if !cfg.CacheEnabled {
		return nil
	}
	if cfg.RedisAddr != "" {
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.CacheTTL)
		if err != nil {
			log.WithFields(logging.Fields{"addr": cfg.RedisAddr, "error": err}).Fatal("connecting to redis cache")
		}
		return c
	}
	c, err := cache.NewFileCache(cfg.CacheDir, cfg.CacheTTL)
	if err != nil {
		log.WithFields(logging.Fields{"dir": cfg.CacheDir, "error": err}).Fatal("creating cache directory")
	}
	return c
}

// collectFixture fetches, normalizes, and stores one fixture's odds and
// predictions. A failed fixture is logged and skipped so the run
// continues; terminal auth errors abort the whole run.
func collectFixture(client *api.Client, db *store.Store, fixture api.Fixture, live bool) bool {
	entry := logging.WithComponent("collector").WithFields(logging.Fields{
		"fixture_id": fixture.ID,
		"fixture":    fixture.Name,
	})

	var pages []json.RawMessage
	var err error
	if live {
		pages, err = client.InplayOddsByFixture(fixture.ID)
	} else {
		pages, err = client.PreMatchOddsByFixture(fixture.ID)
	}
	if err != nil {
		entry.WithField("error", err).Warn("fetching odds failed")
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Terminal() {
			entry.Fatal("terminal API error, aborting run")
		}
		return false
	}

	payload, _ := json.Marshal(pages)
	oddsRecords := odds.Normalize(payload, live)
	if len(oddsRecords) > 0 {
		batchID, err := db.SaveOdds(oddsRecords)
		if err != nil {
			entry.WithField("error", err).Error("saving odds batch")
			return false
		}
		entry.WithFields(logging.Fields{"odds": len(oddsRecords), "batch_id": batchID}).Info("odds stored")
	}

	if live {
		return true
	}

	blocks, err := client.PredictionProbabilities([]int{fixture.ID})
	if err != nil {
		entry.WithField("error", err).Warn("fetching predictions failed")
		return true
	}
	if len(blocks) == 0 {
		return true
	}

	predPayload, _ := json.Marshal(blocks)
	predRecords := predictions.Normalize(predPayload)
	if len(predRecords) > 0 {
		batchID, err := db.SavePredictions(predRecords)
		if err != nil {
			entry.WithField("error", err).Error("saving predictions batch")
			return false
		}
		entry.WithFields(logging.Fields{"predictions": len(predRecords), "batch_id": batchID}).Info("predictions stored")
	}

	return true
}
