package main

import (
	"fmt"
	"os"

	"football-data-collector/internal/api"
	"football-data-collector/internal/config"
	"football-data-collector/internal/logging"
)

// Endpoints probed to show what the current subscription can reach.
var probeEndpoints = []string{
	"leagues",
	"fixtures",
	"odds/pre-match",
	"odds/inplay",
	"predictions/probabilities",
	"predictions/performances",
}

func main() {
	cfg := config.Load()
	log := logging.WithComponent("apistatus")

	if err := config.Validate(cfg); err != nil {
		log.WithField("error", err).Fatal("invalid configuration")
	}

	// Status probes always hit the live API.
	client := api.NewClient(cfg.BaseURL, cfg.APIToken, cfg.Timeout, cfg.RetryCount, cfg.RetryDelay, nil)

	plan, err := client.TestConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection test failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Connected. Subscription: %s\n\n", plan)

	fmt.Println("Endpoint access:")
	for _, endpoint := range probeEndpoints {
		if err := client.VerifyEndpointAccess(endpoint); err != nil {
			fmt.Printf("  %-28s unavailable (%v)\n", endpoint, err)
			continue
		}
		fmt.Printf("  %-28s ok\n", endpoint)
	}

	usage, err := client.MyUsage()
	if err != nil {
		log.WithField("error", err).Warn("usage endpoint unavailable")
	} else {
		fmt.Printf("\nUsage: %s\n", usage)
	}

	limit, remaining, resetAt := client.Tracker().Snapshot()
	if limit > 0 {
		fmt.Printf("\nRate limit: %d/%d remaining, window resets %s\n",
			remaining, limit, resetAt.Format("15:04:05"))
	}
}
