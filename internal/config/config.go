package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for configuration values.
const (
	DefaultBaseURL       = "https://api.sportmonks.com/v3/football"
	DefaultTimeout       = 30 * time.Second
	DefaultRetryCount    = 3
	DefaultRetryDelay    = 5 * time.Second
	DefaultCacheDir      = "cache"
	DefaultCacheTTL      = time.Hour
	DefaultDBPath        = "football_data.db"
	DefaultDaysBack      = 3
	DefaultDaysForward   = 7
	DefaultEdgeThreshold = 0.02
	DefaultKellyFraction = 0.25
)

// Config holds all application configuration.
type Config struct {
	APIToken   string
	APIKeyPath string // fallback token file when the env var is unset
	BaseURL    string

	Timeout    time.Duration
	RetryCount int
	RetryDelay time.Duration

	CacheEnabled bool
	CacheDir     string
	CacheTTL     time.Duration
	RedisAddr    string // non-empty switches the response cache to Redis

	DBPath      string
	LeaguesFile string

	DaysBack    int
	DaysForward int

	EdgeThreshold float64
	KellyFraction float64

	LogFile string
}

// Load reads configuration from environment variables (and .env file if present).
func Load() Config {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	cfg := Config{
		APIToken:      os.Getenv("SPORTMONKS_API_TOKEN"),
		APIKeyPath:    os.Getenv("SPORTMONKS_API_KEY_PATH"),
		BaseURL:       DefaultBaseURL,
		Timeout:       DefaultTimeout,
		RetryCount:    DefaultRetryCount,
		RetryDelay:    DefaultRetryDelay,
		CacheEnabled:  true,
		CacheDir:      DefaultCacheDir,
		CacheTTL:      DefaultCacheTTL,
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		DBPath:        DefaultDBPath,
		LeaguesFile:   os.Getenv("LEAGUES_FILE"),
		DaysBack:      DefaultDaysBack,
		DaysForward:   DefaultDaysForward,
		EdgeThreshold: DefaultEdgeThreshold,
		KellyFraction: DefaultKellyFraction,
		LogFile:       os.Getenv("LOG_FILE"),
	}

	if cfg.APIToken == "" && cfg.APIKeyPath != "" {
		if data, err := os.ReadFile(cfg.APIKeyPath); err == nil {
			cfg.APIToken = strings.TrimSpace(string(data))
		}
	}

	if v := os.Getenv("SPORTMONKS_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}

	if v := os.Getenv("API_REQUEST_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.Timeout = time.Duration(secs) * time.Second
		}
	}

	if v := os.Getenv("API_RETRY_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RetryCount = n
		}
	}

	if v := os.Getenv("API_RETRY_DELAY"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.RetryDelay = time.Duration(secs) * time.Second
		}
	}

	if v := os.Getenv("API_CACHE_ENABLED"); v != "" {
		cfg.CacheEnabled = strings.EqualFold(v, "true")
	}

	if v := os.Getenv("API_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}

	if v := os.Getenv("API_CACHE_DURATION"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.CacheTTL = time.Duration(secs) * time.Second
		}
	}

	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}

	if v := os.Getenv("DEFAULT_DAYS_BACK"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DaysBack = n
		}
	}

	if v := os.Getenv("DEFAULT_DAYS_FORWARD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DaysForward = n
		}
	}

	if v := os.Getenv("EDGE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.EdgeThreshold = f
		}
	}

	if v := os.Getenv("KELLY_FRACTION"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.KellyFraction = f
		}
	}

	return cfg
}

// Validate checks that configuration values are usable. A missing or
// placeholder API token is fatal: nothing in the system works without it.
func Validate(cfg Config) error {
	if cfg.APIToken == "" {
		return fmt.Errorf("SPORTMONKS_API_TOKEN is required (set it in the environment or .env, or point SPORTMONKS_API_KEY_PATH at a token file)")
	}
	if len(cfg.APIToken) < 20 || strings.HasPrefix(cfg.APIToken, "your_") || strings.HasSuffix(cfg.APIToken, "_here") {
		return fmt.Errorf("SPORTMONKS_API_TOKEN looks like a placeholder")
	}
	if cfg.RetryCount < 1 {
		return fmt.Errorf("API_RETRY_COUNT must be at least 1, got %d", cfg.RetryCount)
	}
	if cfg.RetryDelay <= 0 {
		return fmt.Errorf("API_RETRY_DELAY must be positive, got %v", cfg.RetryDelay)
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("API_REQUEST_TIMEOUT must be positive, got %v", cfg.Timeout)
	}
	if cfg.CacheTTL <= 0 {
		return fmt.Errorf("API_CACHE_DURATION must be positive, got %v", cfg.CacheTTL)
	}
	if cfg.EdgeThreshold < 0 || cfg.EdgeThreshold > 1 {
		return fmt.Errorf("EDGE_THRESHOLD must be between 0 and 1, got %f", cfg.EdgeThreshold)
	}
	if cfg.KellyFraction <= 0 || cfg.KellyFraction > 1 {
		return fmt.Errorf("KELLY_FRACTION must be between 0 and 1, got %f", cfg.KellyFraction)
	}
	if cfg.DaysBack < 0 || cfg.DaysForward < 0 {
		return fmt.Errorf("date window must be non-negative, got back=%d forward=%d", cfg.DaysBack, cfg.DaysForward)
	}
	return nil
}

// StartDate returns the default collection window start (today - DaysBack).
func (c Config) StartDate() string {
	return time.Now().AddDate(0, 0, -c.DaysBack).Format("2006-01-02")
}

// EndDate returns the default collection window end (today + DaysForward).
func (c Config) EndDate() string {
	return time.Now().AddDate(0, 0, c.DaysForward).Format("2006-01-02")
}
