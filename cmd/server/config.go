package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/solarsite/backend/pkg/utils"
)

// Solcast serves at most 14 days of forecasts
const maxForecastHours = 336

type Config struct {
	DatabaseURL            string
	SolcastBaseURL         string
	SolcastTimeout         time.Duration
	SolcastDefaultCapacity float64
	ForecastHours          int
	HealthInterval         time.Duration
	Port                   string
	Env                    string
}

func loadConfig() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    normalizeDatabaseURL(getEnv("DATABASE_URL", "")),
		SolcastBaseURL: getEnv("SOLCAST_API_BASE_URL", "https://api.solcast.com.au"),
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("GO_ENV", "development"),
	}

	var err error
	if cfg.SolcastTimeout, err = getDuration("SOLCAST_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.HealthInterval, err = getDuration("HEALTH_INTERVAL", "30s"); err != nil {
		return nil, err
	}

	capacity, err := strconv.ParseFloat(getEnv("SOLCAST_DEFAULT_CAPACITY_KW", "1"), 64)
	if err != nil || capacity <= 0 {
		return nil, fmt.Errorf("invalid SOLCAST_DEFAULT_CAPACITY_KW: must be a positive number")
	}
	cfg.SolcastDefaultCapacity = capacity

	hours, err := strconv.Atoi(getEnv("FORECAST_HOURS", "48"))
	if err != nil {
		return nil, fmt.Errorf("invalid FORECAST_HOURS: %w", err)
	}
	cfg.ForecastHours = int(utils.Clamp(float64(hours), 1, maxForecastHours))

	return cfg, nil
}

// normalizeDatabaseURL accepts the legacy postgres:// scheme some hosts hand out
func normalizeDatabaseURL(raw string) string {
	if strings.HasPrefix(raw, "postgres://") {
		return "postgresql://" + strings.TrimPrefix(raw, "postgres://")
	}
	return raw
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key, defaultValue string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
