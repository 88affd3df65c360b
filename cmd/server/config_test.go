package main

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"DATABASE_URL", "SOLCAST_API_BASE_URL", "SOLCAST_TIMEOUT", "SOLCAST_DEFAULT_CAPACITY_KW", "FORECAST_HOURS", "HEALTH_INTERVAL", "PORT", "GO_ENV"} {
		t.Setenv(k, "")
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SolcastTimeout != 15*time.Second || cfg.HealthInterval != 30*time.Second {
		t.Errorf("unexpected durations: %v %v", cfg.SolcastTimeout, cfg.HealthInterval)
	}
	if cfg.ForecastHours != 48 || cfg.SolcastDefaultCapacity != 1 || cfg.Port != "8080" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/solar")
	t.Setenv("SOLCAST_TIMEOUT", "3s")
	t.Setenv("FORECAST_HOURS", "1000")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DatabaseURL != "postgresql://u:p@db:5432/solar" {
		t.Errorf("expected normalized scheme, got %s", cfg.DatabaseURL)
	}
	if cfg.SolcastTimeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", cfg.SolcastTimeout)
	}
	if cfg.ForecastHours != maxForecastHours {
		t.Errorf("expected hours clamped to %d, got %d", maxForecastHours, cfg.ForecastHours)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv("SOLCAST_TIMEOUT", "soon")
	if _, err := loadConfig(); err == nil {
		t.Error("expected error for invalid SOLCAST_TIMEOUT")
	}
}
