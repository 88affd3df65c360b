package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/solarsite/backend/internal/domain"
)

func newTestSolcast(t *testing.T, handler http.HandlerFunc) *SolcastClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewSolcastClient(SolcastConfig{BaseURL: srv.URL, Timeout: 2 * time.Second, ForecastHours: 24}, nil)
}

func TestSolcastForecasts(t *testing.T) {
	client := newTestSolcast(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != forecastsPath {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("api_key") != "abc123" || q.Get("latitude") != "10" || q.Get("longitude") != "20" {
			t.Errorf("Unexpected query %s", r.URL.RawQuery)
		}
		if q.Get("capacity") != "5" || q.Get("hours") != "24" || q.Get("format") != "json" {
			t.Errorf("Unexpected query %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"forecasts":[
			{"pv_estimate":2.5,"period_end":"2026-10-18T11:00:00.0000000Z","period":"PT30M"},
			{"pv_estimate":1.5,"period_end":"2026-10-18T10:30:00.0000000Z","period":"PT30M"}
		]}`)
	})

	series, err := client.Forecasts(context.Background(), domain.Site{APIKey: "abc123", Latitude: 10, Longitude: 20, Capacity: 5})
	if err != nil {
		t.Fatalf("Failed to fetch forecasts: %v", err)
	}
	if series.Name != domain.SeriesForecast {
		t.Errorf("Expected series name %q, got %q", domain.SeriesForecast, series.Name)
	}
	if series.Len() != 2 {
		t.Fatalf("Expected 2 samples, got %d", series.Len())
	}
	if !series.Samples[0].Time.Before(series.Samples[1].Time) {
		t.Errorf("Samples are not chronological: %v", series.Samples)
	}
	if series.Samples[0].Value != 1.5 || series.Samples[0].Time.Location() != time.UTC {
		t.Errorf("Unexpected first sample: %+v", series.Samples[0])
	}
}

func TestSolcastDefaultCapacity(t *testing.T) {
	client := newTestSolcast(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("capacity"); got != "1" {
			t.Errorf("Expected default capacity 1, got %s", got)
		}
		fmt.Fprint(w, `{"forecasts":[]}`)
	})

	if _, err := client.Forecasts(context.Background(), domain.Site{APIKey: "k"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestSolcastEstimatedActualsWindow(t *testing.T) {
	end := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	window := domain.TrailingWindow(end, 7*24*time.Hour)

	client := newTestSolcast(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != estimatedActualsPath {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("hours"); got != "168" {
			t.Errorf("Expected hours=168, got %s", got)
		}
		fmt.Fprint(w, `{"estimated_actuals":[
			{"pv_estimate":9,"period_end":"2026-10-18T12:30:00Z"},
			{"pv_estimate":3,"period_end":"2026-10-18T12:00:00Z"},
			{"pv_estimate":2,"period_end":"2026-10-11T12:00:00Z"},
			{"pv_estimate":1,"period_end":"2026-10-11T11:30:00Z"}
		]}`)
	})

	series, err := client.EstimatedActuals(context.Background(), domain.Site{APIKey: "k"}, window)
	if err != nil {
		t.Fatalf("Failed to fetch estimated actuals: %v", err)
	}
	if series.Name != domain.SeriesEstimatedActuals {
		t.Errorf("Unexpected series name %q", series.Name)
	}
	values := series.Values()
	if len(values) != 2 || values[0] != 2 || values[1] != 3 {
		t.Errorf("Expected in-window values [2 3], got %v", values)
	}
}

func TestSolcastNonSuccessStatus(t *testing.T) {
	client := newTestSolcast(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"response_status":{"error_code":"Unauthorized"}}`, http.StatusUnauthorized)
	})

	_, err := client.Forecasts(context.Background(), domain.Site{APIKey: "bad"})
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("Expected ErrUpstream, got %v", err)
	}

	var upErr *domain.UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("Expected *UpstreamError, got %T", err)
	}
	if upErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", upErr.StatusCode)
	}
}

func TestSolcastMalformedBody(t *testing.T) {
	client := newTestSolcast(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"forecasts":[{"pv_estimate":1,"period_end":"yesterday"}]}`)
	})

	if _, err := client.Forecasts(context.Background(), domain.Site{APIKey: "k"}); !errors.Is(err, domain.ErrUpstream) {
		t.Errorf("Expected ErrUpstream for bad timestamp, got %v", err)
	}
}

func TestSolcastTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		fmt.Fprint(w, `{"forecasts":[]}`)
	}))
	defer srv.Close()

	client := NewSolcastClient(SolcastConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, nil)

	if _, err := client.Forecasts(context.Background(), domain.Site{APIKey: "k"}); !errors.Is(err, domain.ErrUpstream) {
		t.Errorf("Expected ErrUpstream on timeout, got %v", err)
	}
}

func TestSolcastBreakerOpensOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestSolcast(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	for i := 0; i < 7; i++ {
		if _, err := client.Forecasts(context.Background(), domain.Site{APIKey: "k"}); !errors.Is(err, domain.ErrUpstream) {
			t.Fatalf("Call %d: expected ErrUpstream, got %v", i, err)
		}
	}
	if n := calls.Load(); n != 5 {
		t.Errorf("Expected breaker to stop calls after 5 failures, upstream saw %d", n)
	}
}
