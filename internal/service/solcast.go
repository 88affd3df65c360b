package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/solarsite/backend/internal/domain"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	DefaultSolcastBaseURL = "https://api.solcast.com.au"

	forecastsPath        = "/world_pv_power/forecasts"
	estimatedActualsPath = "/world_pv_power/estimated_actuals"
)

// ForecastSource abstracts the upstream solar forecasting API
type ForecastSource interface {
	// Forecasts returns the PV power forecast for a site
	Forecasts(ctx context.Context, site domain.Site) (domain.Series, error)

	// EstimatedActuals returns estimated PV power inside the window
	EstimatedActuals(ctx context.Context, site domain.Site, window domain.TimeWindow) (domain.Series, error)
}

// SolcastConfig controls the Solcast client
type SolcastConfig struct {
	BaseURL         string
	Timeout         time.Duration
	ForecastHours   int
	DefaultCapacity float64 // kW sent upstream when a site has none
}

// SolcastClient talks to the Solcast world PV power API.
// One request per call: no retries and no caching.
type SolcastClient struct {
	baseURL         string
	forecastHours   int
	defaultCapacity float64
	httpClient      *http.Client
	circuit         *gobreaker.CircuitBreaker
	logger          *zap.Logger
}

// solcastPoint is one period in a Solcast response
type solcastPoint struct {
	PVEstimate float64 `json:"pv_estimate"`
	PeriodEnd  string  `json:"period_end"`
	Period     string  `json:"period"`
}

// solcastResponse covers both endpoints; only one list is filled per call
type solcastResponse struct {
	Forecasts        []solcastPoint `json:"forecasts"`
	EstimatedActuals []solcastPoint `json:"estimated_actuals"`
}

// NewSolcastClient creates a new Solcast client
func NewSolcastClient(cfg SolcastConfig, logger *zap.Logger) *SolcastClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultSolcastBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.ForecastHours <= 0 {
		cfg.ForecastHours = 48
	}
	if cfg.DefaultCapacity <= 0 {
		cfg.DefaultCapacity = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "solcast",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A rejected key or bad site is the caller's problem, not an outage.
		IsSuccessful: func(err error) bool {
			var upErr *domain.UpstreamError
			if errors.As(err, &upErr) {
				return upErr.StatusCode < 500 && upErr.StatusCode != http.StatusTooManyRequests
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &SolcastClient{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		forecastHours:   cfg.ForecastHours,
		defaultCapacity: cfg.DefaultCapacity,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		circuit: cb,
		logger:  logger,
	}
}

// Forecasts fetches the PV power forecast for the site
func (c *SolcastClient) Forecasts(ctx context.Context, site domain.Site) (domain.Series, error) {
	resp, err := c.get(ctx, forecastsPath, c.siteQuery(site, c.forecastHours))
	if err != nil {
		return domain.Series{}, err
	}

	samples, err := toSamples(resp.Forecasts)
	if err != nil {
		return domain.Series{}, err
	}

	return domain.Series{Name: domain.SeriesForecast, Unit: "kW", Samples: samples}, nil
}

// EstimatedActuals fetches estimated PV power and keeps only samples inside the window
func (c *SolcastClient) EstimatedActuals(ctx context.Context, site domain.Site, window domain.TimeWindow) (domain.Series, error) {
	hours := int(math.Ceil(window.End.Sub(window.Start).Hours()))
	if hours <= 0 {
		return domain.Series{}, fmt.Errorf("solcast: empty estimated actuals window: %w", domain.ErrUpstream)
	}

	resp, err := c.get(ctx, estimatedActualsPath, c.siteQuery(site, hours))
	if err != nil {
		return domain.Series{}, err
	}

	samples, err := toSamples(resp.EstimatedActuals)
	if err != nil {
		return domain.Series{}, err
	}

	inWindow := samples[:0]
	for _, s := range samples {
		if window.Contains(s.Time) {
			inWindow = append(inWindow, s)
		}
	}

	return domain.Series{Name: domain.SeriesEstimatedActuals, Unit: "kW", Samples: inWindow}, nil
}

func (c *SolcastClient) siteQuery(site domain.Site, hours int) url.Values {
	capacity := site.Capacity
	if capacity <= 0 {
		capacity = c.defaultCapacity
	}

	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(site.Latitude, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(site.Longitude, 'f', -1, 64))
	values.Set("capacity", strconv.FormatFloat(capacity, 'f', -1, 64))
	values.Set("hours", strconv.Itoa(hours))
	values.Set("format", "json")
	values.Set("api_key", site.APIKey)
	return values
}

// get performs a single GET through the circuit breaker and decodes the body
func (c *SolcastClient) get(ctx context.Context, path string, query url.Values) (solcastResponse, error) {
	u := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	result, err := c.circuit.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("solcast: failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("solcast: request to %s failed: %w", path, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			io.Copy(io.Discard, resp.Body)
			return nil, &domain.UpstreamError{Endpoint: path, StatusCode: resp.StatusCode}
		}

		var payload solcastResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("solcast: failed to decode %s response: %w", path, err)
		}
		return payload, nil
	})
	if err != nil {
		c.logger.Debug("solcast call failed", zap.String("endpoint", path), zap.Error(err))
		if errors.Is(err, domain.ErrUpstream) {
			return solcastResponse{}, err
		}
		return solcastResponse{}, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	return result.(solcastResponse), nil
}

// toSamples parses period_end timestamps into UTC and sorts chronologically
func toSamples(points []solcastPoint) ([]domain.Sample, error) {
	samples := make([]domain.Sample, 0, len(points))
	for _, p := range points {
		ts, err := time.Parse(time.RFC3339, p.PeriodEnd)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid period_end %q: %v", domain.ErrUpstream, p.PeriodEnd, err)
		}
		samples = append(samples, domain.Sample{Time: ts.UTC(), Value: p.PVEstimate})
	}

	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Time.Before(samples[j].Time)
	})

	return samples, nil
}
