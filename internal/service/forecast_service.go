package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/solarsite/backend/internal/domain"
	"github.com/solarsite/backend/pkg/utils"
	"go.uber.org/zap"
)

// EstimatedActualsWindow is the trailing period plotted behind the forecast
const EstimatedActualsWindow = 7 * 24 * time.Hour

// Renderer turns series into an image
type Renderer interface {
	Render(title string, capacity float64, series ...domain.Series) ([]byte, error)
}

// ForecastService runs the lookup -> fetch -> render pipeline for one location
type ForecastService struct {
	repo     LocationRepository
	source   ForecastSource
	renderer Renderer
	logger   *zap.Logger
	now      func() time.Time
}

// NewForecastService creates a new forecast service
func NewForecastService(repo LocationRepository, source ForecastSource, renderer Renderer, logger *zap.Logger) *ForecastService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ForecastService{
		repo:     repo,
		source:   source,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
	}
}

// Generate builds the forecast chart for a location.
// Either both upstream calls and the render succeed or nothing is returned.
func (s *ForecastService) Generate(ctx context.Context, id int64) (domain.ForecastChart, error) {
	loc, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.ForecastChart{}, err
	}

	site := domain.Site{
		APIKey:    loc.APIKey,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Capacity:  loc.CapacityKW(),
	}

	forecast, err := s.source.Forecasts(ctx, site)
	if err != nil {
		return domain.ForecastChart{}, s.fail(loc, "fetch forecasts", err)
	}

	window := domain.TrailingWindow(s.now(), EstimatedActualsWindow)
	actuals, err := s.source.EstimatedActuals(ctx, site, window)
	if err != nil {
		return domain.ForecastChart{}, s.fail(loc, "fetch estimated actuals", err)
	}

	series := []domain.Series{forecast}
	if actuals.Len() > 0 {
		series = append(series, actuals)
	}

	title := fmt.Sprintf("PV Power Forecast - %s", loc.Name)
	img, err := s.renderer.Render(title, loc.CapacityKW(), series...)
	if err != nil {
		return domain.ForecastChart{}, s.fail(loc, "render chart", err)
	}

	peak := peakOf(NormalizeSeries(forecast, loc.CapacityKW()))

	s.logger.Info("forecast generated",
		zap.Int64("location_id", loc.ID),
		zap.Int("forecast_samples", forecast.Len()),
		zap.Int("actual_samples", actuals.Len()),
		zap.Int("png_bytes", len(img)),
	)

	return domain.ForecastChart{
		Location:    loc,
		Image:       base64.StdEncoding.EncodeToString(img),
		SeriesCount: len(series),
		Normalized:  loc.CapacityKW() > 0,
		PeakValue:   utils.RoundTo(peak, 2),
		GeneratedAt: s.now().UTC(),
	}, nil
}

// fail logs the underlying cause for operators and wraps it for the caller
func (s *ForecastService) fail(loc domain.Location, step string, err error) error {
	s.logger.Error("error generating forecast",
		zap.Int64("location_id", loc.ID),
		zap.String("step", step),
		zap.Error(err),
	)
	return fmt.Errorf("forecast: failed to %s for location %d: %w", step, loc.ID, err)
}

func peakOf(s domain.Series) float64 {
	var peak float64
	for _, smp := range s.Samples {
		if smp.Value > peak {
			peak = smp.Value
		}
	}
	return peak
}
