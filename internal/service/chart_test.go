package service

import (
	"bytes"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/solarsite/backend/internal/domain"
)

func testSeries(name string, start time.Time, values ...float64) domain.Series {
	s := domain.Series{Name: name, Unit: "kW"}
	for i, v := range values {
		s.Samples = append(s.Samples, domain.Sample{Time: start.Add(time.Duration(i) * 30 * time.Minute), Value: v})
	}
	return s
}

func TestNormalizeSeries(t *testing.T) {
	start := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	in := testSeries(domain.SeriesForecast, start, 0, 1.25, 2.5, 5, 3.3)
	const capacity = 5.0

	out := NormalizeSeries(in, capacity)

	if out.Unit != "%" {
		t.Errorf("Expected unit %%, got %s", out.Unit)
	}
	for i, smp := range out.Samples {
		want := in.Samples[i].Value / capacity * 100
		if math.Abs(smp.Value-want) > 1e-9 {
			t.Errorf("Sample %d: expected %v, got %v", i, want, smp.Value)
		}
		if !smp.Time.Equal(in.Samples[i].Time) {
			t.Errorf("Sample %d: timestamp changed", i)
		}
	}
	if in.Samples[1].Value != 1.25 {
		t.Error("NormalizeSeries modified its input")
	}
}

func TestNormalizeSeriesWithoutCapacity(t *testing.T) {
	in := testSeries(domain.SeriesForecast, time.Now().UTC(), 1, 2, 3)

	out := NormalizeSeries(in, 0)

	for i := range out.Samples {
		if out.Samples[i].Value != in.Samples[i].Value {
			t.Errorf("Sample %d changed without capacity: %v", i, out.Samples[i].Value)
		}
	}
	if out.Unit != "kW" {
		t.Errorf("Expected unit kW, got %s", out.Unit)
	}
}

func TestRenderProducesPNG(t *testing.T) {
	start := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	forecast := testSeries(domain.SeriesForecast, start, 0, 1, 2.5, 3, 1.5, 0.2)
	actuals := testSeries(domain.SeriesEstimatedActuals, start.Add(-3*time.Hour), 0.5, 1.2, 2, 1)

	img, err := NewChartRenderer().Render("PV Power Forecast", 5, forecast, actuals)
	if err != nil {
		t.Fatalf("Failed to render: %v", err)
	}
	if !bytes.HasPrefix(img, []byte("\x89PNG\r\n\x1a\n")) {
		t.Errorf("Output is not a PNG")
	}
}

func TestRenderRejectsMalformedInput(t *testing.T) {
	r := NewChartRenderer()
	start := time.Now().UTC()

	tests := []struct {
		name   string
		series []domain.Series
	}{
		{"no series", nil},
		{"empty series", []domain.Series{{Name: domain.SeriesForecast}}},
		{"three series", []domain.Series{
			testSeries("a", start, 1, 2),
			testSeries("b", start, 1, 2),
			testSeries("c", start, 1, 2),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Render("x", 0, tt.series...); !errors.Is(err, domain.ErrRender) {
				t.Errorf("Expected ErrRender, got %v", err)
			}
		})
	}
}
