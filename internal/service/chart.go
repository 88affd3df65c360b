package service

import (
	"bytes"
	"fmt"

	"github.com/solarsite/backend/internal/domain"
	"github.com/solarsite/backend/pkg/utils"
	"github.com/wcharczuk/go-chart/v2"
)

const (
	chartWidth  = 1200
	chartHeight = 600

	labelKW      = "PV Power (kW)"
	labelPercent = "PV Power (% of capacity)"
)

// ChartRenderer draws forecast series into a PNG
type ChartRenderer struct {
	width  int
	height int
}

// NewChartRenderer creates a renderer with the default 1200x600 canvas
func NewChartRenderer() *ChartRenderer {
	return &ChartRenderer{width: chartWidth, height: chartHeight}
}

// NormalizeSeries converts power values to percent of rated capacity.
// A non-positive capacity leaves the values untouched.
func NormalizeSeries(s domain.Series, capacity float64) domain.Series {
	out := domain.Series{
		Name:    s.Name,
		Unit:    s.Unit,
		Samples: make([]domain.Sample, len(s.Samples)),
	}
	copy(out.Samples, s.Samples)

	if capacity <= 0 {
		return out
	}

	out.Unit = "%"
	for i := range out.Samples {
		out.Samples[i].Value = utils.PercentOf(out.Samples[i].Value, capacity)
	}
	return out
}

// Render plots one or two series against a shared time axis and returns PNG bytes
func (r *ChartRenderer) Render(title string, capacity float64, series ...domain.Series) ([]byte, error) {
	if len(series) == 0 || len(series) > 2 {
		return nil, fmt.Errorf("%w: expected one or two series, got %d", domain.ErrRender, len(series))
	}

	yLabel := labelKW
	if capacity > 0 {
		yLabel = labelPercent
	}

	plotted := make([]chart.Series, 0, len(series))
	for _, s := range series {
		if s.Len() == 0 {
			return nil, fmt.Errorf("%w: series %q is empty", domain.ErrRender, s.Name)
		}

		norm := NormalizeSeries(s, capacity)
		plotted = append(plotted, chart.TimeSeries{
			Name:    norm.Name,
			XValues: norm.Times(),
			YValues: norm.Values(),
			Style: chart.Style{
				StrokeWidth: 2,
			},
		})
	}

	graph := chart.Chart{
		Title:  title,
		Width:  r.width,
		Height: r.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           "Time",
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 02 15:04"),
			TickStyle: chart.Style{
				TextRotationDegrees: 45.0,
			},
		},
		YAxis: chart.YAxis{
			Name: yLabel,
		},
		Series: plotted,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRender, err)
	}

	return buf.Bytes(), nil
}
