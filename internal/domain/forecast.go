package domain

import "time"

// Series names used on the chart legend
const (
	SeriesForecast         = "Forecast"
	SeriesEstimatedActuals = "Estimated Actuals"
)

// Sample is a single point of a Series
type Sample struct {
	Time  time.Time `json:"period_end"` // always UTC
	Value float64   `json:"pv_estimate"`
}

// Series is a chronologically ordered sequence of samples for one upstream request.
// Gaps between samples are allowed.
type Series struct {
	Name    string   `json:"name"`
	Unit    string   `json:"unit"`
	Samples []Sample `json:"samples"`
}

// Len returns the number of samples
func (s Series) Len() int {
	return len(s.Samples)
}

// Times returns the sample timestamps in order
func (s Series) Times() []time.Time {
	out := make([]time.Time, len(s.Samples))
	for i, smp := range s.Samples {
		out[i] = smp.Time
	}
	return out
}

// Values returns the sample values in order
func (s Series) Values() []float64 {
	out := make([]float64, len(s.Samples))
	for i, smp := range s.Samples {
		out[i] = smp.Value
	}
	return out
}

// Site is what the forecast client needs to know about a Location
type Site struct {
	APIKey    string
	Latitude  float64
	Longitude float64
	Capacity  float64 // kW; 0 means unknown
}

// TimeWindow is an inclusive [Start, End] interval
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies inside the window, bounds included
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// TrailingWindow returns the window of length d ending at end, in UTC
func TrailingWindow(end time.Time, d time.Duration) TimeWindow {
	end = end.UTC()
	return TimeWindow{Start: end.Add(-d), End: end}
}

// ForecastChart is the result of a successful forecast pipeline run
type ForecastChart struct {
	Location    Location  `json:"location"`
	Image       string    `json:"image"` // base64 PNG
	SeriesCount int       `json:"series_count"`
	Normalized  bool      `json:"normalized"`
	PeakValue   float64   `json:"peak_value"` // forecast peak, in kW or percent when normalized
	GeneratedAt time.Time `json:"generated_at"`
}
