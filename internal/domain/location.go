package domain

import "time"

// Location is a persisted solar site with its Solcast credential
type Location struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	APIKey    string    `json:"api_key"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Capacity  *float64  `json:"capacity,omitempty"` // rated kW, optional
	CreatedAt time.Time `json:"created_at"`
}

// LocationInput carries the mutable fields of a Location.
// Updates replace all of them at once.
type LocationInput struct {
	Name      string
	APIKey    string
	Latitude  float64
	Longitude float64
	Capacity  *float64
}

// LocationSummary is the list view of a Location; the credential is left out
type LocationSummary struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Capacity  *float64 `json:"capacity,omitempty"`
}

// Summary returns the list view of l
func (l Location) Summary() LocationSummary {
	return LocationSummary{
		ID:        l.ID,
		Name:      l.Name,
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Capacity:  l.Capacity,
	}
}

// CapacityKW returns the rated capacity, or 0 when none is set
func (l Location) CapacityKW() float64 {
	if l.Capacity == nil {
		return 0
	}
	return *l.Capacity
}

// SampleLocations are the rows written by the database bootstrap
var SampleLocations = []LocationInput{
	{Name: "New York", APIKey: "sample_key_1", Latitude: 40.7128, Longitude: -74.0060},
	{Name: "London", APIKey: "sample_key_2", Latitude: 51.5074, Longitude: -0.1278},
	{Name: "Tokyo", APIKey: "sample_key_3", Latitude: 35.6762, Longitude: 139.6503},
	{Name: "Sydney", APIKey: "sample_key_4", Latitude: -33.8688, Longitude: 151.2093},
	{Name: "Rio de Janeiro", APIKey: "sample_key_5", Latitude: -22.9068, Longitude: -43.1729},
}
