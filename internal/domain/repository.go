package domain

import (
	"context"
	"time"
)

// HealthStatus is the last known state of the location store
type HealthStatus struct {
	Healthy   bool      `json:"healthy"`
	Backend   string    `json:"backend"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// LocationRepository defines the interface for location persistence
// This follows the Dependency Inversion Principle - domain defines the interface
type LocationRepository interface {
	// Create stores a new location and returns it with id and created_at set
	Create(ctx context.Context, in LocationInput) (Location, error)

	// Get returns a single location or ErrNotFound
	Get(ctx context.Context, id int64) (Location, error)

	// List returns all locations ordered by id
	List(ctx context.Context) ([]Location, error)

	// Update replaces every mutable field of a location, or returns ErrNotFound
	Update(ctx context.Context, id int64, in LocationInput) (Location, error)

	// Delete removes a location, or returns ErrNotFound
	Delete(ctx context.Context, id int64) error

	// Reset drops all data and writes the given seed rows
	Reset(ctx context.Context, seed []LocationInput) error

	// Health checks store connectivity
	Health(ctx context.Context) error

	// Backend names the storage implementation
	Backend() string
}
