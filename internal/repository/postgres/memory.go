package postgres

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/solarsite/backend/internal/domain"
)

// MemoryRepository implements domain.LocationRepository in process memory.
// Used when no database is reachable and in tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]domain.Location
	now    func() time.Time
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		rows:   make(map[int64]domain.Location),
		now:    time.Now,
	}
}

// Backend names the storage implementation
func (r *MemoryRepository) Backend() string {
	return "memory"
}

// Create stores a location under a fresh id; ids are never reused
func (r *MemoryRepository) Create(ctx context.Context, in domain.LocationInput) (domain.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	loc := r.build(r.nextID, in, r.now().UTC())
	r.rows[loc.ID] = loc
	r.nextID++

	return copyLocation(loc), nil
}

// Get returns a copy of the stored location
func (r *MemoryRepository) Get(ctx context.Context, id int64) (domain.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loc, ok := r.rows[id]
	if !ok {
		return domain.Location{}, domain.ErrNotFound
	}
	return copyLocation(loc), nil
}

// List returns all locations ordered by id
func (r *MemoryRepository) List(ctx context.Context) ([]domain.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]domain.Location, 0, len(r.rows))
	for _, loc := range r.rows {
		results = append(results, copyLocation(loc))
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })

	return results, nil
}

// Update swaps the whole record under the write lock
func (r *MemoryRepository) Update(ctx context.Context, id int64, in domain.LocationInput) (domain.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.rows[id]
	if !ok {
		return domain.Location{}, domain.ErrNotFound
	}

	loc := r.build(id, in, old.CreatedAt)
	r.rows[id] = loc

	return copyLocation(loc), nil
}

// Delete removes a location
func (r *MemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, id)

	return nil
}

// Reset clears all rows, restarts ids and inserts the seed rows
func (r *MemoryRepository) Reset(ctx context.Context, seed []domain.LocationInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rows = make(map[int64]domain.Location, len(seed))
	r.nextID = 1
	now := r.now().UTC()
	for _, in := range seed {
		loc := r.build(r.nextID, in, now)
		r.rows[loc.ID] = loc
		r.nextID++
	}

	return nil
}

// Health always returns nil for the in-memory store
func (r *MemoryRepository) Health(ctx context.Context) error {
	return nil
}

func (r *MemoryRepository) build(id int64, in domain.LocationInput, createdAt time.Time) domain.Location {
	loc := domain.Location{
		ID:        id,
		Name:      in.Name,
		APIKey:    in.APIKey,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		CreatedAt: createdAt,
	}
	if in.Capacity != nil {
		c := *in.Capacity
		loc.Capacity = &c
	}
	return loc
}

// copyLocation detaches the capacity pointer from the stored row
func copyLocation(l domain.Location) domain.Location {
	if l.Capacity != nil {
		c := *l.Capacity
		l.Capacity = &c
	}
	return l
}
