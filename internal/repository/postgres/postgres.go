package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/solarsite/backend/internal/domain"
)

const locationColumns = `id, name, api_key, latitude, longitude, capacity, created_at`

// PostgresRepository implements domain.LocationRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Backend names the storage implementation
func (r *PostgresRepository) Backend() string {
	return "postgres"
}

// Create inserts a location and returns the stored row
func (r *PostgresRepository) Create(ctx context.Context, in domain.LocationInput) (domain.Location, error) {
	query := `
		INSERT INTO locations (name, api_key, latitude, longitude, capacity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + locationColumns

	row := r.pool.QueryRow(ctx, query, in.Name, in.APIKey, in.Latitude, in.Longitude, in.Capacity)
	loc, err := scanLocation(row)
	if err != nil {
		return domain.Location{}, fmt.Errorf("postgres: failed to create location: %w", err)
	}

	return loc, nil
}

// Get returns a single location by id
func (r *PostgresRepository) Get(ctx context.Context, id int64) (domain.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`

	loc, err := scanLocation(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Location{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Location{}, fmt.Errorf("postgres: failed to get location %d: %w", id, err)
	}

	return loc, nil
}

// List returns every location ordered by id
func (r *PostgresRepository) List(ctx context.Context) ([]domain.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query locations: %w", err)
	}
	defer rows.Close()

	results := []domain.Location{}
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan location row: %w", err)
		}
		results = append(results, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate locations: %w", err)
	}

	return results, nil
}

// Update replaces all mutable fields in a single statement
func (r *PostgresRepository) Update(ctx context.Context, id int64, in domain.LocationInput) (domain.Location, error) {
	query := `
		UPDATE locations
		SET name = $2, api_key = $3, latitude = $4, longitude = $5, capacity = $6
		WHERE id = $1
		RETURNING ` + locationColumns

	row := r.pool.QueryRow(ctx, query, id, in.Name, in.APIKey, in.Latitude, in.Longitude, in.Capacity)
	loc, err := scanLocation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Location{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Location{}, fmt.Errorf("postgres: failed to update location %d: %w", id, err)
	}

	return loc, nil
}

// Delete removes a location by id
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete location %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Reset drops and recreates the schema, then inserts the seed rows
func (r *PostgresRepository) Reset(ctx context.Context, seed []domain.LocationInput) error {
	if _, err := r.pool.Exec(ctx, `DROP TABLE IF EXISTS locations, schema_migrations CASCADE`); err != nil {
		return fmt.Errorf("postgres: failed to drop tables: %w", err)
	}

	if err := Migrate(ctx, r.pool); err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: failed to start seed transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, in := range seed {
		_, err := tx.Exec(ctx,
			`INSERT INTO locations (name, api_key, latitude, longitude, capacity) VALUES ($1, $2, $3, $4, $5)`,
			in.Name, in.APIKey, in.Latitude, in.Longitude, in.Capacity,
		)
		if err != nil {
			return fmt.Errorf("postgres: failed to seed location %q: %w", in.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: failed to commit seed: %w", err)
	}

	return nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}

func scanLocation(row pgx.Row) (domain.Location, error) {
	var l domain.Location
	err := row.Scan(&l.ID, &l.Name, &l.APIKey, &l.Latitude, &l.Longitude, &l.Capacity, &l.CreatedAt)
	if err != nil {
		return domain.Location{}, err
	}
	l.CreatedAt = l.CreatedAt.UTC()
	return l, nil
}
