package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"costline/internal/core/apperror"
	"costline/internal/core/id"
	"costline/internal/domain/catalog/location"
	"costline/internal/infrastructure/storage/postgres"
)

const locationTable = "cat_locations"

var locationColumns = []string{"id", "kind", "name", "code", "active"}

// LocationRepo implements location.Repository.
type LocationRepo struct {
	pool *postgres.Pool
}

// NewLocationRepo creates a new location repository.
func NewLocationRepo(pool *postgres.Pool) *LocationRepo {
	return &LocationRepo{pool: pool}
}

// List returns active locations, optionally narrowed to one kind.
func (r *LocationRepo) List(ctx context.Context, kind location.Kind) ([]location.Location, error) {
	q := postgres.Builder().
		Select(locationColumns...).
		From(locationTable).
		Where(squirrel.Eq{"active": true}).
		OrderBy("name")

	if kind != "" {
		q = q.Where(squirrel.Eq{"kind": kind})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var locations []location.Location
	if err := pgxscan.Select(ctx, r.pool, &locations, sql, args...); err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return locations, nil
}

// GetByID returns one location.
func (r *LocationRepo) GetByID(ctx context.Context, locID id.ID) (*location.Location, error) {
	q := postgres.Builder().
		Select(locationColumns...).
		From(locationTable).
		Where(squirrel.Eq{"id": locID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var loc location.Location
	if err := pgxscan.Get(ctx, r.pool, &loc, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("location", locID)
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &loc, nil
}

// Ensure interface compliance
var _ location.Repository = (*LocationRepo)(nil)
