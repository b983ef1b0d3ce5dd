// Package catalog_repo provides PostgreSQL implementations for the
// catalog repositories.
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
	"costline/internal/domain/catalog/item"
	"costline/internal/infrastructure/storage/postgres"
)

const itemTable = "cat_stock_items"

var itemColumns = []string{
	"id", "name", "category",
	"stock_unit", "recipe_unit", "conversion_factor",
	"avg_cost", "current_stock", "reorder_level", "min_level",
	"active",
}

// ItemRepo implements item.Repository.
type ItemRepo struct {
	pool *postgres.Pool
}

// NewItemRepo creates a new stock item repository.
func NewItemRepo(pool *postgres.Pool) *ItemRepo {
	return &ItemRepo{pool: pool}
}

// GetByID returns one stock item.
func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (*item.StockItem, error) {
	q := postgres.Builder().
		Select(itemColumns...).
		From(itemTable).
		Where(squirrel.Eq{"id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var it item.StockItem
	if err := pgxscan.Get(ctx, r.pool, &it, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("stock item", itemID)
		}
		return nil, fmt.Errorf("get stock item: %w", err)
	}
	return &it, nil
}

// List returns stock items matching the filter, ordered by category and name.
func (r *ItemRepo) List(ctx context.Context, filter item.ListFilter) ([]item.StockItem, error) {
	q := postgres.Builder().
		Select(itemColumns...).
		From(itemTable).
		OrderBy("category", "name")

	if filter.Category != "" {
		q = q.Where(squirrel.Eq{"category": filter.Category})
	}
	if filter.OnlyActive {
		q = q.Where(squirrel.Eq{"active": true})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []item.StockItem
	if err := pgxscan.Select(ctx, r.pool, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}
	return items, nil
}

// Categories returns the distinct categories of active items.
func (r *ItemRepo) Categories(ctx context.Context) ([]string, error) {
	q := postgres.Builder().
		Select("DISTINCT category").
		From(itemTable).
		Where(squirrel.Eq{"active": true}).
		OrderBy("category")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var categories []string
	if err := pgxscan.Select(ctx, r.pool, &categories, sql, args...); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Ensure interface compliance
var _ item.Repository = (*ItemRepo)(nil)
