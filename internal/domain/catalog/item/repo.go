package item

import (
	"context"

	"costline/internal/core/id"
)

// ListFilter narrows List results.
type ListFilter struct {
	Category   string
	OnlyActive bool
	Limit      int
	Offset     int
}

// Repository defines storage operations for stock items.
type Repository interface {
	GetByID(ctx context.Context, itemID id.ID) (*StockItem, error)
	List(ctx context.Context, filter ListFilter) ([]StockItem, error)
	Categories(ctx context.Context) ([]string, error)
}
