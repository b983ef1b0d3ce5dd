package item

import (
	"context"
	"fmt"

	"costline/internal/core/id"
)

// Service provides read operations over the stock item catalog.
type Service struct {
	repo Repository
}

// NewService creates a new stock item service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns a single stock item.
func (s *Service) Get(ctx context.Context, itemID id.ID) (*StockItem, error) {
	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get stock item: %w", err)
	}
	return it, nil
}

// List returns stock items matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]StockItem, error) {
	if filter.Limit <= 0 {
		filter.Limit = 200
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}
	return items, nil
}

// Categories returns the distinct item categories for filter dropdowns.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	cats, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}
