// Package item provides the stock item catalog (raw ingredients and goods).
package item

import (
	"context"

	"costline/internal/core/apperror"
	"costline/internal/core/id"
	"costline/internal/core/types"
)

// StockItem is the master-data record for a stocked ingredient or good.
// AvgCost is the current weighted cost per stock unit. It is a single scalar,
// not a time series: historical ledger rows are valued with today's cost.
type StockItem struct {
	ID       id.ID  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Category string `db:"category" json:"category"`

	// StockUnit is the unit items are stored and counted in (kg, l, pcs).
	// RecipeUnit is the unit recipes are written in (g, ml, pcs).
	StockUnit  string `db:"stock_unit" json:"stockUnit"`
	RecipeUnit string `db:"recipe_unit" json:"recipeUnit"`

	// ConversionFactor converts recipe units to stock units
	// (e.g. 1000 when recipes use grams and stock is kept in kilograms).
	ConversionFactor float64 `db:"conversion_factor" json:"conversionFactor"`

	AvgCost      types.Money `db:"avg_cost" json:"avgCost"`
	CurrentStock float64     `db:"current_stock" json:"currentStock"`
	ReorderLevel float64     `db:"reorder_level" json:"reorderLevel"`
	MinLevel     float64     `db:"min_level" json:"minLevel"`

	Active bool `db:"active" json:"active"`
}

// EffectiveConversionFactor returns the recipe-to-stock unit ratio,
// defaulting to 1 when unset or non-positive.
func (s *StockItem) EffectiveConversionFactor() float64 {
	if s.ConversionFactor <= 0 {
		return 1
	}
	return s.ConversionFactor
}

// Validate checks master-data integrity.
func (s *StockItem) Validate(ctx context.Context) error {
	if s.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if s.StockUnit == "" {
		return apperror.NewValidation("stock unit is required").
			WithDetail("field", "stockUnit")
	}
	if s.AvgCost.IsNegative() {
		return apperror.NewValidation("average cost cannot be negative").
			WithDetail("field", "avgCost")
	}
	return nil
}

// NewStockItem creates an active stock item with generated ID.
func NewStockItem(name, category, stockUnit string) *StockItem {
	return &StockItem{
		ID:               id.New(),
		Name:             name,
		Category:         category,
		StockUnit:        stockUnit,
		RecipeUnit:       stockUnit,
		ConversionFactor: 1,
		Active:           true,
	}
}
