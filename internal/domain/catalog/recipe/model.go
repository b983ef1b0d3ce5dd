// Package recipe provides the bill-of-materials catalog.
// One recipe per menu item; ingredient quantities are in recipe units.
package recipe

import (
	"context"

	"costline/internal/core/id"
)

// Ingredient is one line of a recipe.
type Ingredient struct {
	LineNo int     `db:"line_no" json:"lineNo"`
	ItemID id.ID   `db:"item_id" json:"itemId"`
	Qty    float64 `db:"qty" json:"qty"` // in the item's recipe unit, per one sold unit
}

// Recipe maps a menu item to its raw-ingredient consumption.
type Recipe struct {
	MenuItemID   id.ID        `db:"menu_item_id" json:"menuItemId"`
	MenuItemName string       `db:"menu_item_name" json:"menuItemName"`
	Ingredients  []Ingredient `db:"-" json:"ingredients"`
}

// Repository defines storage operations for recipes.
type Repository interface {
	List(ctx context.Context) ([]Recipe, error)
	GetByMenuItem(ctx context.Context, menuItemID id.ID) (*Recipe, error)
}
