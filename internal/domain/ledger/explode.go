package ledger

import (
	"costline/internal/core/id"
	"costline/internal/domain/catalog/item"
	"costline/internal/domain/catalog/recipe"
)

// Consumption is a raw-ingredient quantity in stock units.
type Consumption struct {
	ItemID id.ID
	Qty    float64
}

// Exploder resolves sold menu-item quantities into raw-ingredient
// consumption via the bill of materials. Ingredient quantities are
// recipe-unit values; the exploder divides by each item's conversion
// factor to land in stock units.
type Exploder struct {
	recipes map[id.ID]recipe.Recipe
	factors map[id.ID]float64
}

// NewExploder indexes recipes and conversion factors from the snapshot.
func NewExploder(recipes []recipe.Recipe, items []item.StockItem) *Exploder {
	e := &Exploder{
		recipes: make(map[id.ID]recipe.Recipe, len(recipes)),
		factors: make(map[id.ID]float64, len(items)),
	}
	for _, r := range recipes {
		e.recipes[r.MenuItemID] = r
	}
	for i := range items {
		e.factors[items[i].ID] = items[i].EffectiveConversionFactor()
	}
	return e
}

// Explode returns the raw-ingredient consumption for selling qty units
// of a menu item. A menu item with no recipe contributes nothing; an
// ingredient pointing at an unknown stock item falls back to conversion
// factor 1. Missing references never abort a report.
func (e *Exploder) Explode(menuItemID id.ID, qty float64) []Consumption {
	r, ok := e.recipes[menuItemID]
	if !ok {
		return nil
	}

	out := make([]Consumption, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		factor, ok := e.factors[ing.ItemID]
		if !ok || factor <= 0 {
			factor = 1
		}
		out = append(out, Consumption{
			ItemID: ing.ItemID,
			Qty:    qty * ing.Qty / factor,
		})
	}
	return out
}
