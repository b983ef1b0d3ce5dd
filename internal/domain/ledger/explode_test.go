package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costline/internal/core/id"
	"costline/internal/core/types"
	"costline/internal/domain/catalog/item"
	"costline/internal/domain/catalog/recipe"
)

func TestExplodeConvertsRecipeUnits(t *testing.T) {
	beef := item.StockItem{
		ID:               id.New(),
		Name:             "Ground Beef",
		StockUnit:        "kg",
		RecipeUnit:       "g",
		ConversionFactor: 1000,
		AvgCost:          types.NewMoney(9.5),
		Active:           true,
	}
	bun := item.StockItem{
		ID:               id.New(),
		Name:             "Burger Bun",
		StockUnit:        "pcs",
		RecipeUnit:       "pcs",
		ConversionFactor: 1,
		Active:           true,
	}
	burger := id.New()

	e := NewExploder([]recipe.Recipe{{
		MenuItemID: burger,
		Ingredients: []recipe.Ingredient{
			{LineNo: 1, ItemID: beef.ID, Qty: 180}, // grams per burger
			{LineNo: 2, ItemID: bun.ID, Qty: 1},
		},
	}}, []item.StockItem{beef, bun})

	out := e.Explode(burger, 10)
	require.Len(t, out, 2)
	assert.Equal(t, beef.ID, out[0].ItemID)
	assert.InDelta(t, 1.8, out[0].Qty, 1e-9) // 10 * 180g = 1.8kg
	assert.Equal(t, bun.ID, out[1].ItemID)
	assert.InDelta(t, 10, out[1].Qty, 1e-9)
}

func TestExplodeNoRecipe(t *testing.T) {
	e := NewExploder(nil, nil)
	assert.Nil(t, e.Explode(id.New(), 5))
}

func TestExplodeUnknownIngredientItem(t *testing.T) {
	ghost := id.New()
	menuItem := id.New()

	e := NewExploder([]recipe.Recipe{{
		MenuItemID:  menuItem,
		Ingredients: []recipe.Ingredient{{LineNo: 1, ItemID: ghost, Qty: 4}},
	}}, nil)

	// Unknown stock item falls back to conversion factor 1.
	out := e.Explode(menuItem, 3)
	require.Len(t, out, 1)
	assert.InDelta(t, 12, out[0].Qty, 1e-9)
}

func TestExplodeNonPositiveFactorDefaultsToOne(t *testing.T) {
	broken := item.StockItem{ID: id.New(), Name: "Broken", StockUnit: "kg", Active: true}
	menuItem := id.New()

	e := NewExploder([]recipe.Recipe{{
		MenuItemID:  menuItem,
		Ingredients: []recipe.Ingredient{{LineNo: 1, ItemID: broken.ID, Qty: 2}},
	}}, []item.StockItem{broken})

	out := e.Explode(menuItem, 7)
	require.Len(t, out, 1)
	assert.InDelta(t, 14, out[0].Qty, 1e-9)
}
