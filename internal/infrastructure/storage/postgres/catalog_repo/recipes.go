package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"costline/internal/core/apperror"
	"costline/internal/core/id"
	"costline/internal/domain/catalog/recipe"
	"costline/internal/infrastructure/storage/postgres"
)

const (
	recipeTable     = "cat_recipes"
	recipeLineTable = "cat_recipe_lines"
)

// RecipeRepo implements recipe.Repository.
type RecipeRepo struct {
	pool *postgres.Pool
}

// NewRecipeRepo creates a new recipe repository.
func NewRecipeRepo(pool *postgres.Pool) *RecipeRepo {
	return &RecipeRepo{pool: pool}
}

// recipeLineRow joins a recipe line to its head for stitching.
type recipeLineRow struct {
	MenuItemID id.ID   `db:"menu_item_id"`
	LineNo     int     `db:"line_no"`
	ItemID     id.ID   `db:"item_id"`
	Qty        float64 `db:"qty"`
}

// List returns every recipe with its ingredient lines.
func (r *RecipeRepo) List(ctx context.Context) ([]recipe.Recipe, error) {
	q := postgres.Builder().
		Select("menu_item_id", "menu_item_name").
		From(recipeTable).
		OrderBy("menu_item_name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var heads []recipe.Recipe
	if err := pgxscan.Select(ctx, r.pool, &heads, sql, args...); err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	if len(heads) == 0 {
		return heads, nil
	}

	lq := postgres.Builder().
		Select("menu_item_id", "line_no", "item_id", "qty").
		From(recipeLineTable).
		OrderBy("menu_item_id", "line_no")

	sql, args, err = lq.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []recipeLineRow
	if err := pgxscan.Select(ctx, r.pool, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("list recipe lines: %w", err)
	}

	byMenuItem := make(map[id.ID]*recipe.Recipe, len(heads))
	for i := range heads {
		byMenuItem[heads[i].MenuItemID] = &heads[i]
	}
	for _, l := range lines {
		head, ok := byMenuItem[l.MenuItemID]
		if !ok {
			continue
		}
		head.Ingredients = append(head.Ingredients, recipe.Ingredient{
			LineNo: l.LineNo,
			ItemID: l.ItemID,
			Qty:    l.Qty,
		})
	}

	return heads, nil
}

// GetByMenuItem returns the recipe for one menu item.
func (r *RecipeRepo) GetByMenuItem(ctx context.Context, menuItemID id.ID) (*recipe.Recipe, error) {
	q := postgres.Builder().
		Select("menu_item_id", "menu_item_name").
		From(recipeTable).
		Where(squirrel.Eq{"menu_item_id": menuItemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var head recipe.Recipe
	if err := pgxscan.Get(ctx, r.pool, &head, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("recipe", menuItemID)
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}

	lq := postgres.Builder().
		Select("line_no", "item_id", "qty").
		From(recipeLineTable).
		Where(squirrel.Eq{"menu_item_id": menuItemID}).
		OrderBy("line_no")

	sql, args, err = lq.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, r.pool, &head.Ingredients, sql, args...); err != nil {
		return nil, fmt.Errorf("get recipe lines: %w", err)
	}

	return &head, nil
}

// Ensure interface compliance
var _ recipe.Repository = (*RecipeRepo)(nil)
