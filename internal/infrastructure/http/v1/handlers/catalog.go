package handlers

import (
	"github.com/gin-gonic/gin"

	"costline/internal/core/apperror"
	"costline/internal/core/id"
	"costline/internal/domain/catalog/item"
	"costline/internal/domain/catalog/location"
	"costline/internal/domain/catalog/recipe"
	"costline/internal/infrastructure/http/v1/dto"
)

// CatalogHandler serves the master-data read endpoints.
type CatalogHandler struct {
	*BaseHandler
	items     *item.Service
	locations location.Repository
	recipes   recipe.Repository
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(items *item.Service, locations location.Repository, recipes recipe.Repository) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: NewBaseHandler(),
		items:       items,
		locations:   locations,
		recipes:     recipes,
	}
}

// ListItems returns stock items.
// GET /api/v1/catalog/items?category=&onlyActive=&limit=&offset=
func (h *CatalogHandler) ListItems(c *gin.Context) {
	var q dto.ItemListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	items, err := h.items.List(c.Request.Context(), item.ListFilter{
		Category:   q.Category,
		OnlyActive: q.OnlyActive,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(items))
}

// GetItem returns one stock item.
// GET /api/v1/catalog/items/:id
func (h *CatalogHandler) GetItem(c *gin.Context) {
	itemID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid item id").WithDetail("id", c.Param("id")))
		return
	}

	it, err := h.items.Get(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, it)
}

// Categories returns the distinct item categories.
// GET /api/v1/catalog/categories
func (h *CatalogHandler) Categories(c *gin.Context) {
	categories, err := h.items.Categories(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(categories))
}

// ListLocations returns active branches and warehouses.
// GET /api/v1/catalog/locations?kind=
func (h *CatalogHandler) ListLocations(c *gin.Context) {
	var q dto.LocationListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	kind := location.Kind(q.Kind)
	if kind != "" && kind != location.KindBranch && kind != location.KindWarehouse {
		h.Error(c, apperror.NewValidation("invalid location kind").WithDetail("kind", q.Kind))
		return
	}

	locations, err := h.locations.List(c.Request.Context(), kind)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(locations))
}

// ListRecipes returns every recipe with its ingredients.
// GET /api/v1/catalog/recipes
func (h *CatalogHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.recipes.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(recipes))
}

// GetRecipe returns the recipe for one menu item.
// GET /api/v1/catalog/recipes/:menuItemId
func (h *CatalogHandler) GetRecipe(c *gin.Context) {
	menuItemID, err := id.Parse(c.Param("menuItemId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid menu item id").WithDetail("id", c.Param("menuItemId")))
		return
	}

	r, err := h.recipes.GetByMenuItem(c.Request.Context(), menuItemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, r)
}
