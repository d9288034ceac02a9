package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resto-tracker/internal/services"
)

// CatalogController handles HTTP requests for categories and menu items.
type CatalogController interface {
	ListCategories(c *gin.Context)
	AddCategory(c *gin.Context)
	DeleteCategory(c *gin.Context)
	ListItems(c *gin.Context)
	GetItem(c *gin.Context)
	AddItem(c *gin.Context)
	UpdateItem(c *gin.Context)
	DeleteItem(c *gin.Context)
}

type catalogController struct {
	catalog services.CatalogService
}

// NewCatalogController creates a new instance of CatalogController
func NewCatalogController(catalog services.CatalogService) CatalogController {
	return &catalogController{catalog: catalog}
}

type addCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type addItemRequest struct {
	Name       string `json:"name" binding:"required"`
	PriceCents int64  `json:"priceCents"`
	CategoryID uint   `json:"categoryId" binding:"required"`
}

type updateItemRequest struct {
	Name       *string `json:"name"`
	PriceCents *int64  `json:"priceCents"`
	CategoryID *uint   `json:"categoryId"`
	IsActive   *bool   `json:"isActive"`
}

// ListCategories godoc
// @Summary List categories
// @Tags catalog
// @Produce json
// @Success 200 {array} models.Category
// @Router /api/v1/public/categories [get]
func (cc *catalogController) ListCategories(ctx *gin.Context) {
	categories, err := cc.catalog.ListCategories()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, categories)
}

// AddCategory godoc
// @Summary Add a category
// @Tags catalog
// @Accept json
// @Produce json
// @Param category body addCategoryRequest true "Category"
// @Success 201 {object} models.Category
// @Failure 400 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/admin/categories [post]
func (cc *catalogController) AddCategory(ctx *gin.Context) {
	var req addCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid request body")
		return
	}

	category, err := cc.catalog.AddCategory(req.Name)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, category)
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Blocked while any item still references the category
// @Tags catalog
// @Produce json
// @Param id path int true "Category ID"
// @Success 204
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/admin/categories/{id} [delete]
func (cc *catalogController) DeleteCategory(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := cc.catalog.DeleteCategory(id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}

// ListItems godoc
// @Summary List menu items
// @Description Optional filtering by category and by active-only
// @Tags catalog
// @Produce json
// @Param category_id query int false "Filter by category"
// @Param active_only query bool false "Only active items"
// @Success 200 {array} models.MenuItem
// @Router /api/v1/public/items [get]
func (cc *catalogController) ListItems(ctx *gin.Context) {
	var filter services.ItemFilter
	if raw := ctx.Query("category_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondBadRequest(ctx, "Invalid category_id format")
			return
		}
		filter.CategoryID = uint(parsed)
	}
	if raw := ctx.Query("active_only"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondBadRequest(ctx, "Invalid active_only format")
			return
		}
		filter.ActiveOnly = parsed
	}

	items, err := cc.catalog.ListItems(filter)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, items)
}

// GetItem godoc
// @Summary Get a menu item by ID
// @Tags catalog
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} models.MenuItem
// @Failure 404 {object} models.APIError
// @Router /api/v1/public/items/{id} [get]
func (cc *catalogController) GetItem(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	item, err := cc.catalog.GetItem(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, item)
}

// AddItem godoc
// @Summary Add a menu item
// @Tags catalog
// @Accept json
// @Produce json
// @Param item body addItemRequest true "Item"
// @Success 201 {object} models.MenuItem
// @Failure 400 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/admin/items [post]
func (cc *catalogController) AddItem(ctx *gin.Context) {
	var req addItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid request body")
		return
	}

	item, err := cc.catalog.AddItem(req.Name, req.PriceCents, req.CategoryID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, item)
}

// UpdateItem godoc
// @Summary Update a menu item
// @Description Updates name, price, category or the active flag
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param item body updateItemRequest true "Fields to update"
// @Success 200 {object} models.MenuItem
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/admin/items/{id} [put]
func (cc *catalogController) UpdateItem(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req updateItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid request body")
		return
	}

	item, err := cc.catalog.UpdateItem(id, services.ItemUpdate{
		Name:       req.Name,
		PriceCents: req.PriceCents,
		CategoryID: req.CategoryID,
		IsActive:   req.IsActive,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, item)
}

// DeleteItem godoc
// @Summary Delete a menu item
// @Description Blocked while any order line references the item; ?name= deletes by name instead
// @Tags catalog
// @Produce json
// @Param id path string true "Item ID, or 'by-name' with the name query parameter"
// @Param name query string false "Item name (with /items/by-name)"
// @Success 204
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/admin/items/{id} [delete]
func (cc *catalogController) DeleteItem(ctx *gin.Context) {
	if ctx.Param("id") == "by-name" {
		name := ctx.Query("name")
		if name == "" {
			respondBadRequest(ctx, "Missing item name")
			return
		}
		if err := cc.catalog.DeleteItemByName(name); err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusNoContent, nil)
		return
	}

	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := cc.catalog.DeleteItem(id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}

// pathID parses the :id path parameter, responding with 400 on bad input.
func pathID(ctx *gin.Context) (uint, bool) {
	raw, exists := ctx.Params.Get("id")
	if !exists {
		respondBadRequest(ctx, "Missing id")
		return 0, false
	}
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		respondBadRequest(ctx, "Invalid id format")
		return 0, false
	}
	return uint(parsed), true
}
