package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront-golang/internal/models"
)

// --- Category Handlers ---

type CreateCategoryInput struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// CreateCategory is the handler for POST /v1/seller/categories
// Names are stored lowercased, so "Sarees" and "sarees" are the same category.
func (h *Handlers) CreateCategory(c *gin.Context) {
	var input CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	category, err := h.Store.Categories.Create(c.Request.Context(), input.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Category created", "category": category})
}

// GetAllCategories is the handler for GET /v1/categories and GET /v1/seller/categories
func (h *Handlers) GetAllCategories(c *gin.Context) {
	categories, err := h.Store.Categories.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategoryProducts is the handler for GET /v1/categories/:id/products
func (h *Handlers) GetCategoryProducts(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	category, err := h.Store.Categories.Get(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	products, err := h.Store.Products.ListByCategory(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"category": category, "products": products})
}
