package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/store"
)

const (
	defaultPageSize = 8
	maxPageSize     = 50
)

//
// --- Catalog Handlers (Public) ---
//

// SearchProducts is the handler for GET /v1/products?q=&page=&limit=
func (h *Handlers) SearchProducts(c *gin.Context) {
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := queryInt(c, "limit", defaultPageSize)
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}

	products, total, err := h.Store.Products.Search(c.Request.Context(), c.Query("q"), page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, gin.H{
		"products":   products,
		"totalCount": total,
		"page":       page,
		"limit":      limit,
	})
}

// GetProduct is the handler for GET /v1/products/:id
// Unpublished products are not visible to the public.
func (h *Handlers) GetProduct(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	product, err := h.Store.Products.Get(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !product.IsPublished {
		h.respondError(c, apperr.NotFound(apperr.MsgProductNotFound))
		return
	}

	reviews, err := h.Store.Reviews.ListForProduct(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}

	c.JSON(http.StatusOK, gin.H{"product": models.ProductDetail{
		Product:       *product,
		Reviews:       reviews,
		AverageRating: store.AverageRating(reviews),
	}})
}

//
// --- Seller Product Handlers ---
//

// CreateProduct is the handler for POST /v1/seller/products
// New products wait for admin approval before they are listed.
func (h *Handlers) CreateProduct(c *gin.Context) {
	// 1. --- Session & input ---
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var input models.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}
	ctx := c.Request.Context()

	// 2. --- Resolve category by name ---
	category, err := h.Store.Categories.GetByName(ctx, input.Category)
	if apperr.Is(err, apperr.KindNotFound) {
		h.respondError(c, apperr.ValidationMsg("category", apperr.MsgCategoryNotFound))
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 3. --- Validate & convert prices ---
	product, err := input.ToProduct(sess.UserID, category.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 4. --- Save ---
	id, err := h.Store.Products.Create(ctx, product)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.Logger.Info("product created", zap.Int64("product_id", id), zap.Int64("seller_id", sess.UserID))

	created, err := h.Store.Products.Get(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product submitted for review", "product": created})
}

// GetMyProducts is the handler for GET /v1/seller/products
func (h *Handlers) GetMyProducts(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	products, err := h.Store.Products.ListBySeller(c.Request.Context(), sess.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// DeleteProduct is the handler for DELETE /v1/seller/products/:id
func (h *Handlers) DeleteProduct(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}

	deleted, err := h.Store.Products.DeleteForSeller(c.Request.Context(), sess.UserID, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusOK, gin.H{"message": "Product has orders and was unpublished instead", "deleted": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully", "deleted": true})
}
