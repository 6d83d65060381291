package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/01moynul/storefront-golang/internal/models"
)

//
// --- Admin: Product Moderation Handlers ---
//

// GetUnpublishedProducts is the handler for GET /v1/admin/products/unpublished
func (h *Handlers) GetUnpublishedProducts(c *gin.Context) {
	products, err := h.Store.Products.ListUnpublished(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// PublishProduct is the handler for PATCH /v1/admin/products/:id/publish
func (h *Handlers) PublishProduct(c *gin.Context) {
	h.setPublished(c, true)
}

// UnpublishProduct is the handler for PATCH /v1/admin/products/:id/unpublish
func (h *Handlers) UnpublishProduct(c *gin.Context) {
	h.setPublished(c, false)
}

func (h *Handlers) setPublished(c *gin.Context, published bool) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	// 1. --- Update ---
	product, err := h.Store.Products.SetPublished(ctx, id, published)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 2. --- Tell the seller ---
	// The change is already saved; a failed notification is only logged.
	msg := fmt.Sprintf("Your product %q is now live", product.Name)
	if !published {
		msg = fmt.Sprintf("Your product %q was unpublished by an admin", product.Name)
	}
	if err := h.Store.Notifications.Add(ctx, product.SellerID, msg, "/seller/products"); err != nil {
		h.Logger.Error("seller notification failed", zap.Int64("product_id", id), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated", "product": product})
}

//
// --- Admin: User Handlers ---
//

type SetRoleInput struct {
	Role models.Role `json:"role" binding:"required"`
}

// SetUserRole is the handler for PATCH /v1/admin/users/:id/role
func (h *Handlers) SetUserRole(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var input SetRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	user, err := h.Store.Users.SetRole(c.Request.Context(), id, input.Role)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.Logger.Info("user role changed", zap.Int64("user_id", id), zap.String("role", string(user.Role)))
	c.JSON(http.StatusOK, gin.H{"message": "Role updated", "user": user})
}
