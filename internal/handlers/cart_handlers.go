package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/pricing"
)

//
// --- Cart Handlers (Customer) ---
//

type AddToCartInput struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

type UpdateCartItemInput struct {
	// Zero or less removes the line.
	Quantity int `json:"quantity"`
}

// CartResponse is the cart plus a price breakdown for the selected options.
type CartResponse struct {
	Items      []models.CartItem `json:"items"`
	TotalItems int               `json:"totalItems"`
	Pricing    pricing.Breakdown `json:"pricing"`
}

func cartResponse(items []models.CartItem, shippingID, wrapID string) CartResponse {
	if items == nil {
		items = []models.CartItem{}
	}
	lines := make([]pricing.Line, 0, len(items))
	count := 0
	for _, it := range items {
		count += it.Quantity
		if it.Product != nil {
			lines = append(lines, pricing.Line{UnitPrice: it.Product.UnitPrice(), Quantity: it.Quantity})
		}
	}
	return CartResponse{
		Items:      items,
		TotalItems: count,
		Pricing:    pricing.Calculate(lines, shippingID, wrapID),
	}
}

// GetCart is the handler for GET /v1/cart?shipping=&wrap=
func (h *Handlers) GetCart(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	items, err := h.Store.Carts.List(c.Request.Context(), sess.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	shipping := c.DefaultQuery("shipping", pricing.ShippingStandard)
	wrap := c.DefaultQuery("wrap", pricing.WrapNone)
	c.JSON(http.StatusOK, cartResponse(items, shipping, wrap))
}

// AddToCart is the handler for POST /v1/cart/items
// Adding a product already in the cart increases its quantity.
func (h *Handlers) AddToCart(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var input AddToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	item, err := h.Store.Carts.AddItem(c.Request.Context(), sess.UserID, input.ProductID, input.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Item added to cart", "item": item})
}

// UpdateCartItem is the handler for PUT /v1/cart/items/:id
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	itemID, ok := h.idParam(c, "id")
	if !ok {
		return
	}

	var input UpdateCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	item, err := h.Store.Carts.UpdateQuantity(c.Request.Context(), sess.UserID, itemID, input.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if item == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart updated", "item": item})
}

// RemoveCartItem is the handler for DELETE /v1/cart/items/:id
func (h *Handlers) RemoveCartItem(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	itemID, ok := h.idParam(c, "id")
	if !ok {
		return
	}

	if err := h.Store.Carts.RemoveItem(c.Request.Context(), sess.UserID, itemID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}
