package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/models"
)

//
// --- Order Handlers ---
//

// GetMyOrders is the handler for GET /v1/orders
func (h *Handlers) GetMyOrders(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	orders, err := h.Store.Orders.ListForCustomer(c.Request.Context(), sess.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetMyOrder is the handler for GET /v1/orders/:id
// Another customer's order is reported as not found.
func (h *Handlers) GetMyOrder(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}

	order, err := h.Store.Orders.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if order.UserID != sess.UserID {
		h.respondError(c, apperr.NotFound(apperr.MsgOrderNotFound))
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// GetSellerOrders is the handler for GET /v1/seller/orders
// Each row is one order line carrying the seller's product.
func (h *Handlers) GetSellerOrders(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	lines, err := h.Store.Orders.SellerLines(c.Request.Context(), sess.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if lines == nil {
		lines = []models.SellerOrderLine{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": lines})
}
