package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/checkout"
	"github.com/01moynul/storefront-golang/internal/pricing"
)

//
// --- Checkout Handlers ---
//

// maxWebhookBody caps what we read from the gateway; real events are a few KB.
const maxWebhookBody = 64 << 10

// GetCheckoutOptions is the handler for GET /v1/checkout/options
func (h *Handlers) GetCheckoutOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"shipping":          pricing.ShippingOptions(),
		"wrapping":          pricing.WrapOptions(),
		"maxGiftMessageLen": pricing.MaxGiftMessageLen,
	})
}

// Checkout is the handler for POST /v1/checkout
// Cash orders come back as placed (201); card orders return the hosted payment URL.
func (h *Handlers) Checkout(c *gin.Context) {
	// 1. --- Session & input ---
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req checkout.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	// 2. --- Run checkout ---
	out, err := h.Dispatcher.Checkout(c.Request.Context(), sess, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 3. --- Respond per outcome ---
	switch o := out.(type) {
	case checkout.Placed:
		c.JSON(http.StatusCreated, gin.H{
			"message": "Order placed successfully",
			"status":  "placed",
			"orderId": o.OrderID,
		})
	case checkout.AwaitingGatewayRedirect:
		c.JSON(http.StatusOK, gin.H{
			"status":  "redirect",
			"orderId": o.OrderID,
			"url":     o.URL,
		})
	}
}

func (h *Handlers) orderIDQuery(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Query("orderId"), 10, 64)
	if err != nil || id <= 0 {
		h.respondError(c, apperr.ValidationMsg("orderId", "Invalid orderId"))
		return 0, false
	}
	return id, true
}

// CheckoutSuccess is the handler for GET /v1/checkout/success?orderId=&session_id=
// The storefront calls it when the gateway sends the customer back.
func (h *Handlers) CheckoutSuccess(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	orderID, ok := h.orderIDQuery(c)
	if !ok {
		return
	}

	order, err := h.Dispatcher.ConfirmSession(c.Request.Context(), sess.UserID, orderID, c.Query("session_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment confirmed", "order": order})
}

// CheckoutCancel is the handler for GET /v1/checkout/cancel?orderId=
func (h *Handlers) CheckoutCancel(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	orderID, ok := h.orderIDQuery(c)
	if !ok {
		return
	}

	if err := h.Dispatcher.CancelPayment(c.Request.Context(), sess.UserID, orderID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled"})
}

// StripeWebhook is the handler for POST /v1/webhooks/stripe
// It is unauthenticated; the payload signature is the credential.
func (h *Handlers) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.badRequest(c, err)
		return
	}

	if err := h.Dispatcher.ConfirmWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
