package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront-golang/internal/models"
)

//
// --- Address Handlers (Customer) ---
//

// GetMyAddresses is the handler for GET /v1/addresses
// selectedId is the address checkout will use; a customer with exactly one
// address has it selected implicitly.
func (h *Handlers) GetMyAddresses(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	addrs, err := h.Store.Addresses.ListForCustomer(c.Request.Context(), sess.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if addrs == nil {
		addrs = []models.Address{}
	}

	resp := gin.H{"addresses": addrs, "selectedId": nil}
	if id, ok := models.ActiveAddress(addrs); ok {
		resp["selectedId"] = id
	}
	c.JSON(http.StatusOK, resp)
}

// CreateAddress is the handler for POST /v1/addresses
func (h *Handlers) CreateAddress(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var input models.AddressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	addr, err := h.Store.Addresses.Add(c.Request.Context(), sess.UserID, input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Address saved", "address": addr})
}

// UpdateAddress is the handler for PUT /v1/addresses/:id
func (h *Handlers) UpdateAddress(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}

	var input models.AddressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	addr, err := h.Store.Addresses.Update(c.Request.Context(), sess.UserID, id, input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Address updated", "address": addr})
}

// SelectAddress is the handler for POST /v1/addresses/:id/select
func (h *Handlers) SelectAddress(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}

	addr, err := h.Store.Addresses.Select(c.Request.Context(), sess.UserID, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Address selected", "address": addr})
}
