package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

//
// --- Seller Dashboard Stats ---
//

// GetSellerStats returns KPI data for the seller dashboard
// GET /v1/seller/dashboard-stats
func (h *Handlers) GetSellerStats(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	stats, err := h.Store.Stats.SellerStats(c.Request.Context(), sess.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
