package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetUploadAuth handles GET /v1/uploads/auth
// The seller's browser uploads images straight to the media host with these
// credentials and submits the returned URLs with the product.
func (h *Handlers) GetUploadAuth(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, h.Media.Sign())
}
