package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront-golang/internal/middleware"
	"github.com/01moynul/storefront-golang/internal/models"
)

// GetMe is the handler for GET /v1/account/me
func (h *Handlers) GetMe(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": sess})
}

// BecomeSeller is the handler for POST /v1/account/seller
// Sellers and admins keep their role.
func (h *Handlers) BecomeSeller(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	if sess.Role != models.RoleUser {
		c.JSON(http.StatusOK, gin.H{"message": "Already a seller", "user": sess})
		return
	}

	user, err := h.Store.Users.SetRole(c.Request.Context(), sess.UserID, models.RoleSeller)
	if err != nil {
		h.respondError(c, err)
		return
	}
	middleware.SetSession(c, user.Session())
	c.JSON(http.StatusOK, gin.H{"message": "You are now a seller", "user": user.Session()})
}

// GetMyReviews is the handler for GET /v1/reviews/me
func (h *Handlers) GetMyReviews(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	reviews, err := h.Store.Reviews.ListByUser(c.Request.Context(), sess.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}
