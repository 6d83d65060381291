package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront-golang/internal/models"
)

//
// --- Notification Handlers ---
//

// GetMyNotifications is the handler for GET /v1/notifications
// Unread first, newest first, at most 50.
func (h *Handlers) GetMyNotifications(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	list, err := h.Store.Notifications.ListForUser(c.Request.Context(), sess.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if list == nil {
		list = []models.Notification{}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

// MarkNotificationAsRead is the handler for PATCH /v1/notifications/:id/read
// Only the caller's own notifications are touched.
func (h *Handlers) MarkNotificationAsRead(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}

	if err := h.Store.Notifications.MarkRead(c.Request.Context(), sess.UserID, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
