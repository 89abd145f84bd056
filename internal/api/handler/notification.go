package handler

import (
	"net/http"

	"collabgo/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// GetNotifications lists the calling user's notifications, newest first.
func (h *Handler) GetNotifications(c *gin.Context) {
	principal := c.MustGet("principal").(models.Principal)

	ns, err := h.Store.ListNotificationsForUser(principal.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load notifications"})
		return
	}
	c.JSON(http.StatusOK, ns)
}

// MarkNotificationRead flags one notification as read.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	if err := h.Store.MarkNotificationRead(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
