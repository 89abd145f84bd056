package handler

import (
	"net/http"
	"strconv"

	"collabgo/backend/internal/config"

	"github.com/gin-gonic/gin"
)

// GetMessagesForProject returns one page of a project's chat history,
// oldest to newest. The page parameter walks backwards into older history.
func (h *Handler) GetMessagesForProject(c *gin.Context) {
	projectID := c.Param("projectId")

	limit := intQuery(c, "limit", config.DefaultMessagePageLimit)
	if limit > config.MaxMessagePageLimit {
		limit = config.MaxMessagePageLimit
	}
	page := intQuery(c, "page", 0)

	msgs, err := h.Store.ListRecentMessages(projectID, limit, page*limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
