package handler

import (
	"errors"
	"net/http"

	"collabgo/backend/internal/models"
	"collabgo/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type createTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	ProjectID   string `json:"projectId" binding:"required"`
	Description string `json:"description"`
	AssigneeID  string `json:"assigneeId"`
}

// CreateTask adds a new card to a project's board, starting in "To Do".
func (h *Handler) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide a title and projectId"})
		return
	}

	task := &models.Task{
		Title:       req.Title,
		ProjectID:   req.ProjectID,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
	}
	if err := h.Store.SaveTask(task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}
	c.JSON(http.StatusCreated, task)
}

// GetTasksForProject lists every task on a project's board.
func (h *Handler) GetTasksForProject(c *gin.Context) {
	tasks, err := h.Store.ListTasksByProject(c.Param("projectId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

type updateTaskRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateTask moves a task to another board column. This is the confirming
// write behind the board's optimistic drag-and-drop: the client has already
// rendered the move and commits or rolls back on this response.
func (h *Handler) UpdateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide a status"})
		return
	}

	task, err := h.Store.UpdateTaskStatus(c.Param("taskId"), req.Status)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, task)
}
