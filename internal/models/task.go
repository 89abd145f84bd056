package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Board columns a task can sit in. The set is closed.
const (
	StatusToDo       = "To Do"
	StatusInProgress = "In Progress"
	StatusDone       = "Done"
)

// IsValidStatus reports whether s is one of the board columns.
func IsValidStatus(s string) bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task is a Kanban card inside a project.
type Task struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	ProjectID   string    `gorm:"type:text;not null;index" json:"projectId"`
	Title       string    `gorm:"type:text;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Status      string    `gorm:"type:text;not null;default:'To Do'" json:"status"`
	AssigneeID  string    `gorm:"type:text;index" json:"assigneeId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeCreate generates the task UUID and defaults the status column.
func (t *Task) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = StatusToDo
	}
	return
}
