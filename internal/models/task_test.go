package models_test

import (
	"testing"

	"collabgo/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

// TestIsValidStatus verifies the board column set is closed.
func TestIsValidStatus(t *testing.T) {
	assert.True(t, models.IsValidStatus(models.StatusToDo))
	assert.True(t, models.IsValidStatus(models.StatusInProgress))
	assert.True(t, models.IsValidStatus(models.StatusDone))

	assert.False(t, models.IsValidStatus("Parked"))
	assert.False(t, models.IsValidStatus("done"), "column names are case sensitive")
	assert.False(t, models.IsValidStatus(""))
}

// TestTaskBeforeCreate_DefaultsStatus verifies a new card lands in the first column.
func TestTaskBeforeCreate_DefaultsStatus(t *testing.T) {
	// Arrange
	task := &models.Task{ProjectID: "p-1", Title: "Wireframes"}

	// Act
	err := task.BeforeCreate(nil)

	// Assert
	assert.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, models.StatusToDo, task.Status)
}

// TestTaskBeforeCreate_KeepsExplicitStatus verifies that a caller-provided
// column is not overwritten by the default.
func TestTaskBeforeCreate_KeepsExplicitStatus(t *testing.T) {
	task := &models.Task{ProjectID: "p-1", Title: "Wireframes", Status: models.StatusInProgress}

	err := task.BeforeCreate(nil)

	assert.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, task.Status)
}
