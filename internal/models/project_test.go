package models_test

import (
	"testing"

	"collabgo/backend/internal/models"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

// TestProjectHasMember verifies the membership check against the text[] column.
func TestProjectHasMember(t *testing.T) {
	project := &models.Project{
		Name:    "Landing page redesign",
		Members: pq.StringArray{"client-1", "freelancer-1"},
	}

	assert.True(t, project.HasMember("client-1"))
	assert.True(t, project.HasMember("freelancer-1"))
	assert.False(t, project.HasMember("outsider-9"))
	assert.False(t, project.HasMember(""))
}

// TestProjectHasMember_EmptySet verifies a project with no members admits nobody.
func TestProjectHasMember_EmptySet(t *testing.T) {
	project := &models.Project{Name: "Drafts"}

	assert.False(t, project.HasMember("anyone"))
}
