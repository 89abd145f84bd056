package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq" // needed for pq.StringArray
	"gorm.io/gorm"
)

// Project is the unit of collaboration. Its member set defines who may join
// the project's realtime room; membership is evaluated at connection time.
type Project struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"type:text;not null" json:"name"`
	WorkspaceID string         `gorm:"type:text;index" json:"workspaceId"`
	Members     pq.StringArray `gorm:"type:text[]" json:"members"` // user IDs
}

// BeforeCreate generates the project UUID if the ID has not been set yet.
func (p *Project) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

// HasMember reports whether the given user is in the project's member set.
func (p *Project) HasMember(userID string) bool {
	for _, m := range p.Members {
		if m == userID {
			return true
		}
	}
	return false
}
