package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is a persisted alert shown to a single user, pointing at the
// page where the triggering event happened.
type Notification struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	RecipientID string    `gorm:"type:text;not null;index" json:"recipientId"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	Link        string    `gorm:"type:text;not null" json:"link"`
	Read        bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return
}
