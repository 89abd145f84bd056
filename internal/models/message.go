package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a persisted chat message belonging to a project room.
// ID and CreatedAt are assigned by the storage layer atomically with the
// write; nothing else in the system may fabricate them. Messages are never
// mutated after creation.
type Message struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	ProjectID string    `gorm:"type:text;not null;index:idx_messages_room,priority:1" json:"projectId"`
	SenderID  string    `gorm:"type:text;not null;index" json:"senderId"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"index:idx_messages_room,priority:2" json:"createdAt"`

	// SenderName is filled by history reads via a join on users; it has no
	// column of its own.
	SenderName string `gorm:"-:migration;->" json:"senderName,omitempty"`
}

// BeforeCreate generates the message UUID if the ID has not been set yet.
func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}
