package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles a user can hold. Every account is exactly one of the two.
const (
	RoleClient     = "client"
	RoleFreelancer = "freelancer"
)

// User represents a registered account in the system.
type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"type:text;not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:text;not null" json:"-"`
	Role         string `gorm:"type:text;not null" json:"role"` // RoleClient or RoleFreelancer
}

// BeforeCreate is a GORM hook that generates a new UUID for the user
// if the ID has not been set yet.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// Principal is the resolved identity attached to one live realtime
// connection. It is a read-only projection of User, re-resolved on every
// new connection and immutable for the connection's lifetime.
type Principal struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// AsPrincipal projects the user onto a connection-scoped identity.
func (u *User) AsPrincipal() Principal {
	return Principal{ID: u.ID, Name: u.Name, Role: u.Role}
}
