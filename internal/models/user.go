package models

import (
	"time"
)

// User is an API account. Email is stored lowercased and unique.
// PasswordHash is a bcrypt hash and never leaves the server.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"uniqueIndex;size:150;not null" json:"email"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`
}
