// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// User represents a registered account.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:100;unique;not null" json:"username"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	FirstName string    `gorm:"size:100" json:"first_name"`
	LastName  string    `gorm:"size:100" json:"last_name"`
	Bio       string    `gorm:"size:500" json:"bio"`
	Avatar    string    `json:"avatar"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	IsStaff   bool      `gorm:"default:false" json:"is_staff"`
	IsSuper   bool      `gorm:"default:false" json:"is_superuser"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// PostCount and CommentCount are not persisted; computed at query time
	PostCount    int `gorm:"->;-:migration" json:"post_count"`
	CommentCount int `gorm:"->;-:migration" json:"comment_count"`
}

// FullName returns "First Last", falling back to the username.
func (u *User) FullName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full == "" {
		return u.Username
	}
	return full
}
