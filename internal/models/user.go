package models

import "time"

// User represents an account that may hold a session. Inactive users keep
// their sessions but are rejected with a distinct signal on resolution.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Password  string    `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never serialized
	Active    bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
}
