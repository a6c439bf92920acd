package models

import "time"

// Session is a server-side login session. The token is the opaque value
// carried in the session cookie; expired rows are treated as absent.
type Session struct {
	Token     string `gorm:"primaryKey;type:varchar(36)"`
	UserID    uint   `gorm:"index;not null"`
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
