package repositories

import (
	"errors"

	"magazzino/internal/models"
)

// ErrSessionNotFound is returned when a token resolves to no session.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository defines the interface for session data access.
type SessionRepository interface {
	Create(session *models.Session) error
	GetByToken(token string) (*models.Session, error)
	Delete(token string) error
}
