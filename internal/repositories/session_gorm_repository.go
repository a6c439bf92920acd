package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"magazzino/internal/models"
)

// GORMSessionRepository is a GORM implementation of SessionRepository.
type GORMSessionRepository struct {
	db *gorm.DB
}

// NewGORMSessionRepository creates a new instance of GORMSessionRepository.
func NewGORMSessionRepository(db *gorm.DB) *GORMSessionRepository {
	return &GORMSessionRepository{
		db: db,
	}
}

func (r *GORMSessionRepository) Create(session *models.Session) error {
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *GORMSessionRepository) GetByToken(token string) (*models.Session, error) {
	var session models.Session
	if err := r.db.First(&session, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

func (r *GORMSessionRepository) Delete(token string) error {
	if err := r.db.Delete(&models.Session{}, "token = ?", token).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
