package repositories

import (
	"errors"

	"magazzino/internal/models"
)

// ErrUserNotFound is returned when a username or id resolves to no user.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Count() (int64, error)
}
