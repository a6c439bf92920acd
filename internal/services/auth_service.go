package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"magazzino/internal/models"
	"magazzino/internal/repositories"
)

// AuthService owns login, logout and session resolution. Sessions are
// server-side rows keyed by an opaque token; the token travels in a cookie
// shared by the form UI and the JSON API.
type AuthService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	sessionTTL  time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, sessionRepo repositories.SessionRepository, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		sessionTTL:  sessionTTL,
	}
}

// SessionTTL returns the configured session lifetime, used by handlers to
// set the cookie expiry alongside the session row.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Register hashes the password and stores a new active user.
func (s *AuthService) Register(username, password string) (*models.User, error) {
	if existing, err := s.userRepo.GetByUsername(username); err == nil && existing != nil {
		return nil, fmt.Errorf("username %q already taken", username)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{
		Username: username,
		Password: string(hashed),
		Active:   true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and opens a new session, returning the
// opaque token to be set as the session cookie. Whether the username or the
// password was wrong is deliberately not revealed.
func (s *AuthService) Login(username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return "", ErrUnauthenticated
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrUnauthenticated
	}

	session := &models.Session{
		Token:     uuid.New().String(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return "", err
	}
	return session.Token, nil
}

// Logout discards the session for the given token. Unknown tokens are a
// no-op.
func (s *AuthService) Logout(token string) error {
	if token == "" {
		return nil
	}
	return s.sessionRepo.Delete(token)
}

// ResolveSession turns a session token into the authenticated user.
// Missing, unknown and expired tokens all yield ErrUnauthenticated; a
// resolved but inactive user yields ErrForbidden. Expired rows are removed
// on lookup.
func (s *AuthService) ResolveSession(token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	session, err := s.sessionRepo.GetByToken(token)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if session.Expired(time.Now()) {
		_ = s.sessionRepo.Delete(session.Token)
		return nil, ErrUnauthenticated
	}
	user, err := s.userRepo.GetByID(session.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if !user.Active {
		return nil, ErrForbidden
	}
	return user, nil
}
