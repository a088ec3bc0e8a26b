package service

import (
	"context"
	"fmt"
	"log"

	"carfleet/internal/auth"
	apperrors "carfleet/internal/errors"
	"carfleet/internal/model"
	"carfleet/internal/repository"
)

// AuthService handles login and logout against the credential and session stores.
type AuthService interface {
	// Login verifies credentials against the active user set and issues a new
	// session. An unknown username and a wrong password both return
	// ErrInvalidCredentials with nothing to tell them apart.
	Login(ctx context.Context, username, password string) (*model.Session, *model.User, error)
	// Logout destroys the session unconditionally. A store failure is logged
	// but not returned; the caller always proceeds to the login redirect.
	Logout(ctx context.Context, sessionID string)
}

type authService struct {
	users    repository.UserRepository
	sessions auth.SessionManagerInterface
	sweeper  repository.SessionRepository
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, sessions auth.SessionManagerInterface, sessionRepo repository.SessionRepository) AuthService {
	return &authService{users: users, sessions: sessions, sweeper: sessionRepo}
}

func (s *authService) Login(ctx context.Context, username, password string) (*model.Session, *model.User, error) {
	user, err := s.users.FindActiveByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("lookup user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	session, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}

	// Opportunistic sweep of expired sessions; a failure is irrelevant to
	// this login.
	if err := s.sweeper.DeleteExpired(ctx); err != nil {
		log.Printf("sweep expired sessions: %v", err)
	}

	return session, user, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		log.Printf("logout: destroy session: %v", err)
	}
}
