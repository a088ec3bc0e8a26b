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

// UserService covers the admin-side management of staff accounts.
type UserService interface {
	ListActive(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, username, password string, isAdmin bool) (*model.User, error)
	// Update renames a user and adjusts the role; a non-empty password also
	// rotates the hash.
	Update(ctx context.Context, id uint, username, password string, isAdmin bool) error
	// SoftDelete marks the user removed. Deleting the acting admin's own
	// account is rejected.
	SoftDelete(ctx context.Context, id, actorID uint) error
	// EnsureAdmin provisions the bootstrap admin account when no active admin
	// exists, so a fresh deployment is never locked out.
	EnsureAdmin(ctx context.Context, username, password string) error
}

type userService struct {
	users repository.UserRepository
}

// NewUserService creates a new user management service.
func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) ListActive(ctx context.Context) ([]model.User, error) {
	return s.users.ListActive(ctx)
}

func (s *userService) Create(ctx context.Context, username, password string, isAdmin bool) (*model.User, error) {
	existing, err := s.users.FindActiveByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, apperrors.ErrUsernameTaken
	}
	if err != nil && !repository.IsNotFound(err) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id uint, username, password string, isAdmin bool) error {
	user, err := s.users.FindActiveByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	if username != user.Username {
		existing, err := s.users.FindActiveByUsernameExcluding(ctx, username, id)
		if err == nil && existing != nil {
			return apperrors.ErrUsernameTaken
		}
		if err != nil && !repository.IsNotFound(err) {
			return fmt.Errorf("check username: %w", err)
		}
	}

	user.Username = username
	user.IsAdmin = isAdmin
	if password != "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (s *userService) SoftDelete(ctx context.Context, id, actorID uint) error {
	if id == actorID {
		return apperrors.ErrSelfDeletion
	}
	if err := s.users.SoftDelete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *userService) EnsureAdmin(ctx context.Context, username, password string) error {
	count, err := s.users.CountActiveAdmins(ctx)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	if _, err := s.Create(ctx, username, password, true); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	log.Printf("bootstrap admin %q created", username)
	return nil
}
