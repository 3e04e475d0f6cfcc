package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avoropaev/accounts-server/internal/logger"
	"github.com/avoropaev/accounts-server/internal/model"
)

// User provides profile and account-lifecycle operations for an already
// resolved identity. Callers pass the user ID explicitly; this service never
// digs it out of ambient request state.
type User struct {
	users  model.UserStore
	hasher model.PasswordHasher
	logger *logger.Logger
}

// NewUser creates a User service.
func NewUser(users model.UserStore, hasher model.PasswordHasher, logger *logger.Logger) *User {
	return &User{
		users:  users,
		hasher: hasher,
		logger: logger,
	}
}

// UpdateProfileParams carries optional profile changes; nil means "leave as is".
type UpdateProfileParams struct {
	DisplayName *string
	Bio         *string
}

// GetProfileByUsername returns the public profile of the named user.
func (s *User) GetProfileByUsername(ctx context.Context, username string) (model.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, fmt.Errorf("%w: user %q", model.ErrNotFound, username)
		}
		return model.User{}, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the provided profile changes to the user.
func (s *User) UpdateProfile(ctx context.Context, userID uuid.UUID, params UpdateProfileParams) (model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	if params.DisplayName != nil {
		user.DisplayName = *params.DisplayName
	}
	if params.Bio != nil {
		user.Bio = params.Bio
	}
	user.UpdatedAt = time.Now()

	updated, err := s.users.UpdateProfile(ctx, user)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to update profile: %w", err)
	}

	return updated, nil
}

// ChangePassword verifies the current password and persists a hash of the new
// one. Existing sessions remain valid.
func (s *User) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := s.hasher.Verify(currentPassword, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: current password is incorrect", model.ErrInvalidCredentials)
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, userID, newHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("User service: password changed", "user_id", userID)

	return nil
}

// DeleteAccount verifies the password and hard-deletes the user. Refresh
// tokens go with the account via the store's delete cascade.
func (s *User) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: password is incorrect", model.ErrInvalidCredentials)
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("User service: account deleted", "user_id", userID)

	return nil
}

// UsernameAvailable reports whether no user currently holds the username.
func (s *User) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	_, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("failed to get user by username: %w", err)
	}
	return false, nil
}
