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

// Auth orchestrates registration and login.
type Auth struct {
	users  model.UserStore
	hasher model.PasswordHasher
	tokens *TokenService
	logger *logger.Logger
}

// NewAuth creates an Auth service.
func NewAuth(users model.UserStore, hasher model.PasswordHasher, tokens *TokenService, logger *logger.Logger) *Auth {
	return &Auth{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// Register creates a user with an unverified email and issues its first token
// pair. The email is checked before the username, so when both collide only
// the email conflict is reported.
func (a *Auth) Register(ctx context.Context, username, email, password string) (model.User, TokenPair, error) {
	a.logger.Debug("Auth service: registering user", "username", username)

	if _, err := a.users.GetByEmail(ctx, email); err == nil {
		return model.User{}, TokenPair{}, &model.ConflictError{Field: "email", Value: email}
	} else if !errors.Is(err, model.ErrNotFound) {
		return model.User{}, TokenPair{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if _, err := a.users.GetByUsername(ctx, username); err == nil {
		return model.User{}, TokenPair{}, &model.ConflictError{Field: "username", Value: username}
	} else if !errors.Is(err, model.ErrNotFound) {
		return model.User{}, TokenPair{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	passwordHash, err := a.hasher.Hash(password)
	if err != nil {
		return model.User{}, TokenPair{}, err
	}

	now := time.Now()
	user := model.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		DisplayName:  username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	saved, err := a.users.Create(ctx, user)
	if err != nil {
		return model.User{}, TokenPair{}, fmt.Errorf("failed to create user: %w", err)
	}

	pair, err := a.tokens.Issue(ctx, saved)
	if err != nil {
		return model.User{}, TokenPair{}, err
	}

	a.logger.Info("Auth service: user registered", "user_id", saved.ID, "username", username)

	return saved, pair, nil
}

// Login verifies credentials and issues a fresh token pair. An unknown email
// and a wrong password produce the identical error, and prior sessions stay
// untouched: each login starts its own refresh-token chain.
func (a *Auth) Login(ctx context.Context, email, password string) (model.User, TokenPair, error) {
	a.logger.Debug("Auth service: login attempt")

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, TokenPair{}, model.ErrInvalidCredentials
		}
		return model.User{}, TokenPair{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	ok, err := a.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return model.User{}, TokenPair{}, err
	}
	if !ok {
		return model.User{}, TokenPair{}, model.ErrInvalidCredentials
	}

	pair, err := a.tokens.Issue(ctx, user)
	if err != nil {
		return model.User{}, TokenPair{}, err
	}

	a.logger.Info("Auth service: user logged in", "user_id", user.ID)

	return user, pair, nil
}
