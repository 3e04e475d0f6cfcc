package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	UpdateProfile(ctx context.Context, user User) (User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// User represents a stored account. PasswordHash is the only credential
// material and must never be logged or serialized into responses.
type User struct {
	ID                uuid.UUID
	Username          string
	Email             string
	DisplayName       string
	Bio               *string
	ProfileImageID    *uuid.UUID
	BackgroundImageID *uuid.UUID
	PasswordHash      string
	EmailVerified     bool
	EmailVerifiedAt   *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
