package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RefreshTokenStore persists refresh-token records. Only a SHA-256 hash of
// the opaque value is stored, so lookups are keyed by hash.
type RefreshTokenStore interface {
	Create(ctx context.Context, token RefreshToken) error
	GetByUserAndHash(ctx context.Context, userID uuid.UUID, tokenHash []byte) (RefreshToken, error)
	// Rotate revokes the token with the given id and inserts its replacement
	// in a single transaction. The revoke is conditional on the record still
	// being active; if another rotation won the race, ErrTokenRevoked is
	// returned and the replacement is not persisted.
	Rotate(ctx context.Context, oldID uuid.UUID, replacement RefreshToken) error
	RevokeByHash(ctx context.Context, tokenHash []byte) error
	RevokeAllByUser(ctx context.Context, userID uuid.UUID) error
}

// RefreshToken is a single link in a rotation chain.
type RefreshToken struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	TokenHash         []byte
	IssuedAt          time.Time
	ExpiresAt         time.Time
	RevokedAt         *time.Time
	ReplacedByTokenID *uuid.UUID
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Revoked reports whether the token has been consumed or invalidated.
func (t RefreshToken) Revoked() bool {
	return t.RevokedAt != nil
}

// Expired reports whether the token outlived its lifetime at the given instant.
func (t RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// Active reports whether the token may still mint new credentials.
func (t RefreshToken) Active(now time.Time) bool {
	return !t.Revoked() && !t.Expired(now)
}
