package model

import "github.com/google/uuid"

// AccessClaims is the identity a validated access token vouches for.
type AccessClaims struct {
	UserID        uuid.UUID
	Username      string
	Email         string
	EmailVerified bool
}

// TokenManager signs and validates access tokens and mints opaque refresh values.
type TokenManager interface {
	GenerateAccessToken(user User) (string, error)
	NewRefreshValue() (string, error)
	ParseAccessToken(token string) (AccessClaims, error)
	// ParseAccessTokenAllowExpired verifies signature, algorithm, issuer and
	// audience but skips the lifetime check. Used by the refresh protocol to
	// recover the subject from an expired token without trusting a forgery.
	ParseAccessTokenAllowExpired(token string) (AccessClaims, error)
}

// PasswordHasher produces and verifies one-way credential digests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}
