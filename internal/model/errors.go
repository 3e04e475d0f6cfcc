package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a required entity is absent.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates malformed caller input, e.g. an empty password.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials covers both unknown email and wrong password so the
	// two cases stay indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken covers tampered, malformed or otherwise unverifiable tokens.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("refresh token revoked")
)

// ConflictError reports a uniqueness violation with enough detail to name the
// conflicting field.
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q is already taken", e.Field, e.Value)
}
