package hasher

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/avoropaev/accounts-server/internal/model"
)

// DefaultCost keeps a single verification in the tens-of-milliseconds range
// on current hardware.
const DefaultCost = 12

// Bcrypt implements model.PasswordHasher. The per-call salt is embedded in
// the produced digest, so no separate salt storage is needed.
type Bcrypt struct {
	cost int
}

// NewBcrypt creates a hasher with the given cost. Costs below the bcrypt
// minimum fall back to DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost {
		cost = DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Hash produces a salted one-way digest of the password.
func (h *Bcrypt) Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: password must not be empty", model.ErrInvalidInput)
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(digest), nil
}

// Verify reports whether password matches the digest. The comparison runs in
// time independent of where a mismatch occurs. A wrong password is not an
// error; only malformed input or a corrupt digest is.
func (h *Bcrypt) Verify(password, hash string) (bool, error) {
	if password == "" {
		return false, fmt.Errorf("%w: password must not be empty", model.ErrInvalidInput)
	}
	if hash == "" {
		return false, fmt.Errorf("%w: password hash must not be empty", model.ErrInvalidInput)
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("failed to verify password: %w", err)
	}
}
