// Package httpcontext carries the authenticated user identity through a
// request context.
package httpcontext

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey int

const userIDKey ctxKey = iota

// Manager sets and retrieves the user ID on a request context.
type Manager struct{}

// NewManager creates a new context manager.
func NewManager() *Manager {
	return &Manager{}
}

// SetUserIDToContext returns a child context holding the user ID.
func (m *Manager) SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromContext retrieves the user ID set by SetUserIDToContext.
func (m *Manager) GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}
