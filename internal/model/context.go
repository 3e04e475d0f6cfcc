package model

import (
	"context"

	"github.com/google/uuid"
)

// ContextManager carries the authenticated user identity through a request
// context so services never reach for ambient per-request state.
type ContextManager interface {
	SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context
	GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool)
}
