package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/avoropaev/accounts-server/internal/model"
)

// RefreshTokenStore is a mock of model.RefreshTokenStore.
type RefreshTokenStore struct {
	mock.Mock
}

func (m *RefreshTokenStore) Create(ctx context.Context, token model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *RefreshTokenStore) GetByUserAndHash(ctx context.Context, userID uuid.UUID, tokenHash []byte) (model.RefreshToken, error) {
	args := m.Called(ctx, userID, tokenHash)
	return args.Get(0).(model.RefreshToken), args.Error(1)
}

func (m *RefreshTokenStore) Rotate(ctx context.Context, oldID uuid.UUID, replacement model.RefreshToken) error {
	args := m.Called(ctx, oldID, replacement)
	return args.Error(0)
}

func (m *RefreshTokenStore) RevokeByHash(ctx context.Context, tokenHash []byte) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *RefreshTokenStore) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
