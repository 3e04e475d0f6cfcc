package servicemocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/avoropaev/accounts-server/internal/model"
	"github.com/avoropaev/accounts-server/internal/service"
)

// AuthService is a mock of the handler-side AuthService interface.
type AuthService struct {
	mock.Mock
}

func (m *AuthService) Register(ctx context.Context, username, email, password string) (model.User, service.TokenPair, error) {
	args := m.Called(ctx, username, email, password)
	return args.Get(0).(model.User), args.Get(1).(service.TokenPair), args.Error(2)
}

func (m *AuthService) Login(ctx context.Context, email, password string) (model.User, service.TokenPair, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.User), args.Get(1).(service.TokenPair), args.Error(2)
}

// TokenService is a mock of the handler-side and middleware-side token
// service interfaces.
type TokenService struct {
	mock.Mock
}

func (m *TokenService) Refresh(ctx context.Context, accessToken, refreshValue string) (service.TokenPair, error) {
	args := m.Called(ctx, accessToken, refreshValue)
	return args.Get(0).(service.TokenPair), args.Error(1)
}

func (m *TokenService) RevokeByValue(ctx context.Context, refreshValue string) error {
	args := m.Called(ctx, refreshValue)
	return args.Error(0)
}

func (m *TokenService) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *TokenService) GetUserID(ctx context.Context, token string) (uuid.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// UserService is a mock of the handler-side UserService interface.
type UserService struct {
	mock.Mock
}

func (m *UserService) GetProfileByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, params service.UpdateProfileParams) (model.User, error) {
	args := m.Called(ctx, userID, params)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	args := m.Called(ctx, userID, currentPassword, newPassword)
	return args.Error(0)
}

func (m *UserService) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	args := m.Called(ctx, userID, password)
	return args.Error(0)
}

func (m *UserService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}
