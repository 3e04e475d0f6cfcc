package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/avoropaev/accounts-server/internal/model"
)

// TokenManager is a mock of model.TokenManager.
type TokenManager struct {
	mock.Mock
}

func (m *TokenManager) GenerateAccessToken(user model.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) NewRefreshValue() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *TokenManager) ParseAccessToken(token string) (model.AccessClaims, error) {
	args := m.Called(token)
	return args.Get(0).(model.AccessClaims), args.Error(1)
}

func (m *TokenManager) ParseAccessTokenAllowExpired(token string) (model.AccessClaims, error) {
	args := m.Called(token)
	return args.Get(0).(model.AccessClaims), args.Error(1)
}
