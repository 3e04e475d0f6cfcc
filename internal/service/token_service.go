package service

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avoropaev/accounts-server/internal/logger"
	"github.com/avoropaev/accounts-server/internal/model"
)

// TokenService owns issuance and the refresh-rotation protocol. It composes
// the TokenManager with the refresh-token and user stores.
type TokenService struct {
	manager    model.TokenManager
	store      model.RefreshTokenStore
	users      model.UserStore
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     *logger.Logger
}

// NewTokenService creates a TokenService with the given collaborators and
// token lifetimes.
func NewTokenService(
	manager model.TokenManager,
	store model.RefreshTokenStore,
	users model.UserStore,
	accessTTL time.Duration,
	refreshTTL time.Duration,
	logger *logger.Logger,
) *TokenService {
	return &TokenService{
		manager:    manager,
		store:      store,
		users:      users,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     logger,
	}
}

// TokenPair is a freshly minted access/refresh credential pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

// Issue creates a new access token and a new refresh-token chain for the user.
func (s *TokenService) Issue(ctx context.Context, user model.User) (TokenPair, error) {
	access, err := s.manager.GenerateAccessToken(user)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to issue access token: %w", err)
	}

	value, err := s.manager.NewRefreshValue()
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	now := time.Now()
	rt := model.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashRefresh(value),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.refreshTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, rt); err != nil {
		return TokenPair{}, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return s.pair(access, value), nil
}

// Refresh rotates a refresh token: the presented access token establishes
// whose refresh token is expected (its expiry is ignored, its authenticity is
// not), the stored record must still be active, and the revoke-and-replace
// runs as one conditional unit so concurrent calls on the same value cannot
// both succeed.
func (s *TokenService) Refresh(ctx context.Context, accessToken, refreshValue string) (TokenPair, error) {
	claims, err := s.manager.ParseAccessTokenAllowExpired(accessToken)
	if err != nil {
		return TokenPair{}, fmt.Errorf("invalid token claims: %w", err)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return TokenPair{}, fmt.Errorf("%w: user not found", model.ErrInvalidToken)
		}
		return TokenPair{}, fmt.Errorf("failed to get user: %w", err)
	}

	rt, err := s.store.GetByUserAndHash(ctx, user.ID, hashRefresh(refreshValue))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return TokenPair{}, fmt.Errorf("%w: unknown refresh token", model.ErrInvalidToken)
		}
		return TokenPair{}, fmt.Errorf("failed to get refresh token: %w", err)
	}

	now := time.Now()
	if rt.Revoked() {
		s.logger.Info("revoked refresh token presented, possible reuse",
			"user_id", user.ID)
		return TokenPair{}, model.ErrTokenRevoked
	}
	if rt.Expired(now) {
		return TokenPair{}, model.ErrTokenExpired
	}

	access, err := s.manager.GenerateAccessToken(user)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to issue new access token: %w", err)
	}
	value, err := s.manager.NewRefreshValue()
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to issue new refresh token: %w", err)
	}

	replacement := model.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashRefresh(value),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.refreshTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}

	// The conditional revoke inside Rotate is the serialization point: if a
	// concurrent call consumed the record first, this returns ErrTokenRevoked
	// and no replacement is persisted.
	if err := s.store.Rotate(ctx, rt.ID, replacement); err != nil {
		return TokenPair{}, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return s.pair(access, value), nil
}

// RevokeByValue invalidates a single refresh-token chain.
func (s *TokenService) RevokeByValue(ctx context.Context, refreshValue string) error {
	return s.store.RevokeByHash(ctx, hashRefresh(refreshValue))
}

// RevokeAllForUser invalidates every active refresh token of the user.
func (s *TokenService) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return s.store.RevokeAllByUser(ctx, userID)
}

// GetUserID resolves the subject of a currently valid access token.
func (s *TokenService) GetUserID(ctx context.Context, accessToken string) (uuid.UUID, error) {
	claims, err := s.manager.ParseAccessToken(accessToken)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}

func (s *TokenService) pair(access, refresh string) TokenPair {
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(s.accessTTL.Seconds()),
	}
}

func hashRefresh(value string) []byte {
	h := sha256.Sum256([]byte(value))
	return h[:]
}
