package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avoropaev/accounts-server/internal/model"
)

var _ model.RefreshTokenStore = (*RefreshTokenRepository)(nil)

type RefreshTokenRepository struct {
	db *Connection
}

func NewRefreshTokenRepository(db *Connection) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token model.RefreshToken) error {
	const query = `
        INSERT INTO refresh_tokens (
            id, user_id, token_hash, issued_at, expires_at, revoked_at, replaced_by_token_id, created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW())
    `

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		token.ID, token.UserID, token.TokenHash, token.IssuedAt, token.ExpiresAt,
		token.RevokedAt, token.ReplacedByTokenID,
	)
	if err != nil {
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) GetByUserAndHash(ctx context.Context, userID uuid.UUID, tokenHash []byte) (model.RefreshToken, error) {
	const query = `
        SELECT id, user_id, token_hash, issued_at, expires_at, revoked_at, replaced_by_token_id, created_at, updated_at
        FROM refresh_tokens WHERE user_id = $1 AND token_hash = $2
    `
	var rt model.RefreshToken
	err := r.db.QueryRow(ctx, query, userID, tokenHash).Scan(
		&rt.ID, &rt.UserID, &rt.TokenHash, &rt.IssuedAt, &rt.ExpiresAt,
		&rt.RevokedAt, &rt.ReplacedByTokenID, &rt.CreatedAt, &rt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RefreshToken{}, model.ErrNotFound
		}
		return model.RefreshToken{}, fmt.Errorf("failed to get refresh token: %w", err)
	}
	return rt, nil
}

// Rotate revokes the old token and inserts its replacement in one transaction.
// The revoke is conditional on the token still being active, so of two
// concurrent rotations of the same token exactly one commits.
func (r *RefreshTokenRepository) Rotate(ctx context.Context, oldID uuid.UUID, replacement model.RefreshToken) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const revoke = `
        UPDATE refresh_tokens
        SET revoked_at = NOW(), replaced_by_token_id = $2, updated_at = NOW()
        WHERE id = $1 AND revoked_at IS NULL AND expires_at > NOW()
    `
	tag, err := tx.Exec(ctx, revoke, oldID, replacement.ID)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTokenRevoked
	}

	const insert = `
        INSERT INTO refresh_tokens (
            id, user_id, token_hash, issued_at, expires_at, revoked_at, replaced_by_token_id, created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW())
    `
	_, err = tx.Exec(ctx, insert,
		replacement.ID, replacement.UserID, replacement.TokenHash, replacement.IssuedAt,
		replacement.ExpiresAt, replacement.RevokedAt, replacement.ReplacedByTokenID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert replacement token: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rotation: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) RevokeByHash(ctx context.Context, tokenHash []byte) error {
	const query = `
        UPDATE refresh_tokens SET revoked_at = NOW(), updated_at = NOW()
        WHERE token_hash = $1 AND revoked_at IS NULL
    `
	if _, err := r.db.Exec(ctx, query, tokenHash); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	const query = `
        UPDATE refresh_tokens SET revoked_at = NOW(), updated_at = NOW()
        WHERE user_id = $1 AND revoked_at IS NULL
    `
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens by user: %w", err)
	}
	return nil
}
