package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gohire/internal/common"
	"gohire/internal/domain/auth"
)

type RefreshTokenRepository struct {
	db *sql.DB
}

func NewRefreshTokenRepository(db *sql.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Store(ctx context.Context, token auth.RefreshToken) error {
	if token.ID.IsZero() {
		token.ID = common.NewUUID()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO refresh_tokens (id, user_id, token_hash, purpose, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		token.ID, token.UserID, token.TokenHash, token.Purpose, token.ExpiresAt, token.CreatedAt)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to store refresh token", err)
	}
	return nil
}

func (r *RefreshTokenRepository) GetByHash(ctx context.Context, tokenHash string) (*auth.RefreshToken, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, user_id, token_hash, purpose, expires_at, created_at, revoked_at
		FROM refresh_tokens WHERE token_hash = $1`, tokenHash)
	var token auth.RefreshToken
	var revokedAt sql.NullTime
	if err := row.Scan(&token.ID, &token.UserID, &token.TokenHash, &token.Purpose, &token.ExpiresAt, &token.CreatedAt, &revokedAt); err != nil {
		return nil, notFoundOr(err, "refresh token not found", "failed to load refresh token")
	}
	token.RevokedAt = timePtr(revokedAt)
	return &token, nil
}

func (r *RefreshTokenRepository) Revoke(ctx context.Context, tokenHash string, revokedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE refresh_tokens SET revoked_at = $1 WHERE token_hash = $2 AND revoked_at IS NULL`, revokedAt, tokenHash)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to revoke refresh token", err)
	}
	return nil
}

func (r *RefreshTokenRepository) RevokeAll(ctx context.Context, userID common.UUID, purpose auth.Purpose, revokedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE refresh_tokens SET revoked_at = $1 WHERE user_id = $2 AND purpose = $3 AND revoked_at IS NULL`,
		revokedAt, userID, purpose)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to revoke refresh tokens", err)
	}
	return nil
}

type RecoveryTokenRepository struct {
	db *sql.DB
}

func NewRecoveryTokenRepository(db *sql.DB) *RecoveryTokenRepository {
	return &RecoveryTokenRepository{db: db}
}

func (r *RecoveryTokenRepository) Store(ctx context.Context, token auth.RecoveryToken) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO recovery_tokens (token_hash, user_id, expires_at, created_at) VALUES ($1, $2, $3, $4)`,
		token.TokenHash, token.UserID, token.ExpiresAt, token.CreatedAt)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to store recovery token", err)
	}
	return nil
}

// Consume is a single conditional UPDATE so a link can be redeemed once.
func (r *RecoveryTokenRepository) Consume(ctx context.Context, tokenHash string, now time.Time) (*auth.RecoveryToken, error) {
	row := r.db.QueryRowContext(ctx, `UPDATE recovery_tokens SET consumed_at = $1
		WHERE token_hash = $2 AND consumed_at IS NULL AND expires_at > $1
		RETURNING token_hash, user_id, expires_at, created_at, consumed_at`, now, tokenHash)
	var token auth.RecoveryToken
	var consumedAt sql.NullTime
	if err := row.Scan(&token.TokenHash, &token.UserID, &token.ExpiresAt, &token.CreatedAt, &consumedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeUnauthorized, "recovery link is invalid or has expired", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to consume recovery token", err)
	}
	token.ConsumedAt = timePtr(consumedAt)
	return &token, nil
}
