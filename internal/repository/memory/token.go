package memory

import (
	"context"
	"time"

	"gohire/internal/common"
	"gohire/internal/domain/auth"
)

type RefreshTokenRepository struct {
	s *Store
}

func (r *RefreshTokenRepository) Store(_ context.Context, token auth.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if token.ID.IsZero() {
		token.ID = common.NewUUID()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = r.s.stamp()
	}
	r.s.refreshTokens[token.TokenHash] = token
	return nil
}

func (r *RefreshTokenRepository) GetByHash(_ context.Context, tokenHash string) (*auth.RefreshToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	token, ok := r.s.refreshTokens[tokenHash]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "refresh token not found", nil)
	}
	return &token, nil
}

func (r *RefreshTokenRepository) Revoke(_ context.Context, tokenHash string, revokedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	token, ok := r.s.refreshTokens[tokenHash]
	if !ok {
		return nil
	}
	if token.RevokedAt == nil {
		token.RevokedAt = &revokedAt
		r.s.refreshTokens[tokenHash] = token
	}
	return nil
}

func (r *RefreshTokenRepository) RevokeAll(_ context.Context, userID common.UUID, purpose auth.Purpose, revokedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for hash, token := range r.s.refreshTokens {
		if token.UserID != userID || token.Purpose != purpose || token.RevokedAt != nil {
			continue
		}
		token.RevokedAt = &revokedAt
		r.s.refreshTokens[hash] = token
	}
	return nil
}

type RecoveryTokenRepository struct {
	s *Store
}

func (r *RecoveryTokenRepository) Store(_ context.Context, token auth.RecoveryToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if token.CreatedAt.IsZero() {
		token.CreatedAt = r.s.stamp()
	}
	r.s.recoveryTokens[token.TokenHash] = token
	return nil
}

func (r *RecoveryTokenRepository) Consume(_ context.Context, tokenHash string, now time.Time) (*auth.RecoveryToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	token, ok := r.s.recoveryTokens[tokenHash]
	if !ok || token.ConsumedAt != nil || now.After(token.ExpiresAt) {
		return nil, common.NewError(common.CodeUnauthorized, "recovery link is invalid or has expired", nil)
	}
	token.ConsumedAt = &now
	r.s.recoveryTokens[tokenHash] = token
	return &token, nil
}
