package auth

import (
	"context"
	"time"

	"gohire/internal/common"
)

type Purpose string

const (
	PurposeSession  Purpose = "session"
	PurposeRecovery Purpose = "recovery"
)

// RefreshToken rows store only the SHA-256 of the opaque token.
type RefreshToken struct {
	ID        common.UUID
	UserID    common.UUID
	TokenHash string
	Purpose   Purpose
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

type RecoveryToken struct {
	TokenHash  string
	UserID     common.UUID
	ExpiresAt  time.Time
	CreatedAt  time.Time
	ConsumedAt *time.Time
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type RefreshTokenRepository interface {
	Store(ctx context.Context, token RefreshToken) error
	GetByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	Revoke(ctx context.Context, tokenHash string, revokedAt time.Time) error
	RevokeAll(ctx context.Context, userID common.UUID, purpose Purpose, revokedAt time.Time) error
}

type RecoveryTokenRepository interface {
	Store(ctx context.Context, token RecoveryToken) error
	// Consume marks an unexpired, unconsumed token as used and returns it.
	// Any other token yields CodeUnauthorized.
	Consume(ctx context.Context, tokenHash string, now time.Time) (*RecoveryToken, error)
}

// Session change notifications published on the auth topic of a user.
const (
	EventSignedIn         = "SIGNED_IN"
	EventSignedOut        = "SIGNED_OUT"
	EventPasswordRecovery = "PASSWORD_RECOVERY"
	EventUserUpdated      = "USER_UPDATED"
)

type Change struct {
	Event  string      `json:"event"`
	UserID common.UUID `json:"user_id"`
	At     time.Time   `json:"at"`
}

func Topic(userID common.UUID) string {
	return "auth-" + userID.String()
}
