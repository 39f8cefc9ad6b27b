package auth

import (
	"context"
	"time"

	"gohire/internal/common"
)

type Identity struct {
	ID           common.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type IdentityRepository interface {
	// Create fails with CodeConflict when the email is taken.
	Create(ctx context.Context, identity Identity) (*Identity, error)
	GetByEmail(ctx context.Context, email string) (*Identity, error)
	GetByID(ctx context.Context, id common.UUID) (*Identity, error)
	UpdatePassword(ctx context.Context, id common.UUID, passwordHash string) error
	Delete(ctx context.Context, id common.UUID) error
}
