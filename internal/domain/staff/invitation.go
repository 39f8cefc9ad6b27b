package staff

import (
	"context"
	"time"

	"gohire/internal/common"
)

type Invitation struct {
	ID            common.UUID `json:"id"`
	InstitutionID common.UUID `json:"institution_id"`
	Email         string      `json:"email"`
	InvitedBy     common.UUID `json:"invited_by"`
	TokenHash     string      `json:"-"`
	ExpiresAt     time.Time   `json:"expires_at"`
	AcceptedAt    *time.Time  `json:"accepted_at,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, inv Invitation) (*Invitation, error)
	ListByInstitution(ctx context.Context, institutionID common.UUID) ([]Invitation, error)
}
