package profile

import (
	"context"

	"gohire/internal/common"
)

type Repository interface {
	Create(ctx context.Context, p Profile) (*Profile, error)
	GetByID(ctx context.Context, id common.UUID) (*Profile, error)
	// Update writes the editable fields; ID, Role and Email are never changed.
	Update(ctx context.Context, p Profile) (*Profile, error)
	ListByRole(ctx context.Context, role Role, limit, offset int) ([]Profile, error)
	ListByInstitution(ctx context.Context, institutionID common.UUID) ([]Profile, error)
}
