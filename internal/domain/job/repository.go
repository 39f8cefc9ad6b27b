package job

import (
	"context"

	"gohire/internal/common"
)

type Repository interface {
	Create(ctx context.Context, j Job) (*Job, error)
	Update(ctx context.Context, j Job) (*Job, error)
	Delete(ctx context.Context, id, institutionID common.UUID) error
	GetByID(ctx context.Context, id common.UUID) (*Job, error)
	Search(ctx context.Context, filter Filter) ([]Job, error)
	ListByInstitution(ctx context.Context, institutionID common.UUID) ([]Job, error)
}
