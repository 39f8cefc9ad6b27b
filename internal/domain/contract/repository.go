package contract

import (
	"context"

	"gohire/internal/common"
)

type Repository interface {
	// Create fails with CodeConflict when the application already has a contract.
	Create(ctx context.Context, c Contract) (*Contract, error)
	GetByID(ctx context.Context, id common.UUID) (*Contract, error)
	FindByApplication(ctx context.Context, applicationID common.UUID) (*Contract, error)
	ListByProfessor(ctx context.Context, professorID common.UUID) ([]Contract, error)
	ListByInstitution(ctx context.Context, institutionID common.UUID) ([]Contract, error)
	// UpdateStatus moves the contract only while it is still in from. A
	// contract found in another status yields CodeConflict.
	UpdateStatus(ctx context.Context, id common.UUID, from, to Status) (*Contract, error)
}
