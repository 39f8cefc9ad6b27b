package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gohire/internal/common"
	"gohire/internal/domain/contract"
)

const contractSelect = `SELECT c.id, c.institution_id, c.professor_id, c.job_id, c.application_id, c.title, c.status,
	COALESCE(i.full_name, ''), COALESCE(i.phone, ''), COALESCE(p.full_name, ''), c.created_at, c.updated_at
	FROM contracts c
	LEFT JOIN profiles i ON i.id = c.institution_id
	LEFT JOIN profiles p ON p.id = c.professor_id`

type ContractRepository struct {
	db *sql.DB
}

func NewContractRepository(db *sql.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) Create(ctx context.Context, c contract.Contract) (*contract.Contract, error) {
	c.ID = common.NewUUID()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO contracts (id, institution_id, professor_id, job_id, application_id, title, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.InstitutionID, c.ProfessorID, c.JobID, c.ApplicationID, c.Title, c.Status, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "application already has a contract", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create contract", err)
	}
	return r.GetByID(ctx, c.ID)
}

func (r *ContractRepository) GetByID(ctx context.Context, id common.UUID) (*contract.Contract, error) {
	return scanContract(r.db.QueryRowContext(ctx, contractSelect+` WHERE c.id = $1`, id))
}

func (r *ContractRepository) FindByApplication(ctx context.Context, applicationID common.UUID) (*contract.Contract, error) {
	return scanContract(r.db.QueryRowContext(ctx, contractSelect+` WHERE c.application_id = $1`, applicationID))
}

func (r *ContractRepository) ListByProfessor(ctx context.Context, professorID common.UUID) ([]contract.Contract, error) {
	rows, err := r.db.QueryContext(ctx, contractSelect+` WHERE c.professor_id = $1 ORDER BY c.created_at DESC`, professorID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list contracts", err)
	}
	return collectContracts(rows)
}

func (r *ContractRepository) ListByInstitution(ctx context.Context, institutionID common.UUID) ([]contract.Contract, error) {
	rows, err := r.db.QueryContext(ctx, contractSelect+` WHERE c.institution_id = $1 ORDER BY c.created_at DESC`, institutionID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list contracts", err)
	}
	return collectContracts(rows)
}

func (r *ContractRepository) UpdateStatus(ctx context.Context, id common.UUID, from, to contract.Status) (*contract.Contract, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE contracts SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		to, time.Now().UTC(), id, from)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update contract", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update contract", err)
	}
	if rows == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, common.NewError(common.CodeConflict, "contract status changed", errors.New("conditional update matched no row"))
	}
	return r.GetByID(ctx, id)
}

func collectContracts(rows *sql.Rows) ([]contract.Contract, error) {
	defer rows.Close()
	var items []contract.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to read contracts", err)
	}
	return items, nil
}

func scanContract(row rowScanner) (*contract.Contract, error) {
	var c contract.Contract
	if err := row.Scan(&c.ID, &c.InstitutionID, &c.ProfessorID, &c.JobID, &c.ApplicationID, &c.Title, &c.Status,
		&c.InstitutionName, &c.InstitutionPhone, &c.ProfessorName, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, notFoundOr(err, "contract not found", "failed to load contract")
	}
	return &c, nil
}
