package postgres

import (
	"context"
	"database/sql"
	"time"

	"gohire/internal/common"
	"gohire/internal/domain/staff"
)

type InvitationRepository struct {
	db *sql.DB
}

func NewInvitationRepository(db *sql.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) Create(ctx context.Context, inv staff.Invitation) (*staff.Invitation, error) {
	inv.ID = common.NewUUID()
	inv.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO invitations (id, institution_id, email, token_hash, invited_by, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		inv.ID, inv.InstitutionID, inv.Email, inv.TokenHash, inv.InvitedBy, inv.ExpiresAt, inv.CreatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to store invitation", err)
	}
	return &inv, nil
}

func (r *InvitationRepository) ListByInstitution(ctx context.Context, institutionID common.UUID) ([]staff.Invitation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, institution_id, email, invited_by, expires_at, accepted_at, created_at
		FROM invitations WHERE institution_id = $1 ORDER BY created_at DESC`, institutionID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list invitations", err)
	}
	defer rows.Close()
	var items []staff.Invitation
	for rows.Next() {
		var inv staff.Invitation
		var acceptedAt sql.NullTime
		if err := rows.Scan(&inv.ID, &inv.InstitutionID, &inv.Email, &inv.InvitedBy, &inv.ExpiresAt, &acceptedAt, &inv.CreatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan invitation", err)
		}
		inv.AcceptedAt = timePtr(acceptedAt)
		items = append(items, inv)
	}
	return items, rows.Err()
}
