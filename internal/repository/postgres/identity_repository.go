package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"gohire/internal/common"
	"gohire/internal/domain/auth"
)

type IdentityRepository struct {
	db *sql.DB
}

func NewIdentityRepository(db *sql.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

func (r *IdentityRepository) Create(ctx context.Context, identity auth.Identity) (*auth.Identity, error) {
	if identity.ID.IsZero() {
		identity.ID = common.NewUUID()
	}
	now := time.Now().UTC()
	identity.Email = strings.ToLower(strings.TrimSpace(identity.Email))
	identity.CreatedAt = now
	identity.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO identities (id, email, password_hash, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		identity.ID, identity.Email, identity.PasswordHash, identity.CreatedAt, identity.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "user already registered", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create identity", err)
	}
	return &identity, nil
}

func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (*auth.Identity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, email, password_hash, created_at, updated_at FROM identities WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)))
	return scanIdentity(row)
}

func (r *IdentityRepository) GetByID(ctx context.Context, id common.UUID) (*auth.Identity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, email, password_hash, created_at, updated_at FROM identities WHERE id = $1`, id)
	return scanIdentity(row)
}

func (r *IdentityRepository) UpdatePassword(ctx context.Context, id common.UUID, passwordHash string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE identities SET password_hash = $1, updated_at = $2 WHERE id = $3`, passwordHash, time.Now().UTC(), id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to update password", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "identity not found", sql.ErrNoRows)
	}
	return nil
}

func (r *IdentityRepository) Delete(ctx context.Context, id common.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM identities WHERE id = $1`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete identity", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "identity not found", sql.ErrNoRows)
	}
	return nil
}

func scanIdentity(row rowScanner) (*auth.Identity, error) {
	var identity auth.Identity
	if err := row.Scan(&identity.ID, &identity.Email, &identity.PasswordHash, &identity.CreatedAt, &identity.UpdatedAt); err != nil {
		return nil, notFoundOr(err, "identity not found", "failed to load identity")
	}
	return &identity, nil
}
