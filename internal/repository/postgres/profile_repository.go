package postgres

import (
	"context"
	"database/sql"
	"time"

	"gohire/internal/common"
	"gohire/internal/domain/profile"
)

const profileColumns = `id, role, full_name, email, phone, bio, avatar_url, area_of_work, location, cnpj,
	responsible_name, responsible_role, preferred_contract_type, institution_id, created_at, updated_at`

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, p profile.Profile) (*profile.Profile, error) {
	if p.ID.IsZero() {
		p.ID = common.NewUUID()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO profiles (`+profileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		p.ID, p.Role, p.FullName, p.Email, p.Phone, p.Bio, p.AvatarURL, p.AreaOfWork, p.Location, p.CNPJ,
		p.ResponsibleName, p.ResponsibleRole, p.PreferredContractType, nullUUID(p.InstitutionID), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "profile already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create profile", err)
	}
	return &p, nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id common.UUID) (*profile.Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	return scanProfile(row)
}

func (r *ProfileRepository) Update(ctx context.Context, p profile.Profile) (*profile.Profile, error) {
	row := r.db.QueryRowContext(ctx, `UPDATE profiles SET full_name = $1, phone = $2, bio = $3, avatar_url = $4, area_of_work = $5,
		location = $6, cnpj = $7, responsible_name = $8, responsible_role = $9, preferred_contract_type = $10,
		institution_id = $11, updated_at = $12
		WHERE id = $13
		RETURNING `+profileColumns,
		p.FullName, p.Phone, p.Bio, p.AvatarURL, p.AreaOfWork, p.Location, p.CNPJ, p.ResponsibleName, p.ResponsibleRole,
		p.PreferredContractType, nullUUID(p.InstitutionID), time.Now().UTC(), p.ID)
	return scanProfile(row)
}

func (r *ProfileRepository) ListByRole(ctx context.Context, role profile.Role, limit, offset int) ([]profile.Profile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE role = $1 ORDER BY full_name LIMIT $2 OFFSET $3`,
		role, limit, offset)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list profiles", err)
	}
	return collectProfiles(rows)
}

func (r *ProfileRepository) ListByInstitution(ctx context.Context, institutionID common.UUID) ([]profile.Profile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE institution_id = $1 ORDER BY full_name`, institutionID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list staff", err)
	}
	return collectProfiles(rows)
}

func collectProfiles(rows *sql.Rows) ([]profile.Profile, error) {
	defer rows.Close()
	var items []profile.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to read profiles", err)
	}
	return items, nil
}

func scanProfile(row rowScanner) (*profile.Profile, error) {
	var p profile.Profile
	var institutionID sql.NullString
	if err := row.Scan(&p.ID, &p.Role, &p.FullName, &p.Email, &p.Phone, &p.Bio, &p.AvatarURL, &p.AreaOfWork, &p.Location, &p.CNPJ,
		&p.ResponsibleName, &p.ResponsibleRole, &p.PreferredContractType, &institutionID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, notFoundOr(err, "profile not found", "failed to load profile")
	}
	p.InstitutionID = uuidPtr(institutionID)
	return &p, nil
}
