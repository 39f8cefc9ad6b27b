package postgres

import (
	"context"
	"database/sql"
	"time"

	"gohire/internal/common"
	"gohire/internal/domain/application"
)

const applicationSelect = `SELECT a.id, a.job_id, a.professor_id, a.status, COALESCE(j.title, ''), a.created_at, a.updated_at
	FROM applications a
	LEFT JOIN jobs j ON j.id = a.job_id`

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO applications (id, job_id, professor_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		app.ID, app.JobID, app.ProfessorID, app.Status, app.CreatedAt, app.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "already applied", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create application", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	return scanApplication(r.db.QueryRowContext(ctx, applicationSelect+` WHERE a.id = $1`, id))
}

func (r *ApplicationRepository) FindByJobAndProfessor(ctx context.Context, jobID, professorID common.UUID) (*application.Application, error) {
	return scanApplication(r.db.QueryRowContext(ctx, applicationSelect+` WHERE a.job_id = $1 AND a.professor_id = $2`, jobID, professorID))
}

func (r *ApplicationRepository) ListByProfessor(ctx context.Context, professorID common.UUID) ([]application.Application, error) {
	rows, err := r.db.QueryContext(ctx, applicationSelect+` WHERE a.professor_id = $1 ORDER BY a.created_at DESC`, professorID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list professor applications", err)
	}
	return collectApplications(rows)
}

func (r *ApplicationRepository) ListByInstitution(ctx context.Context, institutionID common.UUID) ([]application.Application, error) {
	rows, err := r.db.QueryContext(ctx, applicationSelect+` WHERE j.institution_id = $1 ORDER BY a.created_at DESC`, institutionID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list institution applications", err)
	}
	return collectApplications(rows)
}

func (r *ApplicationRepository) ListCandidates(ctx context.Context, institutionID common.UUID) ([]application.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT a.id, a.job_id, a.professor_id, a.status, j.title, a.created_at, a.updated_at,
		p.full_name, p.email, p.phone, p.avatar_url, p.area_of_work
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		JOIN profiles p ON p.id = a.professor_id
		WHERE j.institution_id = $1
		AND NOT EXISTS (SELECT 1 FROM contracts c WHERE c.application_id = a.id)
		ORDER BY a.created_at DESC`, institutionID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list candidates", err)
	}
	defer rows.Close()
	var items []application.Candidate
	for rows.Next() {
		var c application.Candidate
		if err := rows.Scan(&c.ID, &c.JobID, &c.ProfessorID, &c.Status, &c.JobTitle, &c.CreatedAt, &c.UpdatedAt,
			&c.ProfessorName, &c.ProfessorEmail, &c.ProfessorPhone, &c.ProfessorAvatarURL, &c.ProfessorArea); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan candidate", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to read candidates", err)
	}
	return items, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id common.UUID, status application.Status) error {
	result, err := r.db.ExecContext(ctx, `UPDATE applications SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now().UTC(), id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to update application", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "application not found", sql.ErrNoRows)
	}
	return nil
}

func collectApplications(rows *sql.Rows) ([]application.Application, error) {
	defer rows.Close()
	var items []application.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to read applications", err)
	}
	return items, nil
}

func scanApplication(row rowScanner) (*application.Application, error) {
	var app application.Application
	if err := row.Scan(&app.ID, &app.JobID, &app.ProfessorID, &app.Status, &app.JobTitle, &app.CreatedAt, &app.UpdatedAt); err != nil {
		return nil, notFoundOr(err, "application not found", "failed to load application")
	}
	return &app, nil
}
