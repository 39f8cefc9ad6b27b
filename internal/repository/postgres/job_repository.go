package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/lib/pq"

	"gohire/internal/common"
	"gohire/internal/domain/job"
)

const jobSelect = `SELECT j.id, j.institution_id, COALESCE(p.full_name, ''), j.title, j.description, j.requirements, j.location, j.city,
	j.salary, j.education_level, j.contract_type, j.details,
	(SELECT COUNT(*) FROM applications a WHERE a.job_id = j.id), j.created_at, j.updated_at
	FROM jobs j
	LEFT JOIN profiles p ON p.id = j.institution_id`

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, j job.Job) (*job.Job, error) {
	j.ID = common.NewUUID()
	now := time.Now().UTC()
	j.CreatedAt = now
	j.UpdatedAt = now
	details, err := encodeJSON(j.Details)
	if err != nil {
		return nil, common.NewError(common.CodeValidation, "invalid job details", err)
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO jobs (id, institution_id, title, description, requirements, location, city, salary,
		education_level, contract_type, details, title_search, location_search, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		j.ID, j.InstitutionID, j.Title, j.Description, pq.Array(j.Requirements), j.Location, j.City, nullFloat(j.Salary),
		j.EducationLevel, j.ContractType, details, job.Fold(j.Title), job.Fold(j.Location), j.CreatedAt, j.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create job", err)
	}
	return r.GetByID(ctx, j.ID)
}

func (r *JobRepository) Update(ctx context.Context, j job.Job) (*job.Job, error) {
	details, err := encodeJSON(j.Details)
	if err != nil {
		return nil, common.NewError(common.CodeValidation, "invalid job details", err)
	}
	result, err := r.db.ExecContext(ctx, `UPDATE jobs SET title = $1, description = $2, requirements = $3, location = $4, city = $5,
		salary = $6, education_level = $7, contract_type = $8, details = $9, title_search = $10, location_search = $11, updated_at = $12
		WHERE id = $13 AND institution_id = $14`,
		j.Title, j.Description, pq.Array(j.Requirements), j.Location, j.City, nullFloat(j.Salary), j.EducationLevel, j.ContractType,
		details, job.Fold(j.Title), job.Fold(j.Location), time.Now().UTC(), j.ID, j.InstitutionID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update job", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "job not found", sql.ErrNoRows)
	}
	return r.GetByID(ctx, j.ID)
}

func (r *JobRepository) Delete(ctx context.Context, id, institutionID common.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1 AND institution_id = $2`, id, institutionID)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete job", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "job not found", sql.ErrNoRows)
	}
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id common.UUID) (*job.Job, error) {
	row := r.db.QueryRowContext(ctx, jobSelect+` WHERE j.id = $1`, id)
	return scanJob(row)
}

func (r *JobRepository) Search(ctx context.Context, filter job.Filter) ([]job.Job, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, jobSelect+`
		WHERE ($1 = '' OR j.title_search LIKE $1 ESCAPE '\')
		AND ($2 = '' OR j.location_search LIKE $2 ESCAPE '\')
		ORDER BY j.created_at DESC LIMIT $3 OFFSET $4`,
		containsPattern(job.Fold(filter.Title)), containsPattern(job.Fold(filter.Location)), limit, filter.Offset)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to search jobs", err)
	}
	return collectJobs(rows)
}

// containsPattern turns a folded term into a LIKE pattern that matches it as
// a literal substring. An empty term stays empty and disables the filter.
func containsPattern(term string) string {
	if term == "" {
		return ""
	}
	return "%" + likeEscaper.Replace(term) + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *JobRepository) ListByInstitution(ctx context.Context, institutionID common.UUID) ([]job.Job, error) {
	rows, err := r.db.QueryContext(ctx, jobSelect+` WHERE j.institution_id = $1 ORDER BY j.created_at DESC`, institutionID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list institution jobs", err)
	}
	return collectJobs(rows)
}

func collectJobs(rows *sql.Rows) ([]job.Job, error) {
	defer rows.Close()
	var items []job.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to read jobs", err)
	}
	return items, nil
}

func scanJob(row rowScanner) (*job.Job, error) {
	var j job.Job
	var salary sql.NullFloat64
	var details []byte
	if err := row.Scan(&j.ID, &j.InstitutionID, &j.InstitutionName, &j.Title, &j.Description, pq.Array(&j.Requirements), &j.Location,
		&j.City, &salary, &j.EducationLevel, &j.ContractType, &details, &j.ApplicationsCount, &j.CreatedAt, &j.UpdatedAt); err != nil {
		return nil, notFoundOr(err, "job not found", "failed to load job")
	}
	j.Salary = floatPtr(salary)
	j.Details = decodeDetails(details)
	if j.Requirements == nil {
		j.Requirements = []string{}
	}
	return &j, nil
}
