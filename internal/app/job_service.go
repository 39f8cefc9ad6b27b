package app

import (
	"context"
	"fmt"
	"strings"

	"gohire/internal/common"
	"gohire/internal/domain/analytics"
	"gohire/internal/domain/job"
	"gohire/internal/domain/profile"
	"gohire/internal/notify"
)

type JobService struct {
	jobs      job.Repository
	profiles  profile.Repository
	analytics analytics.Repository
	logger    Logger
}

func NewJobService(jobs job.Repository, profiles profile.Repository, analytics analytics.Repository, logger Logger) *JobService {
	return &JobService{jobs: jobs, profiles: profiles, analytics: analytics, logger: logger}
}

type JobInput struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Requirements   []string `json:"requirements"`
	Location       string   `json:"location"`
	City           string   `json:"city"`
	Salary         *float64 `json:"salary"`
	EducationLevel string   `json:"education_level"`
	ContractType   string   `json:"contract_type"`
}

func (in JobInput) validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "title is required"
	}
	if strings.TrimSpace(in.Description) == "" {
		fields["description"] = "description is required"
	}
	if strings.TrimSpace(in.Location) == "" {
		fields["location"] = "location is required"
	}
	if in.Salary != nil && *in.Salary < 0 {
		fields["salary"] = "salary cannot be negative"
	}
	if len(fields) > 0 {
		return common.NewValidationError("invalid job", fields)
	}
	return nil
}

func (in JobInput) apply(j *job.Job) {
	j.Title = strings.TrimSpace(in.Title)
	j.Description = strings.TrimSpace(in.Description)
	j.Requirements = cleanList(in.Requirements)
	j.Location = strings.TrimSpace(in.Location)
	j.City = strings.TrimSpace(in.City)
	j.Salary = in.Salary
	j.EducationLevel = strings.TrimSpace(in.EducationLevel)
	j.ContractType = strings.TrimSpace(in.ContractType)
	j.Details = map[string]any{
		"description":     j.Description,
		"requirements":    j.Requirements,
		"education_level": j.EducationLevel,
		"contract_type":   j.ContractType,
	}
}

func (s *JobService) Create(ctx context.Context, institutionID common.UUID, input JobInput) (*job.Job, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if _, err := requireRole(ctx, s.profiles, institutionID, profile.RoleInstitution); err != nil {
		return nil, err
	}
	j := job.Job{InstitutionID: institutionID}
	input.apply(&j)
	created, err := s.jobs.Create(ctx, j)
	if err != nil {
		return nil, err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "job.created", UserID: &institutionID, Payload: analyticsPayload(ctx, map[string]string{"job_id": created.ID.String()})})
	return created, nil
}

func (s *JobService) Update(ctx context.Context, institutionID, jobID common.UUID, input JobInput) (*job.Job, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	current, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if current.InstitutionID != institutionID {
		return nil, common.NewError(common.CodeForbidden, "job belongs to another institution", nil)
	}
	input.apply(current)
	updated, err := s.jobs.Update(ctx, *current)
	if err != nil {
		return nil, err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "job.updated", UserID: &institutionID, Payload: analyticsPayload(ctx, map[string]string{"job_id": jobID.String()})})
	return updated, nil
}

func (s *JobService) Delete(ctx context.Context, institutionID, jobID common.UUID) error {
	current, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if current.InstitutionID != institutionID {
		return common.NewError(common.CodeForbidden, "job belongs to another institution", nil)
	}
	if err := s.jobs.Delete(ctx, jobID, institutionID); err != nil {
		return err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "job.deleted", UserID: &institutionID, Payload: analyticsPayload(ctx, map[string]string{"job_id": jobID.String()})})
	return nil
}

// Get returns the job with its description rendered from markdown.
func (s *JobService) Get(ctx context.Context, jobID common.UUID) (*job.Job, error) {
	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	rendered, err := notify.RenderMarkdown(j.Description)
	if err != nil {
		logError(s.logger, fmt.Sprintf("job description render failed job_id=%s err=%v", j.ID, err))
	} else {
		j.DescriptionHTML = rendered
	}
	return j, nil
}

func (s *JobService) Search(ctx context.Context, filter job.Filter) ([]job.Job, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	items, err := s.jobs.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []job.Job{}
	}
	return items, nil
}

func (s *JobService) ListByInstitution(ctx context.Context, institutionID common.UUID) ([]job.Job, error) {
	if _, err := requireRole(ctx, s.profiles, institutionID, profile.RoleInstitution); err != nil {
		return nil, err
	}
	items, err := s.jobs.ListByInstitution(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []job.Job{}
	}
	return items, nil
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
