package app

import (
	"context"

	"gohire/internal/common"
	"gohire/internal/domain/analytics"
	"gohire/internal/domain/application"
	"gohire/internal/domain/job"
	"gohire/internal/domain/profile"
	"gohire/internal/notify"
)

type ApplicationService struct {
	repo      application.Repository
	jobs      job.Repository
	profiles  profile.Repository
	analytics analytics.Repository
	links     *notify.LinkBuilder
}

func NewApplicationService(repo application.Repository, jobs job.Repository, profiles profile.Repository, analytics analytics.Repository, links *notify.LinkBuilder) *ApplicationService {
	return &ApplicationService{repo: repo, jobs: jobs, profiles: profiles, analytics: analytics, links: links}
}

// Apply submits the professor's application. At most one application exists
// per (job, professor): the lookup answers the common case and the storage
// constraint settles concurrent submissions.
func (s *ApplicationService) Apply(ctx context.Context, professorID, jobID common.UUID) (*application.Application, error) {
	if _, err := requireRole(ctx, s.profiles, professorID, profile.RoleProfessor); err != nil {
		return nil, err
	}
	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByJobAndProfessor(ctx, jobID, professorID); err == nil {
		return nil, common.NewError(common.CodeConflict, "already applied", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	created, err := s.repo.Create(ctx, application.Application{
		JobID:       jobID,
		ProfessorID: professorID,
		Status:      application.StatusSent,
	})
	if err != nil {
		return nil, err
	}
	created.JobTitle = j.Title
	_ = s.analytics.Create(ctx, analytics.Event{Name: "application.created", UserID: &professorID, Payload: analyticsPayload(ctx, map[string]string{"application_id": created.ID.String(), "job_id": jobID.String()})})
	return created, nil
}

type ApplicationStatus struct {
	Applied     bool                     `json:"applied"`
	Application *application.Application `json:"application,omitempty"`
}

func (s *ApplicationService) Status(ctx context.Context, professorID, jobID common.UUID) (*ApplicationStatus, error) {
	app, err := s.repo.FindByJobAndProfessor(ctx, jobID, professorID)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return &ApplicationStatus{}, nil
		}
		return nil, err
	}
	return &ApplicationStatus{Applied: true, Application: app}, nil
}

func (s *ApplicationService) ListByProfessor(ctx context.Context, professorID common.UUID) ([]application.Application, error) {
	items, err := s.repo.ListByProfessor(ctx, professorID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []application.Application{}
	}
	return items, nil
}

// ListCandidates returns the institution's applicants that have no contract
// yet, each with a pre-filled chat link when a phone is known.
func (s *ApplicationService) ListCandidates(ctx context.Context, institutionID common.UUID) ([]application.Candidate, error) {
	if _, err := requireRole(ctx, s.profiles, institutionID, profile.RoleInstitution); err != nil {
		return nil, err
	}
	items, err := s.repo.ListCandidates(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		return []application.Candidate{}, nil
	}
	if s.links != nil {
		for i := range items {
			if link, ok := s.links.Link(items[i].ProfessorPhone, notify.CandidateMessage(items[i].ProfessorName, items[i].JobTitle)); ok {
				items[i].ContactURL = link
			}
		}
	}
	return items, nil
}
