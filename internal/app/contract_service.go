package app

import (
	"context"
	"fmt"

	"gohire/internal/common"
	"gohire/internal/domain/analytics"
	"gohire/internal/domain/application"
	"gohire/internal/domain/contract"
	"gohire/internal/domain/job"
	"gohire/internal/domain/profile"
	"gohire/internal/notify"
)

type ContractService struct {
	repo         contract.Repository
	applications application.Repository
	jobs         job.Repository
	profiles     profile.Repository
	analytics    analytics.Repository
	links        *notify.LinkBuilder
	logger       Logger
}

func NewContractService(repo contract.Repository, applications application.Repository, jobs job.Repository, profiles profile.Repository, analytics analytics.Repository, links *notify.LinkBuilder, logger Logger) *ContractService {
	return &ContractService{
		repo:         repo,
		applications: applications,
		jobs:         jobs,
		profiles:     profiles,
		analytics:    analytics,
		links:        links,
		logger:       logger,
	}
}

// Create proposes a contract for one application of a job the institution
// owns. An application gets at most one contract.
func (s *ContractService) Create(ctx context.Context, institutionID, applicationID common.UUID) (*contract.Contract, error) {
	if _, err := requireRole(ctx, s.profiles, institutionID, profile.RoleInstitution); err != nil {
		return nil, err
	}
	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	j, err := s.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return nil, err
	}
	if j.InstitutionID != institutionID {
		return nil, common.NewError(common.CodeForbidden, "application belongs to another institution", nil)
	}
	if _, err := s.repo.FindByApplication(ctx, applicationID); err == nil {
		return nil, common.NewError(common.CodeConflict, "application already has a contract", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	created, err := s.repo.Create(ctx, contract.Contract{
		InstitutionID: institutionID,
		ProfessorID:   app.ProfessorID,
		JobID:         j.ID,
		ApplicationID: app.ID,
		Title:         contract.TitleFor(j.Title),
		Status:        contract.StatusPending,
	})
	if err != nil {
		return nil, err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "contract.created", UserID: &institutionID, Payload: analyticsPayload(ctx, map[string]string{
		"contract_id":    created.ID.String(),
		"application_id": app.ID.String(),
		"professor_id":   app.ProfessorID.String(),
	})})
	logInfo(s.logger, fmt.Sprintf("contract proposed contract_id=%s", created.ID))
	return created, nil
}

type AcceptResult struct {
	Contract  *contract.Contract `json:"contract"`
	NotifyURL string             `json:"notify_url,omitempty"`
}

// Accept moves a pending contract to Ativo. When the institution has a phone
// number the result carries a pre-filled chat link for the professor.
func (s *ContractService) Accept(ctx context.Context, professorID, contractID common.UUID) (*AcceptResult, error) {
	updated, err := s.respond(ctx, professorID, contractID, contract.StatusActive)
	if err != nil {
		return nil, err
	}
	result := &AcceptResult{Contract: updated}
	if s.links != nil && updated.InstitutionPhone != "" {
		jobTitle := updated.Title
		if j, err := s.jobs.GetByID(ctx, updated.JobID); err == nil {
			jobTitle = j.Title
		}
		if link, ok := s.links.Link(updated.InstitutionPhone, notify.AcceptanceMessage(updated.InstitutionName, jobTitle)); ok {
			result.NotifyURL = link
		}
	}
	return result, nil
}

func (s *ContractService) Reject(ctx context.Context, professorID, contractID common.UUID) (*contract.Contract, error) {
	return s.respond(ctx, professorID, contractID, contract.StatusRejected)
}

func (s *ContractService) respond(ctx context.Context, professorID, contractID common.UUID, to contract.Status) (*contract.Contract, error) {
	current, err := s.repo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if current.ProfessorID != professorID {
		return nil, common.NewError(common.CodeForbidden, "only the invited professor can answer this contract", nil)
	}
	if current.Status.IsFinal() {
		return nil, common.NewError(common.CodeValidation, "contract status is final", nil)
	}
	if !contract.CanTransition(current.Status, to, profile.RoleProfessor) {
		return nil, common.NewError(common.CodeValidation, "invalid status transition", nil)
	}
	updated, err := s.repo.UpdateStatus(ctx, contractID, current.Status, to)
	if err != nil {
		return nil, err
	}

	appStatus := application.StatusAccepted
	eventName := "contract.accepted"
	if to == contract.StatusRejected {
		appStatus = application.StatusRejected
		eventName = "contract.rejected"
	}
	if err := s.applications.UpdateStatus(ctx, updated.ApplicationID, appStatus); err != nil {
		logError(s.logger, fmt.Sprintf("application status mirror failed application_id=%s err=%v", updated.ApplicationID, err))
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: eventName, UserID: &professorID, Payload: analyticsPayload(ctx, map[string]string{
		"contract_id":    updated.ID.String(),
		"institution_id": updated.InstitutionID.String(),
	})})
	logInfo(s.logger, fmt.Sprintf("contract answered contract_id=%s status=%s", updated.ID, updated.Status))
	return updated, nil
}

// List returns the caller's contracts, newest first, from the side matching
// the caller's role.
func (s *ContractService) List(ctx context.Context, userID common.UUID) ([]contract.Contract, error) {
	caller, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	var items []contract.Contract
	if caller.IsInstitution() {
		items, err = s.repo.ListByInstitution(ctx, userID)
	} else {
		items, err = s.repo.ListByProfessor(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []contract.Contract{}
	}
	return items, nil
}

func (s *ContractService) Get(ctx context.Context, userID, contractID common.UUID) (*contract.Contract, error) {
	c, err := s.repo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if !c.IsParty(userID) {
		return nil, common.NewError(common.CodeForbidden, "not a party to this contract", nil)
	}
	return c, nil
}
