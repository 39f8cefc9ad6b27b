package memory

import (
	"context"
	"sort"

	"gohire/internal/common"
	"gohire/internal/domain/application"
)

type ApplicationRepository struct {
	s *Store
}

func (r *ApplicationRepository) Create(_ context.Context, app application.Application) (*application.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := [2]common.UUID{app.JobID, app.ProfessorID}
	if _, ok := r.s.applicationKey[key]; ok {
		return nil, common.NewError(common.CodeConflict, "already applied", nil)
	}
	if _, ok := r.s.jobs[app.JobID]; !ok {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	app.ID = common.NewUUID()
	now := r.s.stamp()
	app.CreatedAt = now
	app.UpdatedAt = now
	r.s.applications[app.ID] = app
	r.s.applicationKey[key] = app.ID
	return &app, nil
}

func (r *ApplicationRepository) GetByID(_ context.Context, id common.UUID) (*application.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	app, ok := r.s.applications[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	return r.s.withJobTitle(app), nil
}

func (r *ApplicationRepository) FindByJobAndProfessor(_ context.Context, jobID, professorID common.UUID) (*application.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.applicationKey[[2]common.UUID{jobID, professorID}]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	return r.s.withJobTitle(r.s.applications[id]), nil
}

func (r *ApplicationRepository) ListByProfessor(_ context.Context, professorID common.UUID) ([]application.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var items []application.Application
	for _, app := range r.s.applications {
		if app.ProfessorID == professorID {
			items = append(items, *r.s.withJobTitle(app))
		}
	}
	sortNewestApplications(items)
	return items, nil
}

func (r *ApplicationRepository) ListCandidates(_ context.Context, institutionID common.UUID) ([]application.Candidate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var items []application.Candidate
	for _, app := range r.s.applications {
		j, ok := r.s.jobs[app.JobID]
		if !ok || j.InstitutionID != institutionID {
			continue
		}
		if _, contracted := r.s.contractByApp[app.ID]; contracted {
			continue
		}
		candidate := application.Candidate{Application: app}
		candidate.JobTitle = j.Title
		if p, ok := r.s.profiles[app.ProfessorID]; ok {
			candidate.ProfessorName = p.FullName
			candidate.ProfessorEmail = p.Email
			candidate.ProfessorPhone = p.Phone
			candidate.ProfessorAvatarURL = p.AvatarURL
			candidate.ProfessorArea = p.AreaOfWork
		}
		items = append(items, candidate)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (r *ApplicationRepository) ListByInstitution(_ context.Context, institutionID common.UUID) ([]application.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var items []application.Application
	for _, app := range r.s.applications {
		if j, ok := r.s.jobs[app.JobID]; ok && j.InstitutionID == institutionID {
			items = append(items, *r.s.withJobTitle(app))
		}
	}
	sortNewestApplications(items)
	return items, nil
}

func (r *ApplicationRepository) UpdateStatus(_ context.Context, id common.UUID, status application.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	app, ok := r.s.applications[id]
	if !ok {
		return common.NewError(common.CodeNotFound, "application not found", nil)
	}
	app.Status = status
	app.UpdatedAt = r.s.stamp()
	r.s.applications[id] = app
	return nil
}

func (s *Store) withJobTitle(app application.Application) *application.Application {
	if j, ok := s.jobs[app.JobID]; ok {
		app.JobTitle = j.Title
	}
	return &app
}

func sortNewestApplications(items []application.Application) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
}
