package memory

import (
	"context"
	"sort"

	"gohire/internal/common"
	"gohire/internal/domain/job"
)

type JobRepository struct {
	s *Store
}

func (r *JobRepository) Create(_ context.Context, j job.Job) (*job.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j.ID = common.NewUUID()
	now := r.s.stamp()
	j.CreatedAt = now
	j.UpdatedAt = now
	r.s.jobs[j.ID] = j
	return r.s.decorateJob(j), nil
}

func (r *JobRepository) Update(_ context.Context, j job.Job) (*job.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.jobs[j.ID]
	if !ok || stored.InstitutionID != j.InstitutionID {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	j.CreatedAt = stored.CreatedAt
	j.UpdatedAt = r.s.stamp()
	r.s.jobs[j.ID] = j
	return r.s.decorateJob(j), nil
}

func (r *JobRepository) Delete(_ context.Context, id, institutionID common.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.jobs[id]
	if !ok || stored.InstitutionID != institutionID {
		return common.NewError(common.CodeNotFound, "job not found", nil)
	}
	delete(r.s.jobs, id)
	for appID, app := range r.s.applications {
		if app.JobID != id {
			continue
		}
		delete(r.s.applications, appID)
		delete(r.s.applicationKey, [2]common.UUID{app.JobID, app.ProfessorID})
		if contractID, ok := r.s.contractByApp[appID]; ok {
			delete(r.s.contracts, contractID)
			delete(r.s.contractByApp, appID)
			delete(r.s.messages, contractID)
		}
	}
	return nil
}

func (r *JobRepository) GetByID(_ context.Context, id common.UUID) (*job.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	j, ok := r.s.jobs[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	return r.s.decorateJob(j), nil
}

func (r *JobRepository) Search(_ context.Context, filter job.Filter) ([]job.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var items []job.Job
	for _, j := range r.s.jobs {
		if filter.Matches(j) {
			items = append(items, *r.s.decorateJob(j))
		}
	}
	sortNewestJobs(items)
	return page(items, filter.Limit, filter.Offset), nil
}

func (r *JobRepository) ListByInstitution(_ context.Context, institutionID common.UUID) ([]job.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var items []job.Job
	for _, j := range r.s.jobs {
		if j.InstitutionID == institutionID {
			items = append(items, *r.s.decorateJob(j))
		}
	}
	sortNewestJobs(items)
	return items, nil
}

// decorateJob fills the joined fields. Callers hold the lock.
func (s *Store) decorateJob(j job.Job) *job.Job {
	if p, ok := s.profiles[j.InstitutionID]; ok {
		j.InstitutionName = p.FullName
	}
	j.ApplicationsCount = 0
	for _, app := range s.applications {
		if app.JobID == j.ID {
			j.ApplicationsCount++
		}
	}
	j.Requirements = append([]string(nil), j.Requirements...)
	return &j
}

func sortNewestJobs(items []job.Job) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
}
