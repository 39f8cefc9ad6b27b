package memory

import (
	"context"
	"sort"

	"gohire/internal/common"
	"gohire/internal/domain/profile"
)

type ProfileRepository struct {
	s *Store
}

func (r *ProfileRepository) Create(_ context.Context, p profile.Profile) (*profile.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = common.NewUUID()
	}
	if _, ok := r.s.profiles[p.ID]; ok {
		return nil, common.NewError(common.CodeConflict, "profile already exists", nil)
	}
	now := r.s.stamp()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.s.profiles[p.ID] = p
	return &p, nil
}

func (r *ProfileRepository) GetByID(_ context.Context, id common.UUID) (*profile.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "profile not found", nil)
	}
	return &p, nil
}

func (r *ProfileRepository) Update(_ context.Context, p profile.Profile) (*profile.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.profiles[p.ID]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "profile not found", nil)
	}
	p.Role = stored.Role
	p.Email = stored.Email
	p.CreatedAt = stored.CreatedAt
	p.UpdatedAt = r.s.stamp()
	r.s.profiles[p.ID] = p
	return &p, nil
}

func (r *ProfileRepository) ListByRole(_ context.Context, role profile.Role, limit, offset int) ([]profile.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var items []profile.Profile
	for _, p := range r.s.profiles {
		if p.Role == role {
			items = append(items, p)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].FullName < items[j].FullName })
	return page(items, limit, offset), nil
}

func (r *ProfileRepository) ListByInstitution(_ context.Context, institutionID common.UUID) ([]profile.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var items []profile.Profile
	for _, p := range r.s.profiles {
		if p.InstitutionID != nil && *p.InstitutionID == institutionID {
			items = append(items, p)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].FullName < items[j].FullName })
	return items, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
