package memory

import (
	"context"
	"sort"

	"gohire/internal/common"
	"gohire/internal/domain/staff"
)

type InvitationRepository struct {
	s *Store
}

func (r *InvitationRepository) Create(_ context.Context, inv staff.Invitation) (*staff.Invitation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv.ID = common.NewUUID()
	inv.CreatedAt = r.s.stamp()
	r.s.invitations[inv.ID] = inv
	return &inv, nil
}

func (r *InvitationRepository) ListByInstitution(_ context.Context, institutionID common.UUID) ([]staff.Invitation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var items []staff.Invitation
	for _, inv := range r.s.invitations {
		if inv.InstitutionID == institutionID {
			items = append(items, inv)
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}
