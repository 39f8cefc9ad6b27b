package memory

import (
	"context"
	"sort"

	"gohire/internal/common"
	"gohire/internal/domain/ticket"
)

type TicketRepository struct {
	s *Store
}

func (r *TicketRepository) Create(_ context.Context, t ticket.Ticket) (*ticket.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.ID = common.NewUUID()
	now := r.s.stamp()
	t.CreatedAt = now
	t.UpdatedAt = now
	r.s.tickets[t.ID] = t
	return &t, nil
}

func (r *TicketRepository) GetByID(_ context.Context, id common.UUID) (*ticket.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tickets[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "ticket not found", nil)
	}
	return &t, nil
}

func (r *TicketRepository) ListByUser(_ context.Context, userID common.UUID) ([]ticket.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var items []ticket.Ticket
	for _, t := range r.s.tickets {
		if t.UserID == userID {
			items = append(items, t)
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (r *TicketRepository) UpdateStatus(_ context.Context, id common.UUID, status ticket.Status) (*ticket.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tickets[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "ticket not found", nil)
	}
	t.Status = status
	t.UpdatedAt = r.s.stamp()
	r.s.tickets[id] = t
	return &t, nil
}
