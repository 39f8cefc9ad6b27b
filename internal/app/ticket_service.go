package app

import (
	"context"
	"strings"

	"gohire/internal/common"
	"gohire/internal/domain/analytics"
	"gohire/internal/domain/ticket"
)

type TicketService struct {
	repo      ticket.Repository
	analytics analytics.Repository
}

func NewTicketService(repo ticket.Repository, analytics analytics.Repository) *TicketService {
	return &TicketService{repo: repo, analytics: analytics}
}

func (s *TicketService) Create(ctx context.Context, userID common.UUID, subject, body string) (*ticket.Ticket, error) {
	fields := map[string]string{}
	if strings.TrimSpace(subject) == "" {
		fields["subject"] = "subject is required"
	}
	if strings.TrimSpace(body) == "" {
		fields["message"] = "message is required"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid ticket", fields)
	}
	created, err := s.repo.Create(ctx, ticket.Ticket{
		UserID:  userID,
		Subject: strings.TrimSpace(subject),
		Message: strings.TrimSpace(body),
		Status:  ticket.StatusOpen,
	})
	if err != nil {
		return nil, err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "ticket.created", UserID: &userID, Payload: analyticsPayload(ctx, map[string]string{"ticket_id": created.ID.String()})})
	return created, nil
}

func (s *TicketService) ListOwn(ctx context.Context, userID common.UUID) ([]ticket.Ticket, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []ticket.Ticket{}
	}
	return items, nil
}

func (s *TicketService) UpdateStatus(ctx context.Context, userID, ticketID common.UUID, status string) (*ticket.Ticket, error) {
	next, ok := ticket.ParseStatus(strings.TrimSpace(status))
	if !ok {
		return nil, common.NewValidationError("invalid status", map[string]string{"status": "status must be Aberto, Em Andamento, Resolvido or Fechado"})
	}
	current, err := s.repo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if current.UserID != userID {
		return nil, common.NewError(common.CodeForbidden, "ticket belongs to another user", nil)
	}
	if !ticket.CanAdvance(current.Status, next) {
		return nil, common.NewError(common.CodeValidation, "invalid status transition", nil)
	}
	updated, err := s.repo.UpdateStatus(ctx, ticketID, next)
	if err != nil {
		return nil, err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "ticket.status_changed", UserID: &userID, Payload: analyticsPayload(ctx, map[string]string{"ticket_id": ticketID.String(), "status": string(next)})})
	return updated, nil
}
