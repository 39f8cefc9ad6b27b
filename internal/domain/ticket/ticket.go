package ticket

import (
	"context"
	"time"

	"gohire/internal/common"
)

type Status string

const (
	StatusOpen       Status = "Aberto"
	StatusInProgress Status = "Em Andamento"
	StatusResolved   Status = "Resolvido"
	StatusClosed     Status = "Fechado"
)

var forward = map[Status][]Status{
	StatusOpen:       {StatusInProgress},
	StatusInProgress: {StatusResolved, StatusClosed},
	StatusResolved:   {StatusClosed},
}

func ParseStatus(value string) (Status, bool) {
	switch s := Status(value); s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return s, true
	default:
		return "", false
	}
}

func CanAdvance(from, to Status) bool {
	for _, next := range forward[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Ticket struct {
	ID        common.UUID `json:"id"`
	UserID    common.UUID `json:"user_id"`
	Subject   string      `json:"subject"`
	Message   string      `json:"message"`
	Status    Status      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type Repository interface {
	Create(ctx context.Context, t Ticket) (*Ticket, error)
	GetByID(ctx context.Context, id common.UUID) (*Ticket, error)
	ListByUser(ctx context.Context, userID common.UUID) ([]Ticket, error)
	UpdateStatus(ctx context.Context, id common.UUID, status Status) (*Ticket, error)
}
