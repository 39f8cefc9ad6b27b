package postgres

import (
	"context"
	"database/sql"
	"time"

	"gohire/internal/common"
	"gohire/internal/domain/ticket"
)

const ticketColumns = `id, user_id, subject, message, status, created_at, updated_at`

type TicketRepository struct {
	db *sql.DB
}

func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Create(ctx context.Context, t ticket.Ticket) (*ticket.Ticket, error) {
	t.ID = common.NewUUID()
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO support_tickets (`+ticketColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.UserID, t.Subject, t.Message, t.Status, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create ticket", err)
	}
	return &t, nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id common.UUID) (*ticket.Ticket, error) {
	return scanTicket(r.db.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM support_tickets WHERE id = $1`, id))
}

func (r *TicketRepository) ListByUser(ctx context.Context, userID common.UUID) ([]ticket.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+ticketColumns+` FROM support_tickets WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list tickets", err)
	}
	defer rows.Close()
	var items []ticket.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

func (r *TicketRepository) UpdateStatus(ctx context.Context, id common.UUID, status ticket.Status) (*ticket.Ticket, error) {
	row := r.db.QueryRowContext(ctx, `UPDATE support_tickets SET status = $1, updated_at = $2 WHERE id = $3 RETURNING `+ticketColumns,
		status, time.Now().UTC(), id)
	return scanTicket(row)
}

func scanTicket(row rowScanner) (*ticket.Ticket, error) {
	var t ticket.Ticket
	if err := row.Scan(&t.ID, &t.UserID, &t.Subject, &t.Message, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, notFoundOr(err, "ticket not found", "failed to load ticket")
	}
	return &t, nil
}
