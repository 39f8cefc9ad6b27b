package postgres

import (
	"context"
	"database/sql"
	"time"

	"gohire/internal/common"
	"gohire/internal/domain/message"
)

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Append(ctx context.Context, msg message.Message) (*message.Message, error) {
	msg.ID = common.NewUUID()
	msg.CreatedAt = time.Now().UTC()
	err := r.db.QueryRowContext(ctx, `INSERT INTO contract_messages (id, contract_id, sender_id, sender_name, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING seq`,
		msg.ID, msg.ContractID, msg.SenderID, msg.SenderName, msg.Content, msg.CreatedAt).Scan(&msg.Seq)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to store message", err)
	}
	return &msg, nil
}

func (r *MessageRepository) ListByContract(ctx context.Context, contractID common.UUID) ([]message.Message, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, seq, contract_id, sender_id, sender_name, content, created_at
		FROM contract_messages WHERE contract_id = $1 ORDER BY created_at ASC, seq ASC`, contractID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list messages", err)
	}
	defer rows.Close()
	var items []message.Message
	for rows.Next() {
		var m message.Message
		if err := rows.Scan(&m.ID, &m.Seq, &m.ContractID, &m.SenderID, &m.SenderName, &m.Content, &m.CreatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan message", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to read messages", err)
	}
	return items, nil
}
