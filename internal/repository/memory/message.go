package memory

import (
	"context"

	"gohire/internal/common"
	"gohire/internal/domain/message"
)

type MessageRepository struct {
	s *Store
}

func (r *MessageRepository) Append(_ context.Context, msg message.Message) (*message.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.contracts[msg.ContractID]; !ok {
		return nil, common.NewError(common.CodeNotFound, "contract not found", nil)
	}
	r.s.messageSeq++
	msg.ID = common.NewUUID()
	msg.Seq = r.s.messageSeq
	msg.CreatedAt = r.s.stamp()
	r.s.messages[msg.ContractID] = append(r.s.messages[msg.ContractID], msg)
	return &msg, nil
}

func (r *MessageRepository) ListByContract(_ context.Context, contractID common.UUID) ([]message.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	items := append([]message.Message(nil), r.s.messages[contractID]...)
	message.SortChronological(items)
	return items, nil
}
