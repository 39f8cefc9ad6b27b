package message

import (
	"context"
	"sort"
	"time"

	"gohire/internal/common"
)

// Message is one append-only chat line of a contract. Seq is assigned by the
// store and breaks ties between equal timestamps.
type Message struct {
	ID         common.UUID `json:"id"`
	Seq        int64       `json:"seq"`
	ContractID common.UUID `json:"contract_id"`
	SenderID   common.UUID `json:"sender_id"`
	SenderName string      `json:"sender_name"`
	Content    string      `json:"content"`
	CreatedAt  time.Time   `json:"created_at"`
}

func Topic(contractID common.UUID) string {
	return "contract-chat-" + contractID.String()
}

func SortChronological(messages []Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		if !messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].CreatedAt.Before(messages[j].CreatedAt)
		}
		return messages[i].Seq < messages[j].Seq
	})
}

type Repository interface {
	Append(ctx context.Context, msg Message) (*Message, error)
	ListByContract(ctx context.Context, contractID common.UUID) ([]Message, error)
}
