package analytics

import (
	"context"
	"time"

	"gohire/internal/common"
)

type Event struct {
	ID        common.UUID       `json:"id"`
	Name      string            `json:"name"`
	UserID    *common.UUID      `json:"user_id,omitempty"`
	Payload   map[string]string `json:"payload,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, event Event) error
}

// Fanout writes every event to each sink in order and returns the first
// error after trying them all.
type Fanout []Repository

func (f Fanout) Create(ctx context.Context, event Event) error {
	var firstErr error
	for _, sink := range f {
		if sink == nil {
			continue
		}
		if err := sink.Create(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
