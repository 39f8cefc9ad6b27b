package memory

import (
	"context"

	"gohire/internal/common"
	"gohire/internal/domain/analytics"
)

type AnalyticsRepository struct {
	s *Store
}

func (r *AnalyticsRepository) Create(_ context.Context, event analytics.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if event.ID.IsZero() {
		event.ID = common.NewUUID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = r.s.stamp()
	}
	r.s.events = append(r.s.events, event)
	return nil
}

// Events returns the recorded events in insertion order.
func (r *AnalyticsRepository) Events() []analytics.Event {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]analytics.Event(nil), r.s.events...)
}
