package memory

import (
	"context"
	"sort"

	"gohire/internal/common"
	"gohire/internal/domain/budget"
)

type BudgetRepository struct {
	s *Store
}

func (r *BudgetRepository) Create(_ context.Context, b budget.Budget) (*budget.Budget, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b.ID = common.NewUUID()
	b.CreatedAt = r.s.stamp()
	r.s.budgets[b.ID] = b
	return &b, nil
}

func (r *BudgetRepository) ListByUser(_ context.Context, userID common.UUID) ([]budget.Budget, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var items []budget.Budget
	for _, b := range r.s.budgets {
		if b.UserID == userID {
			items = append(items, b)
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (r *BudgetRepository) Delete(_ context.Context, id, userID common.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.budgets[id]
	if !ok || b.UserID != userID {
		return common.NewError(common.CodeNotFound, "budget not found", nil)
	}
	delete(r.s.budgets, id)
	return nil
}
