package postgres

import (
	"context"
	"database/sql"
	"time"

	"gohire/internal/common"
	"gohire/internal/domain/budget"
)

type BudgetRepository struct {
	db *sql.DB
}

func NewBudgetRepository(db *sql.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) Create(ctx context.Context, b budget.Budget) (*budget.Budget, error) {
	b.ID = common.NewUUID()
	b.CreatedAt = time.Now().UTC()
	details, err := encodeJSON(b.Details)
	if err != nil {
		return nil, common.NewError(common.CodeValidation, "invalid budget details", err)
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO budgets (id, user_id, title, total_cost, accommodation_cost, food_cost, transport_cost, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		b.ID, b.UserID, b.Title, b.TotalCost, nullFloat(b.AccommodationCost), nullFloat(b.FoodCost), nullFloat(b.TransportCost), details, b.CreatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create budget", err)
	}
	return &b, nil
}

func (r *BudgetRepository) ListByUser(ctx context.Context, userID common.UUID) ([]budget.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, user_id, title, total_cost, accommodation_cost, food_cost, transport_cost, details, created_at
		FROM budgets WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list budgets", err)
	}
	defer rows.Close()
	var items []budget.Budget
	for rows.Next() {
		var b budget.Budget
		var accommodation, food, transport sql.NullFloat64
		var details []byte
		if err := rows.Scan(&b.ID, &b.UserID, &b.Title, &b.TotalCost, &accommodation, &food, &transport, &details, &b.CreatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan budget", err)
		}
		b.AccommodationCost = floatPtr(accommodation)
		b.FoodCost = floatPtr(food)
		b.TransportCost = floatPtr(transport)
		b.Details = decodeDetails(details)
		items = append(items, b)
	}
	return items, rows.Err()
}

func (r *BudgetRepository) Delete(ctx context.Context, id, userID common.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete budget", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "budget not found", sql.ErrNoRows)
	}
	return nil
}
