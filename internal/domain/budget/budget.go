package budget

import (
	"context"
	"time"

	"gohire/internal/common"
)

type Budget struct {
	ID                common.UUID    `json:"id"`
	UserID            common.UUID    `json:"user_id"`
	Title             string         `json:"title"`
	TotalCost         float64        `json:"total_cost"`
	AccommodationCost *float64       `json:"accommodation_cost,omitempty"`
	FoodCost          *float64       `json:"food_cost,omitempty"`
	TransportCost     *float64       `json:"transport_cost,omitempty"`
	Details           map[string]any `json:"details,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, b Budget) (*Budget, error)
	ListByUser(ctx context.Context, userID common.UUID) ([]Budget, error)
	// Delete removes the budget only when it belongs to userID.
	Delete(ctx context.Context, id, userID common.UUID) error
}
