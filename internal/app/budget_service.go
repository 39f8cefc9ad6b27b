package app

import (
	"context"
	"strings"

	"gohire/internal/common"
	"gohire/internal/domain/analytics"
	"gohire/internal/domain/budget"
	"gohire/internal/domain/profile"
)

type BudgetService struct {
	repo      budget.Repository
	profiles  profile.Repository
	analytics analytics.Repository
}

func NewBudgetService(repo budget.Repository, profiles profile.Repository, analytics analytics.Repository) *BudgetService {
	return &BudgetService{repo: repo, profiles: profiles, analytics: analytics}
}

type BudgetInput struct {
	Title             string         `json:"title"`
	TotalCost         *float64       `json:"total_cost"`
	AccommodationCost *float64       `json:"accommodation_cost"`
	FoodCost          *float64       `json:"food_cost"`
	TransportCost     *float64       `json:"transport_cost"`
	Details           map[string]any `json:"details"`
}

func (s *BudgetService) Create(ctx context.Context, userID common.UUID, input BudgetInput) (*budget.Budget, error) {
	fields := map[string]string{}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		if value, ok := input.Details["title"].(string); ok {
			title = strings.TrimSpace(value)
		}
	}
	if title == "" {
		fields["title"] = "title is required"
	}
	if input.TotalCost == nil {
		fields["total_cost"] = "total_cost is required"
	}
	for name, value := range map[string]*float64{
		"total_cost":         input.TotalCost,
		"accommodation_cost": input.AccommodationCost,
		"food_cost":          input.FoodCost,
		"transport_cost":     input.TransportCost,
	} {
		if value != nil && *value < 0 {
			fields[name] = name + " cannot be negative"
		}
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid budget", fields)
	}
	if _, err := requireRole(ctx, s.profiles, userID, profile.RoleInstitution); err != nil {
		return nil, err
	}
	details := input.Details
	if details == nil {
		details = map[string]any{}
	}
	details["title"] = title
	created, err := s.repo.Create(ctx, budget.Budget{
		UserID:            userID,
		Title:             title,
		TotalCost:         *input.TotalCost,
		AccommodationCost: input.AccommodationCost,
		FoodCost:          input.FoodCost,
		TransportCost:     input.TransportCost,
		Details:           details,
	})
	if err != nil {
		return nil, err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "budget.created", UserID: &userID, Payload: analyticsPayload(ctx, map[string]string{"budget_id": created.ID.String()})})
	return created, nil
}

func (s *BudgetService) ListOwn(ctx context.Context, userID common.UUID) ([]budget.Budget, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []budget.Budget{}
	}
	return items, nil
}

func (s *BudgetService) Delete(ctx context.Context, userID, budgetID common.UUID) error {
	if err := s.repo.Delete(ctx, budgetID, userID); err != nil {
		return err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "budget.deleted", UserID: &userID, Payload: analyticsPayload(ctx, map[string]string{"budget_id": budgetID.String()})})
	return nil
}
