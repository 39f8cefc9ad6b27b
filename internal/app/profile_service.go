package app

import (
	"context"
	"strings"

	"gohire/internal/common"
	"gohire/internal/domain/analytics"
	"gohire/internal/domain/profile"
)

type ProfileService struct {
	profiles  profile.Repository
	analytics analytics.Repository
}

func NewProfileService(profiles profile.Repository, analytics analytics.Repository) *ProfileService {
	return &ProfileService{profiles: profiles, analytics: analytics}
}

// ProfileUpdate carries the editable settings. Nil fields are left as they
// are.
type ProfileUpdate struct {
	FullName              *string `json:"full_name"`
	Bio                   *string `json:"bio"`
	AvatarURL             *string `json:"avatar_url"`
	AreaOfWork            *string `json:"area_of_work"`
	Location              *string `json:"location"`
	Phone                 *string `json:"phone"`
	CNPJ                  *string `json:"cnpj"`
	ResponsibleName       *string `json:"responsible_name"`
	ResponsibleRole       *string `json:"responsible_role"`
	PreferredContractType *string `json:"preferred_contract_type"`
}

func (s *ProfileService) GetOwn(ctx context.Context, userID common.UUID) (*profile.Profile, error) {
	return s.profiles.GetByID(ctx, userID)
}

func (s *ProfileService) UpdateOwn(ctx context.Context, userID common.UUID, update ProfileUpdate) (*profile.Profile, error) {
	current, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if update.FullName != nil && strings.TrimSpace(*update.FullName) == "" {
		return nil, common.NewValidationError("invalid profile", map[string]string{"full_name": "full_name cannot be empty"})
	}
	next := *current
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	apply(&next.FullName, update.FullName)
	apply(&next.Bio, update.Bio)
	apply(&next.AvatarURL, update.AvatarURL)
	apply(&next.AreaOfWork, update.AreaOfWork)
	apply(&next.Location, update.Location)
	apply(&next.Phone, update.Phone)
	apply(&next.PreferredContractType, update.PreferredContractType)
	if current.IsInstitution() {
		apply(&next.CNPJ, update.CNPJ)
		apply(&next.ResponsibleName, update.ResponsibleName)
		apply(&next.ResponsibleRole, update.ResponsibleRole)
	}
	updated, err := s.profiles.Update(ctx, next)
	if err != nil {
		return nil, err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "profile.updated", UserID: &userID, Payload: analyticsPayload(ctx, nil)})
	return updated, nil
}

// GetProfessor is the public teacher page; other roles are not exposed.
func (s *ProfileService) GetProfessor(ctx context.Context, id common.UUID) (*profile.Profile, error) {
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsProfessor() {
		return nil, common.NewError(common.CodeNotFound, "professor not found", nil)
	}
	return p, nil
}

func (s *ProfileService) ListProfessors(ctx context.Context, limit, offset int) ([]profile.Profile, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.profiles.ListByRole(ctx, profile.RoleProfessor, limit, offset)
}
