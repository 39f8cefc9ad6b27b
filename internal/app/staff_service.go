package app

import (
	"context"
	"fmt"
	"time"

	"gohire/internal/common"
	"gohire/internal/domain/analytics"
	"gohire/internal/domain/profile"
	"gohire/internal/domain/staff"
	"gohire/internal/notify"
	"gohire/internal/security"
)

type StaffService struct {
	profiles      profile.Repository
	invitations   staff.Repository
	analytics     analytics.Repository
	mailer        notify.Mailer
	logger        Logger
	publicBaseURL string
	inviteTTL     time.Duration
}

func NewStaffService(profiles profile.Repository, invitations staff.Repository, analytics analytics.Repository, mailer notify.Mailer, logger Logger, publicBaseURL string, inviteTTL time.Duration) *StaffService {
	return &StaffService{
		profiles:      profiles,
		invitations:   invitations,
		analytics:     analytics,
		mailer:        mailer,
		logger:        logger,
		publicBaseURL: publicBaseURL,
		inviteTTL:     inviteTTL,
	}
}

// List returns the profiles that belong to the caller's institution. The
// caller is the institution itself or one of its staff members.
func (s *StaffService) List(ctx context.Context, userID common.UUID) ([]profile.Profile, error) {
	caller, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	institutionID := caller.InstitutionID
	if caller.IsInstitution() {
		institutionID = &caller.ID
	}
	if institutionID == nil {
		return []profile.Profile{}, nil
	}
	items, err := s.profiles.ListByInstitution(ctx, *institutionID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []profile.Profile{}
	}
	return items, nil
}

func (s *StaffService) Invite(ctx context.Context, inviterID common.UUID, email string) (*staff.Invitation, error) {
	inviter, err := requireRole(ctx, s.profiles, inviterID, profile.RoleInstitution)
	if err != nil {
		return nil, err
	}
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	token, hash, err := security.NewOpaqueToken()
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to generate invitation token", err)
	}
	inv, err := s.invitations.Create(ctx, staff.Invitation{
		InstitutionID: inviter.ID,
		Email:         normalized,
		InvitedBy:     inviterID,
		TokenHash:     hash,
		ExpiresAt:     time.Now().UTC().Add(s.inviteTTL),
	})
	if err != nil {
		return nil, err
	}
	link := fmt.Sprintf("%s/accept-invite?token=%s", s.publicBaseURL, token)
	if err := s.mailer.Send(ctx, notify.InvitationMail(normalized, inviter.FullName, link)); err != nil {
		logError(s.logger, fmt.Sprintf("invitation mail failed invitation_id=%s err=%v", inv.ID, err))
		return nil, common.NewError(common.CodeInternal, "failed to send invitation", err)
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "staff.invited", UserID: &inviterID, Payload: analyticsPayload(ctx, map[string]string{"invitation_id": inv.ID.String()})})
	logInfo(s.logger, fmt.Sprintf("staff invited institution_id=%s invitation_id=%s", inviter.ID, inv.ID))
	return inv, nil
}

func (s *StaffService) Invitations(ctx context.Context, institutionID common.UUID) ([]staff.Invitation, error) {
	if _, err := requireRole(ctx, s.profiles, institutionID, profile.RoleInstitution); err != nil {
		return nil, err
	}
	return s.invitations.ListByInstitution(ctx, institutionID)
}
