package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"gohire/internal/common"
	"gohire/internal/domain/job"
	"gohire/internal/domain/profile"
	"gohire/internal/notify"
	"gohire/internal/realtime"
	"gohire/internal/repository/memory"
	"gohire/internal/security"
)

type fixture struct {
	store        *memory.Store
	broker       *realtime.MemoryBroker
	mailer       *notify.RecordingMailer
	jwt          *security.JWTProvider
	sessions     *SessionService
	auth         *AuthService
	profiles     *ProfileService
	staff        *StaffService
	jobs         *JobService
	applications *ApplicationService
	contracts    *ContractService
	messages     *MessageService
	tickets      *TicketService
	budgets      *BudgetService
	reports      *ReportService
	notification *NotificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	broker := realtime.NewMemoryBroker()
	mailer := &notify.RecordingMailer{}
	jwtProvider := security.NewJWTProvider("test-secret")
	links := notify.NewLinkBuilder("https://wa.me/", "55")
	sessions := NewSessionService(jwtProvider, store.Profiles(), broker, nil)
	return &fixture{
		store:    store,
		broker:   broker,
		mailer:   mailer,
		jwt:      jwtProvider,
		sessions: sessions,
		auth: NewAuthService(store.Identities(), store.Profiles(), store.RefreshTokens(), store.RecoveryTokens(), store.Analytics(),
			jwtProvider, security.NewPasswordHasher(bcrypt.MinCost), mailer, broker, sessions, nil, AuthConfig{
				AccessTTL:              15 * time.Minute,
				RefreshTTL:             24 * time.Hour,
				RecoveryTTL:            time.Hour,
				PublicBaseURL:          "https://app.test",
				AllowedRedirectOrigins: []string{"http://localhost:5173"},
			}),
		profiles:     NewProfileService(store.Profiles(), store.Analytics()),
		staff:        NewStaffService(store.Profiles(), store.Invitations(), store.Analytics(), mailer, nil, "https://app.test", 24*time.Hour),
		jobs:         NewJobService(store.Jobs(), store.Profiles(), store.Analytics(), nil),
		applications: NewApplicationService(store.Applications(), store.Jobs(), store.Profiles(), store.Analytics(), links),
		contracts:    NewContractService(store.Contracts(), store.Applications(), store.Jobs(), store.Profiles(), store.Analytics(), links, nil),
		messages:     NewMessageService(store.Messages(), store.Contracts(), store.Profiles(), broker, store.Analytics(), nil),
		tickets:      NewTicketService(store.Tickets(), store.Analytics()),
		budgets:      NewBudgetService(store.Budgets(), store.Profiles(), store.Analytics()),
		reports:      NewReportService(store.Jobs(), store.Applications(), store.Contracts(), store.Profiles()),
		notification: NewNotificationService(store.Contracts(), store.Profiles(), mailer, nil, "https://app.test"),
	}
}

func (f *fixture) institution(t *testing.T, name, phone string) *profile.Profile {
	t.Helper()
	p, err := f.store.Profiles().Create(context.Background(), profile.Profile{
		Role:     profile.RoleInstitution,
		FullName: name,
		Email:    common.NewUUID().String() + "@escola.test",
		Phone:    phone,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) professor(t *testing.T, name string) *profile.Profile {
	t.Helper()
	p, err := f.store.Profiles().Create(context.Background(), profile.Profile{
		Role:     profile.RoleProfessor,
		FullName: name,
		Email:    common.NewUUID().String() + "@prof.test",
		Phone:    "31988887777",
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) job(t *testing.T, institutionID common.UUID, title string) *job.Job {
	t.Helper()
	j, err := f.jobs.Create(context.Background(), institutionID, JobInput{
		Title:       title,
		Description: "Turmas do ensino médio",
		Location:    "Belo Horizonte",
	})
	require.NoError(t, err)
	return j
}
