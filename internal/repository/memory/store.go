package memory

import (
	"sync"
	"time"

	"gohire/internal/common"
	"gohire/internal/domain/analytics"
	"gohire/internal/domain/application"
	"gohire/internal/domain/auth"
	"gohire/internal/domain/budget"
	"gohire/internal/domain/contract"
	"gohire/internal/domain/job"
	"gohire/internal/domain/message"
	"gohire/internal/domain/profile"
	"gohire/internal/domain/staff"
	"gohire/internal/domain/ticket"
)

// Store keeps every entity in process memory behind one lock. It enforces
// the same uniqueness rules as the Postgres schema and backs STORE=memory
// and the service tests.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	identities     map[common.UUID]auth.Identity
	identityEmails map[string]common.UUID
	profiles       map[common.UUID]profile.Profile
	jobs           map[common.UUID]job.Job
	applications   map[common.UUID]application.Application
	applicationKey map[[2]common.UUID]common.UUID
	contracts      map[common.UUID]contract.Contract
	contractByApp  map[common.UUID]common.UUID
	messages       map[common.UUID][]message.Message
	messageSeq     int64
	tickets        map[common.UUID]ticket.Ticket
	budgets        map[common.UUID]budget.Budget
	refreshTokens  map[string]auth.RefreshToken
	recoveryTokens map[string]auth.RecoveryToken
	invitations    map[common.UUID]staff.Invitation
	events         []analytics.Event
}

func NewStore() *Store {
	return &Store{
		now:            time.Now,
		identities:     make(map[common.UUID]auth.Identity),
		identityEmails: make(map[string]common.UUID),
		profiles:       make(map[common.UUID]profile.Profile),
		jobs:           make(map[common.UUID]job.Job),
		applications:   make(map[common.UUID]application.Application),
		applicationKey: make(map[[2]common.UUID]common.UUID),
		contracts:      make(map[common.UUID]contract.Contract),
		contractByApp:  make(map[common.UUID]common.UUID),
		messages:       make(map[common.UUID][]message.Message),
		tickets:        make(map[common.UUID]ticket.Ticket),
		budgets:        make(map[common.UUID]budget.Budget),
		refreshTokens:  make(map[string]auth.RefreshToken),
		recoveryTokens: make(map[string]auth.RecoveryToken),
		invitations:    make(map[common.UUID]staff.Invitation),
	}
}

// SetClock replaces the time source used for created_at/updated_at stamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) stamp() time.Time {
	return s.now().UTC()
}

func (s *Store) Identities() *IdentityRepository          { return &IdentityRepository{s: s} }
func (s *Store) Profiles() *ProfileRepository             { return &ProfileRepository{s: s} }
func (s *Store) Jobs() *JobRepository                     { return &JobRepository{s: s} }
func (s *Store) Applications() *ApplicationRepository     { return &ApplicationRepository{s: s} }
func (s *Store) Contracts() *ContractRepository           { return &ContractRepository{s: s} }
func (s *Store) Messages() *MessageRepository             { return &MessageRepository{s: s} }
func (s *Store) Tickets() *TicketRepository               { return &TicketRepository{s: s} }
func (s *Store) Budgets() *BudgetRepository               { return &BudgetRepository{s: s} }
func (s *Store) RefreshTokens() *RefreshTokenRepository   { return &RefreshTokenRepository{s: s} }
func (s *Store) RecoveryTokens() *RecoveryTokenRepository { return &RecoveryTokenRepository{s: s} }
func (s *Store) Invitations() *InvitationRepository       { return &InvitationRepository{s: s} }
func (s *Store) Analytics() *AnalyticsRepository          { return &AnalyticsRepository{s: s} }
