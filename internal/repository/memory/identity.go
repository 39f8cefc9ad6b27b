package memory

import (
	"context"
	"strings"

	"gohire/internal/common"
	"gohire/internal/domain/auth"
)

type IdentityRepository struct {
	s *Store
}

func (r *IdentityRepository) Create(_ context.Context, identity auth.Identity) (*auth.Identity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email := strings.ToLower(strings.TrimSpace(identity.Email))
	if _, ok := r.s.identityEmails[email]; ok {
		return nil, common.NewError(common.CodeConflict, "user already registered", nil)
	}
	if identity.ID.IsZero() {
		identity.ID = common.NewUUID()
	}
	now := r.s.stamp()
	identity.Email = email
	identity.CreatedAt = now
	identity.UpdatedAt = now
	r.s.identities[identity.ID] = identity
	r.s.identityEmails[email] = identity.ID
	return &identity, nil
}

func (r *IdentityRepository) GetByEmail(_ context.Context, email string) (*auth.Identity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.identityEmails[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "identity not found", nil)
	}
	identity := r.s.identities[id]
	return &identity, nil
}

func (r *IdentityRepository) GetByID(_ context.Context, id common.UUID) (*auth.Identity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	identity, ok := r.s.identities[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "identity not found", nil)
	}
	return &identity, nil
}

func (r *IdentityRepository) UpdatePassword(_ context.Context, id common.UUID, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	identity, ok := r.s.identities[id]
	if !ok {
		return common.NewError(common.CodeNotFound, "identity not found", nil)
	}
	identity.PasswordHash = passwordHash
	identity.UpdatedAt = r.s.stamp()
	r.s.identities[id] = identity
	return nil
}

func (r *IdentityRepository) Delete(_ context.Context, id common.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	identity, ok := r.s.identities[id]
	if !ok {
		return common.NewError(common.CodeNotFound, "identity not found", nil)
	}
	delete(r.s.identityEmails, identity.Email)
	delete(r.s.identities, id)
	return nil
}
