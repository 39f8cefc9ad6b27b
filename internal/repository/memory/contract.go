package memory

import (
	"context"
	"sort"

	"gohire/internal/common"
	"gohire/internal/domain/contract"
)

type ContractRepository struct {
	s *Store
}

func (r *ContractRepository) Create(_ context.Context, c contract.Contract) (*contract.Contract, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.contractByApp[c.ApplicationID]; ok {
		return nil, common.NewError(common.CodeConflict, "application already has a contract", nil)
	}
	c.ID = common.NewUUID()
	now := r.s.stamp()
	c.CreatedAt = now
	c.UpdatedAt = now
	r.s.contracts[c.ID] = c
	r.s.contractByApp[c.ApplicationID] = c.ID
	return r.s.decorateContract(c), nil
}

func (r *ContractRepository) GetByID(_ context.Context, id common.UUID) (*contract.Contract, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.contracts[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "contract not found", nil)
	}
	return r.s.decorateContract(c), nil
}

func (r *ContractRepository) FindByApplication(_ context.Context, applicationID common.UUID) (*contract.Contract, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.contractByApp[applicationID]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "contract not found", nil)
	}
	return r.s.decorateContract(r.s.contracts[id]), nil
}

func (r *ContractRepository) ListByProfessor(_ context.Context, professorID common.UUID) ([]contract.Contract, error) {
	return r.list(func(c contract.Contract) bool { return c.ProfessorID == professorID }), nil
}

func (r *ContractRepository) ListByInstitution(_ context.Context, institutionID common.UUID) ([]contract.Contract, error) {
	return r.list(func(c contract.Contract) bool { return c.InstitutionID == institutionID }), nil
}

func (r *ContractRepository) list(keep func(contract.Contract) bool) []contract.Contract {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var items []contract.Contract
	for _, c := range r.s.contracts {
		if keep(c) {
			items = append(items, *r.s.decorateContract(c))
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items
}

func (r *ContractRepository) UpdateStatus(_ context.Context, id common.UUID, from, to contract.Status) (*contract.Contract, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.contracts[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "contract not found", nil)
	}
	if c.Status != from {
		return nil, common.NewError(common.CodeConflict, "contract status changed", nil)
	}
	c.Status = to
	c.UpdatedAt = r.s.stamp()
	r.s.contracts[id] = c
	return r.s.decorateContract(c), nil
}

func (s *Store) decorateContract(c contract.Contract) *contract.Contract {
	if p, ok := s.profiles[c.InstitutionID]; ok {
		c.InstitutionName = p.FullName
		c.InstitutionPhone = p.Phone
	}
	if p, ok := s.profiles[c.ProfessorID]; ok {
		c.ProfessorName = p.FullName
	}
	return &c
}
