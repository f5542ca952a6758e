package memdb

import (
	"cloudport-api/internal/entity"
	"cloudport-api/internal/repo/repo_errors"
	"context"
	"sort"
)

type ContractRepo struct {
	*Store
}

func NewContractRepo(s *Store) *ContractRepo {
	return &ContractRepo{s}
}

func (r *ContractRepo) CreateContract(ctx context.Context, contract *entity.Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.contracts {
		if c.ApplicationId == contract.ApplicationId {
			return repo_errors.ErrAlreadyExists
		}
	}
	r.contracts[contract.Id] = *contract

	return nil
}

func (r *ContractRepo) GetContractById(ctx context.Context, id string) (*entity.Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.contracts[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &c, nil
}

func (r *ContractRepo) GetUserContracts(ctx context.Context, userId string, filter entity.ContractFilter, pg *entity.PaginationInput) ([]entity.Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contracts := make([]entity.Contract, 0)
	for _, c := range r.contracts {
		if c.EngineerId != userId && c.CompanyId != userId {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.ApplicationId != "" && c.ApplicationId != filter.ApplicationId {
			continue
		}
		contracts = append(contracts, c)
	}
	sort.Slice(contracts, func(i, j int) bool {
		return contracts[i].CreatedAt.After(contracts[j].CreatedAt)
	})

	return paginate(contracts, pg), nil
}

func (r *ContractRepo) UpdateContract(ctx context.Context, contract *entity.Contract, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.contracts[contract.Id]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return repo_errors.ErrVersionConflict
	}

	contract.Version = expectedVersion + 1
	r.contracts[contract.Id] = *contract

	return nil
}
