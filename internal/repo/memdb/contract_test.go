package memdb

import (
	"cloudport-api/internal/entity"
	"cloudport-api/internal/repo/repo_errors"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractRepo_UpdateContract_CompareAndSwap(t *testing.T) {
	ctx := context.Background()
	r := NewContractRepo(NewStore())
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, r.CreateContract(ctx, &entity.Contract{
		Id: "c-1", ApplicationId: "a-1", EngineerId: "e-1", CompanyId: "co-1",
		Status: "pending_engineer", Version: 1, CreatedAt: now, UpdatedAt: now,
	}))

	first, err := r.GetContractById(ctx, "c-1")
	require.NoError(t, err)
	second, err := r.GetContractById(ctx, "c-1")
	require.NoError(t, err)

	first.Status = "pending_company"
	require.NoError(t, r.UpdateContract(ctx, first, first.Version))
	assert.Equal(t, 2, first.Version)

	second.Status = "pending_payment"
	assert.ErrorIs(t, r.UpdateContract(ctx, second, second.Version), repo_errors.ErrVersionConflict)

	stored, err := r.GetContractById(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "pending_company", stored.Status)
	assert.Equal(t, 2, stored.Version)

	assert.ErrorIs(t, r.UpdateContract(ctx, &entity.Contract{Id: "missing"}, 1), repo_errors.ErrNotFound)
}

func TestContractRepo_OnePerApplication(t *testing.T) {
	ctx := context.Background()
	r := NewContractRepo(NewStore())

	require.NoError(t, r.CreateContract(ctx, &entity.Contract{Id: "c-1", ApplicationId: "a-1"}))
	assert.ErrorIs(t, r.CreateContract(ctx, &entity.Contract{Id: "c-2", ApplicationId: "a-1"}), repo_errors.ErrAlreadyExists)
}

func TestContractRepo_GetUserContracts(t *testing.T) {
	ctx := context.Background()
	r := NewContractRepo(NewStore())
	base := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	for i, status := range []string{"paid", "pending_payment", "paid"} {
		require.NoError(t, r.CreateContract(ctx, &entity.Contract{
			Id:            string(rune('a' + i)),
			ApplicationId: string(rune('a' + i)),
			EngineerId:    "e-1",
			CompanyId:     "co-1",
			Status:        status,
			CreatedAt:     base.Add(time.Duration(i) * time.Hour),
		}))
	}

	paid, err := r.GetUserContracts(ctx, "co-1", entity.ContractFilter{Status: "paid"}, entity.NewPaginationInput(0, 0))
	require.NoError(t, err)
	require.Len(t, paid, 2)
	assert.Equal(t, "c", paid[0].Id)

	none, err := r.GetUserContracts(ctx, "e-2", entity.ContractFilter{}, entity.NewPaginationInput(0, 0))
	require.NoError(t, err)
	assert.Empty(t, none)
}
