package service

import (
	"cloudport-api/internal/common"
	"cloudport-api/internal/entity"
	"cloudport-api/internal/payment"
	"cloudport-api/internal/repo"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCalculateFee(t *testing.T) {
	tests := []struct {
		name    string
		amount  int64
		percent float64
		want    int64
	}{
		{"whole", 500000, 10, 50000},
		{"half rounds up", 1005, 10, 101},
		{"below half rounds down", 1004, 10, 100},
		{"fractional percent", 999, 12.5, 125},
		{"zero percent", 120000, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateFee(tt.amount, tt.percent))
		})
	}
}

func createContract(t *testing.T, f *fixture, amount int64) *entity.ContractOutputModel {
	t.Helper()
	application := f.seedApplication(t)

	contract, err := f.services.Contract.CreateContract(context.Background(), f.company, &entity.CreateContractInput{
		ApplicationId:  application.ApplicationId,
		ContractAmount: amount,
	})
	require.NoError(t, err)

	return contract
}

// approvedContract returns a contract both parties approved.
func approvedContract(t *testing.T, f *fixture) *entity.ContractOutputModel {
	t.Helper()
	ctx := context.Background()
	contract := createContract(t, f, 500000)

	_, err := f.services.Contract.ApproveContract(ctx, f.engineer, contract.ContractId)
	require.NoError(t, err)
	out, err := f.services.Contract.ApproveContract(ctx, f.company, contract.ContractId)
	require.NoError(t, err)
	require.Equal(t, common.PendingPayment, out.Status)

	return out
}

func TestContractService_CreateContract(t *testing.T) {
	f := newFixture(t)
	contract := createContract(t, f, 500000)

	assert.Equal(t, common.PendingEngineer, contract.Status)
	assert.Equal(t, common.Company, contract.InitiatedBy)
	assert.Equal(t, int64(50000), contract.FeeAmount)
	assert.Equal(t, float64(10), contract.FeePercentage)
	assert.Equal(t, f.engineer.UserId, contract.EngineerId)
	assert.Equal(t, f.company.UserId, contract.CompanyId)
	assert.Nil(t, contract.ApprovedByCompany)
	assert.Nil(t, contract.PaidAt)

	f.publisher.AssertCalled(t, "PublishContractEvent", mock.Anything, mock.MatchedBy(func(e entity.ContractEvent) bool {
		return e.Type == EventContractCreated && e.ContractId == contract.ContractId
	}))
}

func TestContractService_CreateContract_ByEngineer(t *testing.T) {
	f := newFixture(t)
	application := f.seedApplication(t)

	contract, err := f.services.Contract.CreateContract(context.Background(), f.engineer, &entity.CreateContractInput{
		ApplicationId:  application.ApplicationId,
		ContractAmount: 300000,
	})
	require.NoError(t, err)
	assert.Equal(t, common.PendingCompany, contract.Status)
	assert.Equal(t, common.Engineer, contract.InitiatedBy)
}

func TestContractService_CreateContract_Rejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	application := f.seedApplication(t)

	_, err := f.services.Contract.CreateContract(ctx, f.company, &entity.CreateContractInput{
		ApplicationId: application.ApplicationId, ContractAmount: 0,
	})
	assert.ErrorIs(t, err, ErrInvalidContractAmount)

	_, err = f.services.Contract.CreateContract(ctx, f.stranger, &entity.CreateContractInput{
		ApplicationId: application.ApplicationId, ContractAmount: 1000,
	})
	assert.ErrorIs(t, err, ErrNotContractParty)

	_, err = f.services.Contract.CreateContract(ctx, f.company, &entity.CreateContractInput{
		ApplicationId: "missing", ContractAmount: 1000,
	})
	assert.ErrorIs(t, err, ErrApplicationNotFound)

	_, err = f.services.Contract.CreateContract(ctx, f.company, &entity.CreateContractInput{
		ApplicationId: application.ApplicationId, ContractAmount: 1000,
	})
	require.NoError(t, err)
	_, err = f.services.Contract.CreateContract(ctx, f.engineer, &entity.CreateContractInput{
		ApplicationId: application.ApplicationId, ContractAmount: 2000,
	})
	assert.ErrorIs(t, err, ErrContractAlreadyExists)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestContractService_CreateContract_InactiveApplication(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	application := f.seedApplication(t)

	_, err := f.services.Application.UpdateApplicationStatus(ctx, f.company, application.ApplicationId, common.ApplicationRejected)
	require.NoError(t, err)

	_, err = f.services.Contract.CreateContract(ctx, f.company, &entity.CreateContractInput{
		ApplicationId: application.ApplicationId, ContractAmount: 1000,
	})
	assert.ErrorIs(t, err, ErrApplicationNotActive)
}

func TestContractService_FullLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	contract := createContract(t, f, 500000)

	require.Equal(t, int64(50000), contract.FeeAmount)

	out, err := f.services.Contract.ApproveContract(ctx, f.engineer, contract.ContractId)
	require.NoError(t, err)
	assert.Equal(t, common.PendingCompany, out.Status)
	assert.NotNil(t, out.ApprovedByEngineer)
	assert.Nil(t, out.ApprovedByCompany)
	assert.Equal(t, int64(50000), out.FeeAmount)

	out, err = f.services.Contract.ApproveContract(ctx, f.company, contract.ContractId)
	require.NoError(t, err)
	assert.Equal(t, common.PendingPayment, out.Status)
	assert.NotNil(t, out.ApprovedByCompany)
	assert.Equal(t, int64(50000), out.FeeAmount)

	f.gateway.On("Charge", mock.Anything, mock.MatchedBy(func(r payment.ChargeRequest) bool {
		return r.Amount == 50000 && r.Token == "tok_visa" && r.Currency == "jpy"
	})).Return(&payment.ChargeResult{PaymentId: "ch_123", Method: common.PaymentMethodCard}, nil).Once()

	out, err = f.services.Contract.PayContract(ctx, f.company, contract.ContractId, "tok_visa")
	require.NoError(t, err)
	assert.Equal(t, common.Paid, out.Status)
	require.NotNil(t, out.PaymentId)
	assert.Equal(t, "ch_123", *out.PaymentId)
	require.NotNil(t, out.PaymentMethod)
	assert.Equal(t, common.PaymentMethodCard, *out.PaymentMethod)
	assert.NotNil(t, out.PaidAt)
	assert.Equal(t, int64(500000), out.ContractAmount)
	assert.Equal(t, int64(50000), out.FeeAmount)

	f.gateway.AssertExpectations(t)
	f.publisher.AssertNumberOfCalls(t, "PublishContractEvent", 4)
	f.publisher.AssertCalled(t, "PublishContractEvent", mock.Anything, mock.MatchedBy(func(e entity.ContractEvent) bool {
		return e.Type == EventContractPaid && e.Status == common.Paid && e.ActorId == f.company.UserId
	}))
}

func TestContractService_ApproveContract_Forbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	contract := createContract(t, f, 500000)

	_, err := f.services.Contract.ApproveContract(ctx, f.stranger, contract.ContractId)
	assert.ErrorIs(t, err, ErrNotContractParty)
	assert.Equal(t, KindForbidden, KindOf(err))

	_, err = f.services.Contract.ApproveContract(ctx, f.engineer, contract.ContractId)
	require.NoError(t, err)

	_, err = f.services.Contract.ApproveContract(ctx, f.engineer, contract.ContractId)
	assert.ErrorIs(t, err, ErrAlreadyApproved)
	assert.Equal(t, KindForbidden, KindOf(err))

	stored, err := f.services.Contract.GetContract(ctx, f.engineer, contract.ContractId)
	require.NoError(t, err)
	assert.Equal(t, common.PendingCompany, stored.Status)
}

func TestContractService_ApproveContract_AfterPayment(t *testing.T) {
	f := newFixture(t)
	f.withDemo()
	ctx := context.Background()
	contract := approvedContract(t, f)

	_, err := f.services.Contract.PayContract(ctx, f.company, contract.ContractId, "")
	require.NoError(t, err)

	// both parties already approved, so the approval guard fires first
	_, err = f.services.Contract.ApproveContract(ctx, f.company, contract.ContractId)
	assert.ErrorIs(t, err, ErrAlreadyApproved)
}

func TestContractService_PayContract_WrongState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	contract := createContract(t, f, 500000)

	_, err := f.services.Contract.PayContract(ctx, f.company, contract.ContractId, "tok_visa")
	assert.ErrorIs(t, err, ErrContractNotPayable)
	assert.Equal(t, KindValidation, KindOf(err))

	stored, err := f.services.Contract.GetContract(ctx, f.company, contract.ContractId)
	require.NoError(t, err)
	assert.Equal(t, common.PendingEngineer, stored.Status)
	assert.Nil(t, stored.PaymentId)
	f.gateway.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
}

func TestContractService_PayContract_AlreadySettled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	contract := approvedContract(t, f)

	f.gateway.On("Charge", mock.Anything, mock.Anything).
		Return(&payment.ChargeResult{PaymentId: "ch_1", Method: common.PaymentMethodCard}, nil).Once()
	_, err := f.services.Contract.PayContract(ctx, f.company, contract.ContractId, "tok_visa")
	require.NoError(t, err)

	_, err = f.services.Contract.PayContract(ctx, f.company, contract.ContractId, "tok_visa")
	assert.ErrorIs(t, err, ErrContractNotPayable)

	f.gateway.On("Refund", mock.Anything, mock.Anything).Return(nil).Once()
	_, err = f.services.Contract.RefundContract(ctx, f.admin, contract.ContractId, "duplicate")
	require.NoError(t, err)

	_, err = f.services.Contract.PayContract(ctx, f.company, contract.ContractId, "tok_visa")
	assert.ErrorIs(t, err, ErrContractNotPayable)

	stored, err := f.services.Contract.GetContract(ctx, f.company, contract.ContractId)
	require.NoError(t, err)
	assert.Equal(t, common.Refunded, stored.Status)
	require.NotNil(t, stored.PaymentId)
	assert.Equal(t, "ch_1", *stored.PaymentId)
	assert.Equal(t, int64(50000), stored.FeeAmount)
	f.gateway.AssertNumberOfCalls(t, "Charge", 1)
}

func TestContractService_PayContract_EngineerForbidden(t *testing.T) {
	f := newFixture(t)
	contract := approvedContract(t, f)

	_, err := f.services.Contract.PayContract(context.Background(), f.engineer, contract.ContractId, "tok_visa")
	assert.ErrorIs(t, err, ErrOnlyCompanyCanPay)
}

func TestContractService_PayContract_GatewayFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	contract := approvedContract(t, f)

	declined := &payment.GatewayError{Gateway: "payjp", StatusCode: 402, Code: "card_declined", Message: "Card declined"}
	f.gateway.On("Charge", mock.Anything, mock.Anything).Return(nil, declined).Once()

	_, err := f.services.Contract.PayContract(ctx, f.company, contract.ContractId, "tok_declined")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPaymentFailed)
	assert.Equal(t, KindUpstream, KindOf(err))

	var gwErr *payment.GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, "card_declined", gwErr.Code)

	stored, err := f.services.Contract.GetContract(ctx, f.company, contract.ContractId)
	require.NoError(t, err)
	assert.Equal(t, common.PendingPayment, stored.Status)
	assert.Nil(t, stored.PaymentId)
	assert.Nil(t, stored.PaidAt)
}

func TestContractService_PayContract_DemoPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	contract := approvedContract(t, f)

	_, err := f.services.Contract.PayContract(ctx, f.company, contract.ContractId, "")
	assert.ErrorIs(t, err, ErrPaymentTokenRequired)

	f.withDemo()
	out, err := f.services.Contract.PayContract(ctx, f.company, contract.ContractId, "")
	require.NoError(t, err)
	assert.Equal(t, common.Paid, out.Status)
	require.NotNil(t, out.PaymentMethod)
	assert.Equal(t, common.PaymentMethodDemo, *out.PaymentMethod)
	assert.Contains(t, *out.PaymentId, "demo_")
	f.gateway.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
}

func TestContractService_PayContract_NoCardGateway(t *testing.T) {
	f := newFixture(t)
	contract := approvedContract(t, f)
	f.deps.CardGateway = nil
	f.services = NewServices(f.repos, f.deps)

	_, err := f.services.Contract.PayContract(context.Background(), f.company, contract.ContractId, "tok_visa")
	assert.ErrorIs(t, err, ErrPaymentUnavailable)
}

func TestContractService_RefundContract(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	contract := approvedContract(t, f)

	_, err := f.services.Contract.RefundContract(ctx, f.admin, contract.ContractId, "duplicate")
	assert.ErrorIs(t, err, ErrContractNotRefundable)

	f.gateway.On("Charge", mock.Anything, mock.Anything).
		Return(&payment.ChargeResult{PaymentId: "ch_9", Method: common.PaymentMethodCard}, nil).Once()
	_, err = f.services.Contract.PayContract(ctx, f.company, contract.ContractId, "tok_visa")
	require.NoError(t, err)

	_, err = f.services.Contract.RefundContract(ctx, f.company, contract.ContractId, "duplicate")
	assert.ErrorIs(t, err, ErrMissingCapability)

	f.gateway.On("Refund", mock.Anything, payment.RefundRequest{PaymentId: "ch_9", Amount: 50000, Reason: "duplicate"}).
		Return(nil).Once()
	out, err := f.services.Contract.RefundContract(ctx, f.admin, contract.ContractId, "duplicate")
	require.NoError(t, err)
	assert.Equal(t, common.Refunded, out.Status)
	assert.NotNil(t, out.RefundedAt)
	f.gateway.AssertExpectations(t)
}

func TestContractService_RefundContract_GatewayFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	contract := approvedContract(t, f)

	f.gateway.On("Charge", mock.Anything, mock.Anything).
		Return(&payment.ChargeResult{PaymentId: "ch_9", Method: common.PaymentMethodCard}, nil).Once()
	_, err := f.services.Contract.PayContract(ctx, f.company, contract.ContractId, "tok_visa")
	require.NoError(t, err)

	f.gateway.On("Refund", mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once()
	_, err = f.services.Contract.RefundContract(ctx, f.admin, contract.ContractId, "")
	assert.ErrorIs(t, err, ErrRefundFailed)

	stored, err := f.services.Contract.GetContract(ctx, f.company, contract.ContractId)
	require.NoError(t, err)
	assert.Equal(t, common.Paid, stored.Status)
}

// racingContractRepo lets another writer win every update first.
type racingContractRepo struct {
	repo.Contract
}

func (r *racingContractRepo) UpdateContract(ctx context.Context, contract *entity.Contract, expectedVersion int) error {
	other, err := r.Contract.GetContractById(ctx, contract.Id)
	if err != nil {
		return err
	}
	if err := r.Contract.UpdateContract(ctx, other, other.Version); err != nil {
		return err
	}

	return r.Contract.UpdateContract(ctx, contract, expectedVersion)
}

func TestContractService_ApproveContract_ConcurrentUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	contract := createContract(t, f, 500000)

	f.repos.Contract = &racingContractRepo{Contract: f.repos.Contract}
	f.services = NewServices(f.repos, f.deps)

	_, err := f.services.Contract.ApproveContract(ctx, f.engineer, contract.ContractId)
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	assert.Equal(t, KindConflict, KindOf(err))

	stored, err := f.services.Contract.GetContract(ctx, f.engineer, contract.ContractId)
	require.NoError(t, err)
	assert.Equal(t, common.PendingEngineer, stored.Status)
	assert.Nil(t, stored.ApprovedByEngineer)
}

func TestContractService_PublishFailureDoesNotFailTransition(t *testing.T) {
	f := newFixture(t)
	f.publisher.ExpectedCalls = nil
	f.publisher.On("PublishContractEvent", mock.Anything, mock.Anything).Return(errors.New("queue unavailable"))

	contract := createContract(t, f, 10000)
	assert.Equal(t, common.PendingEngineer, contract.Status)
}

func TestContractService_GetUserContracts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	contract := createContract(t, f, 500000)

	list, err := f.services.Contract.GetUserContracts(ctx, f.engineer, entity.ContractFilter{}, entity.NewPaginationInput(0, 0))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, contract.ContractId, list[0].ContractId)

	list, err = f.services.Contract.GetUserContracts(ctx, f.engineer, entity.ContractFilter{Status: common.Paid}, entity.NewPaginationInput(0, 0))
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = f.services.Contract.GetUserContracts(ctx, f.stranger, entity.ContractFilter{}, entity.NewPaginationInput(0, 0))
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.services.Contract.GetContract(ctx, f.stranger, contract.ContractId)
	assert.ErrorIs(t, err, ErrNotContractParty)
}
