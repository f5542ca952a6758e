package service

import (
	"cloudport-api/internal/auth"
	"cloudport-api/internal/common"
	"cloudport-api/internal/entity"
	"cloudport-api/internal/metrics"
	"cloudport-api/internal/notify"
	"cloudport-api/internal/payment"
	"cloudport-api/internal/repo"
	"cloudport-api/internal/repo/repo_errors"
	"cloudport-api/pkg/logger"
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Contract event types.
const (
	EventContractCreated  = "contract.created"
	EventContractApproved = "contract.approved"
	EventContractPaid     = "contract.paid"
	EventContractRefunded = "contract.refunded"
)

type ContractService struct {
	contractRepo    repo.Contract
	applicationRepo repo.Application
	cardGateway     payment.Gateway
	demoGateway     payment.Gateway
	publisher       notify.Publisher
	metrics         *metrics.Metrics
	feePercent      float64
	currency        string
	now             func() time.Time
}

func NewContractService(repos *repo.Repositories, deps *Dependencies) *ContractService {
	return &ContractService{
		contractRepo:    repos.Contract,
		applicationRepo: repos.Application,
		cardGateway:     deps.CardGateway,
		demoGateway:     deps.DemoGateway,
		publisher:       deps.Publisher,
		metrics:         deps.Metrics,
		feePercent:      deps.FeePercent,
		currency:        deps.Currency,
		now:             deps.Now,
	}
}

// CalculateFee returns the platform fee for amount, rounded half away from
// zero.
func CalculateFee(amount int64, feePercent float64) int64 {
	return int64(math.Round(float64(amount) * feePercent / 100))
}

func initialStatus(initiatedBy string) string {
	if initiatedBy == common.Company {
		return common.PendingEngineer
	}

	return common.PendingCompany
}

func pendingStatusFor(party string) string {
	if party == common.Company {
		return common.PendingCompany
	}

	return common.PendingEngineer
}

// partyOf returns which side of the contract the caller is on, or "".
func partyOf(c *entity.Contract, caller *auth.Principal) string {
	switch caller.UserId {
	case c.EngineerId:
		return common.Engineer
	case c.CompanyId:
		return common.Company
	}

	return ""
}

func (s *ContractService) CreateContract(ctx context.Context, caller *auth.Principal, input *entity.CreateContractInput) (*entity.ContractOutputModel, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if input.ContractAmount <= 0 {
		return nil, ErrInvalidContractAmount
	}

	application, err := s.applicationRepo.GetApplicationById(ctx, input.ApplicationId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}

		return nil, err
	}

	var initiatedBy string
	switch caller.UserId {
	case application.EngineerId:
		initiatedBy = common.Engineer
	case application.CompanyId:
		initiatedBy = common.Company
	default:
		return nil, ErrNotContractParty
	}
	if application.Status != common.ApplicationPending && application.Status != common.ApplicationAccepted {
		return nil, ErrApplicationNotActive
	}

	now := s.now()
	contract := &entity.Contract{
		Id:             uuid.NewString(),
		ApplicationId:  application.Id,
		JobId:          application.JobId,
		EngineerId:     application.EngineerId,
		CompanyId:      application.CompanyId,
		Status:         initialStatus(initiatedBy),
		InitiatedBy:    initiatedBy,
		ContractAmount: input.ContractAmount,
		FeePercentage:  s.feePercent,
		FeeAmount:      CalculateFee(input.ContractAmount, s.feePercent),
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.contractRepo.CreateContract(ctx, contract); err != nil {
		if errors.Is(err, repo_errors.ErrAlreadyExists) {
			return nil, ErrContractAlreadyExists
		}

		return nil, err
	}

	logger.Info(ctx, "contract created", "contract_id", contract.Id, "initiated_by", initiatedBy,
		"contract_amount", contract.ContractAmount, "fee_amount", contract.FeeAmount)
	s.transitioned(ctx, contract, EventContractCreated, caller.UserId)

	return mapContract(contract), nil
}

func (s *ContractService) getForParty(ctx context.Context, caller *auth.Principal, contractId string) (*entity.Contract, string, error) {
	if caller == nil {
		return nil, "", ErrUnauthenticated
	}

	contract, err := s.contractRepo.GetContractById(ctx, contractId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, "", ErrContractNotFound
		}

		return nil, "", err
	}

	party := partyOf(contract, caller)
	if party == "" {
		return nil, "", ErrNotContractParty
	}

	return contract, party, nil
}

func (s *ContractService) GetContract(ctx context.Context, caller *auth.Principal, contractId string) (*entity.ContractOutputModel, error) {
	contract, _, err := s.getForParty(ctx, caller, contractId)
	if err != nil {
		return nil, err
	}

	return mapContract(contract), nil
}

func (s *ContractService) GetUserContracts(ctx context.Context, caller *auth.Principal, filter entity.ContractFilter, pg *entity.PaginationInput) ([]entity.ContractOutputModel, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}

	contracts, err := s.contractRepo.GetUserContracts(ctx, caller.UserId, filter, pg)
	if err != nil {
		return nil, err
	}

	return mapContracts(contracts), nil
}

func (s *ContractService) ApproveContract(ctx context.Context, caller *auth.Principal, contractId string) (*entity.ContractOutputModel, error) {
	contract, party, err := s.getForParty(ctx, caller, contractId)
	if err != nil {
		return nil, err
	}

	if party == common.Engineer && contract.ApprovedByEngineer != nil ||
		party == common.Company && contract.ApprovedByCompany != nil {
		return nil, ErrAlreadyApproved
	}
	if contract.Status != common.PendingEngineer && contract.Status != common.PendingCompany {
		return nil, ErrContractNotAwaitingApproval
	}

	now := s.now()
	if party == common.Engineer {
		contract.ApprovedByEngineer = &now
	} else {
		contract.ApprovedByCompany = &now
	}

	if contract.ApprovedByEngineer != nil && contract.ApprovedByCompany != nil {
		contract.Status = common.PendingPayment
	} else {
		contract.Status = pendingStatusFor(common.OtherParty(party))
	}
	contract.UpdatedAt = now

	if err := s.save(ctx, contract); err != nil {
		return nil, err
	}

	logger.Info(ctx, "contract approved", "contract_id", contract.Id, "party", party, "status", contract.Status)
	s.transitioned(ctx, contract, EventContractApproved, caller.UserId)

	return mapContract(contract), nil
}

func (s *ContractService) PayContract(ctx context.Context, caller *auth.Principal, contractId string, paymentToken string) (*entity.ContractOutputModel, error) {
	contract, party, err := s.getForParty(ctx, caller, contractId)
	if err != nil {
		return nil, err
	}
	if party != common.Company {
		return nil, ErrOnlyCompanyCanPay
	}
	if contract.Status != common.PendingPayment {
		return nil, ErrContractNotPayable
	}

	gateway, err := s.gatewayFor(paymentToken)
	if err != nil {
		return nil, err
	}

	result, err := gateway.Charge(ctx, payment.ChargeRequest{
		Amount:      contract.FeeAmount,
		Currency:    s.currency,
		Token:       paymentToken,
		Description: "platform fee for contract " + contract.Id,
		Metadata:    map[string]string{"contract_id": contract.Id},
	})
	s.metrics.Payment(gateway.Name(), "charge", err)
	if err != nil {
		logger.Error(ctx, "payment failed", "contractId", contract.Id, "amount", contract.FeeAmount,
			"gateway", gateway.Name(), "reason", err.Error())
		return nil, fmt.Errorf("%w: %w", ErrPaymentFailed, err)
	}

	now := s.now()
	contract.PaymentId = &result.PaymentId
	contract.PaymentMethod = &result.Method
	contract.PaidAt = &now
	contract.Status = common.Paid
	contract.UpdatedAt = now

	if err := s.save(ctx, contract); err != nil {
		// the charge went through, operators reconcile with the payment id
		logger.Error(ctx, "payment captured but contract update failed", "contractId", contract.Id,
			"payment_id", result.PaymentId, "amount", contract.FeeAmount, "reason", err.Error())
		return nil, err
	}

	logger.Info(ctx, "contract paid", "contract_id", contract.Id, "payment_id", result.PaymentId, "method", result.Method)
	s.transitioned(ctx, contract, EventContractPaid, caller.UserId)

	return mapContract(contract), nil
}

func (s *ContractService) gatewayFor(paymentToken string) (payment.Gateway, error) {
	if paymentToken == "" {
		if s.demoGateway == nil {
			return nil, ErrPaymentTokenRequired
		}

		return s.demoGateway, nil
	}
	if s.cardGateway == nil {
		return nil, ErrPaymentUnavailable
	}

	return s.cardGateway, nil
}

func (s *ContractService) RefundContract(ctx context.Context, caller *auth.Principal, contractId string, reason string) (*entity.ContractOutputModel, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if !caller.Can(common.CapabilityContractsRefund) {
		return nil, ErrMissingCapability
	}

	contract, err := s.contractRepo.GetContractById(ctx, contractId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrContractNotFound
		}

		return nil, err
	}
	if contract.Status != common.Paid {
		return nil, ErrContractNotRefundable
	}

	if contract.PaymentMethod != nil && *contract.PaymentMethod == common.PaymentMethodCard {
		if s.cardGateway == nil {
			return nil, ErrPaymentUnavailable
		}

		err := s.cardGateway.Refund(ctx, payment.RefundRequest{
			PaymentId: *contract.PaymentId,
			Amount:    contract.FeeAmount,
			Reason:    reason,
		})
		s.metrics.Payment(s.cardGateway.Name(), "refund", err)
		if err != nil {
			logger.Error(ctx, "refund failed", "contractId", contract.Id, "amount", contract.FeeAmount, "reason", err.Error())
			return nil, fmt.Errorf("%w: %w", ErrRefundFailed, err)
		}
	}

	now := s.now()
	contract.Status = common.Refunded
	contract.RefundedAt = &now
	contract.UpdatedAt = now

	if err := s.save(ctx, contract); err != nil {
		return nil, err
	}

	logger.Info(ctx, "contract refunded", "contract_id", contract.Id, "admin_id", caller.UserId, "refund_reason", reason)
	s.transitioned(ctx, contract, EventContractRefunded, caller.UserId)

	return mapContract(contract), nil
}

// save writes contract if nobody changed it since it was read.
func (s *ContractService) save(ctx context.Context, contract *entity.Contract) error {
	err := s.contractRepo.UpdateContract(ctx, contract, contract.Version)
	if err != nil {
		if errors.Is(err, repo_errors.ErrVersionConflict) {
			logger.Warn(ctx, "contract version conflict", "contract_id", contract.Id, "version", contract.Version)
			return ErrConcurrentUpdate
		}

		return err
	}

	return nil
}

func (s *ContractService) transitioned(ctx context.Context, contract *entity.Contract, eventType string, actorId string) {
	s.metrics.ContractTransition(contract.Status)

	err := s.publisher.PublishContractEvent(ctx, entity.ContractEvent{
		Type:       eventType,
		ContractId: contract.Id,
		Status:     contract.Status,
		EngineerId: contract.EngineerId,
		CompanyId:  contract.CompanyId,
		ActorId:    actorId,
		OccurredAt: contract.UpdatedAt,
	})
	s.metrics.EventPublished(err)
	if err != nil {
		logger.Warn(ctx, "contract event not published", "contract_id", contract.Id, "event", eventType, "error", err)
	}
}
