package entity

import "time"

// db model
type Contract struct {
	Id                 string     `json:"contractId" db:"id" dynamodbav:"contractId"`
	ApplicationId      string     `json:"applicationId" db:"application_id" dynamodbav:"applicationId"`
	JobId              string     `json:"jobId" db:"job_id" dynamodbav:"jobId"`
	EngineerId         string     `json:"engineerId" db:"engineer_id" dynamodbav:"engineerId"`
	CompanyId          string     `json:"companyId" db:"company_id" dynamodbav:"companyId"`
	Status             string     `json:"status" db:"status" dynamodbav:"status"`
	InitiatedBy        string     `json:"initiatedBy" db:"initiated_by" dynamodbav:"initiatedBy"`
	ContractAmount     int64      `json:"contractAmount" db:"contract_amount" dynamodbav:"contractAmount"`
	FeePercentage      float64    `json:"feePercentage" db:"fee_percentage" dynamodbav:"feePercentage"`
	FeeAmount          int64      `json:"feeAmount" db:"fee_amount" dynamodbav:"feeAmount"`
	ApprovedByEngineer *time.Time `json:"approvedByEngineer" db:"approved_by_engineer" dynamodbav:"approvedByEngineer,omitempty"`
	ApprovedByCompany  *time.Time `json:"approvedByCompany" db:"approved_by_company" dynamodbav:"approvedByCompany,omitempty"`
	PaymentId          *string    `json:"paymentId" db:"payment_id" dynamodbav:"paymentId,omitempty"`
	PaymentMethod      *string    `json:"paymentMethod" db:"payment_method" dynamodbav:"paymentMethod,omitempty"`
	PaidAt             *time.Time `json:"paidAt" db:"paid_at" dynamodbav:"paidAt,omitempty"`
	RefundedAt         *time.Time `json:"refundedAt" db:"refunded_at" dynamodbav:"refundedAt,omitempty"`
	Version            int        `json:"version" db:"version" dynamodbav:"version"`
	CreatedAt          time.Time  `json:"createdAt" db:"created_at" dynamodbav:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt" db:"updated_at" dynamodbav:"updatedAt"`
}

// service input model
type CreateContractInput struct {
	ApplicationId  string // given
	ContractAmount int64  // given
	// InitiatedBy, fee and status are derived from the caller and configuration
}

type ContractFilter struct {
	Status        string
	ApplicationId string
}

// controller model
type ContractOutputModel struct {
	ContractId         string  `json:"contractId"`
	ApplicationId      string  `json:"applicationId"`
	JobId              string  `json:"jobId"`
	EngineerId         string  `json:"engineerId"`
	CompanyId          string  `json:"companyId"`
	Status             string  `json:"status"`
	InitiatedBy        string  `json:"initiatedBy"`
	ContractAmount     int64   `json:"contractAmount"`
	FeePercentage      float64 `json:"feePercentage"`
	FeeAmount          int64   `json:"feeAmount"`
	ApprovedByEngineer *string `json:"approvedByEngineer"`
	ApprovedByCompany  *string `json:"approvedByCompany"`
	PaymentId          *string `json:"paymentId"`
	PaymentMethod      *string `json:"paymentMethod"`
	PaidAt             *string `json:"paidAt"`
	RefundedAt         *string `json:"refundedAt,omitempty"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

// ContractEvent is published after every contract transition.
type ContractEvent struct {
	Type       string    `json:"type"`
	ContractId string    `json:"contractId"`
	Status     string    `json:"status"`
	EngineerId string    `json:"engineerId"`
	CompanyId  string    `json:"companyId"`
	ActorId    string    `json:"actorId"`
	OccurredAt time.Time `json:"occurredAt"`
}
