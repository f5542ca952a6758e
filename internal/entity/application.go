package entity

import "time"

// db model
type Application struct {
	Id         string    `json:"applicationId" db:"id" dynamodbav:"applicationId"`
	JobId      string    `json:"jobId" db:"job_id" dynamodbav:"jobId"`
	EngineerId string    `json:"engineerId" db:"engineer_id" dynamodbav:"engineerId"`
	CompanyId  string    `json:"companyId" db:"company_id" dynamodbav:"companyId"`
	Message    string    `json:"message" db:"message" dynamodbav:"message"`
	Status     string    `json:"status" db:"status" dynamodbav:"status"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at" dynamodbav:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at" dynamodbav:"updatedAt"`
}

// controller model
type ApplicationOutputModel struct {
	ApplicationId  string `json:"applicationId"`
	JobId          string `json:"jobId"`
	EngineerId     string `json:"engineerId"`
	CompanyId      string `json:"companyId"`
	Message        string `json:"message"`
	Status         string `json:"status"`
	ConversationId string `json:"conversationId,omitempty"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}
