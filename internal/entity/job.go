package entity

import "time"

// db model
type Job struct {
	Id                     string    `json:"jobId" db:"id" dynamodbav:"jobId"`
	CompanyId              string    `json:"companyId" db:"company_id" dynamodbav:"companyId"`
	Title                  string    `json:"title" db:"title" dynamodbav:"title"`
	Description            string    `json:"description" db:"description" dynamodbav:"description"`
	Budget                 int64     `json:"budget" db:"budget" dynamodbav:"budget"`
	Duration               string    `json:"duration" db:"duration" dynamodbav:"duration"`
	RequiredCertifications []string  `json:"requiredCertifications" db:"required_certifications" dynamodbav:"requiredCertifications"`
	Status                 string    `json:"status" db:"status" dynamodbav:"status"`
	CreatedAt              time.Time `json:"createdAt" db:"created_at" dynamodbav:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt" db:"updated_at" dynamodbav:"updatedAt"`
}

// service input model
type CreateJobInput struct {
	CompanyId              string // from caller identity
	Title                  string
	Description            string
	Budget                 int64
	Duration               string
	RequiredCertifications []string
}

// controller model
type JobOutputModel struct {
	JobId                  string   `json:"jobId"`
	CompanyId              string   `json:"companyId"`
	Title                  string   `json:"title"`
	Description            string   `json:"description"`
	Budget                 int64    `json:"budget"`
	Duration               string   `json:"duration"`
	RequiredCertifications []string `json:"requiredCertifications"`
	Status                 string   `json:"status"`
	CreatedAt              string   `json:"createdAt"`
	UpdatedAt              string   `json:"updatedAt"`
}
