package entity

import "time"

type Conversation struct {
	Id            string    `json:"conversationId" db:"id" dynamodbav:"conversationId"`
	ApplicationId string    `json:"applicationId" db:"application_id" dynamodbav:"applicationId"`
	JobId         string    `json:"jobId" db:"job_id" dynamodbav:"jobId"`
	EngineerId    string    `json:"engineerId" db:"engineer_id" dynamodbav:"engineerId"`
	CompanyId     string    `json:"companyId" db:"company_id" dynamodbav:"companyId"`
	LastMessageAt time.Time `json:"lastMessageAt" db:"last_message_at" dynamodbav:"lastMessageAt"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at" dynamodbav:"createdAt"`
}

type Message struct {
	Id             string    `json:"messageId" db:"id" dynamodbav:"messageId"`
	ConversationId string    `json:"conversationId" db:"conversation_id" dynamodbav:"conversationId"`
	SenderId       string    `json:"senderId" db:"sender_id" dynamodbav:"senderId"`
	Content        string    `json:"content" db:"content" dynamodbav:"content"`
	AttachmentKey  string    `json:"attachmentKey,omitempty" db:"attachment_key" dynamodbav:"attachmentKey,omitempty"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at" dynamodbav:"createdAt"`
}

type ConversationOutputModel struct {
	ConversationId string `json:"conversationId"`
	ApplicationId  string `json:"applicationId"`
	JobId          string `json:"jobId"`
	EngineerId     string `json:"engineerId"`
	CompanyId      string `json:"companyId"`
	LastMessageAt  string `json:"lastMessageAt"`
	CreatedAt      string `json:"createdAt"`
}

type MessageOutputModel struct {
	MessageId      string `json:"messageId"`
	ConversationId string `json:"conversationId"`
	SenderId       string `json:"senderId"`
	Content        string `json:"content"`
	AttachmentKey  string `json:"attachmentKey,omitempty"`
	CreatedAt      string `json:"createdAt"`
}

type AttachmentUploadOutputModel struct {
	UploadUrl string `json:"uploadUrl"`
	Key       string `json:"key"`
	ExpiresAt string `json:"expiresAt"`
}
