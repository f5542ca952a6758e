package service

import (
	"cloudport-api/internal/entity"
	"time"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)

	return &s
}

func mapJob(j *entity.Job) *entity.JobOutputModel {
	certs := j.RequiredCertifications
	if certs == nil {
		certs = make([]string, 0)
	}

	return &entity.JobOutputModel{
		JobId:                  j.Id,
		CompanyId:              j.CompanyId,
		Title:                  j.Title,
		Description:            j.Description,
		Budget:                 j.Budget,
		Duration:               j.Duration,
		RequiredCertifications: certs,
		Status:                 j.Status,
		CreatedAt:              formatTime(j.CreatedAt),
		UpdatedAt:              formatTime(j.UpdatedAt),
	}
}

func mapJobs(jobs []entity.Job) []entity.JobOutputModel {
	s := make([]entity.JobOutputModel, 0, len(jobs))
	for _, job := range jobs {
		s = append(s, *mapJob(&job))
	}

	return s
}

func mapApplication(a *entity.Application) *entity.ApplicationOutputModel {
	return &entity.ApplicationOutputModel{
		ApplicationId: a.Id,
		JobId:         a.JobId,
		EngineerId:    a.EngineerId,
		CompanyId:     a.CompanyId,
		Message:       a.Message,
		Status:        a.Status,
		CreatedAt:     formatTime(a.CreatedAt),
		UpdatedAt:     formatTime(a.UpdatedAt),
	}
}

func mapApplications(applications []entity.Application) []entity.ApplicationOutputModel {
	s := make([]entity.ApplicationOutputModel, 0, len(applications))
	for _, a := range applications {
		s = append(s, *mapApplication(&a))
	}

	return s
}

func mapConversation(c *entity.Conversation) *entity.ConversationOutputModel {
	return &entity.ConversationOutputModel{
		ConversationId: c.Id,
		ApplicationId:  c.ApplicationId,
		JobId:          c.JobId,
		EngineerId:     c.EngineerId,
		CompanyId:      c.CompanyId,
		LastMessageAt:  formatTime(c.LastMessageAt),
		CreatedAt:      formatTime(c.CreatedAt),
	}
}

func mapConversations(conversations []entity.Conversation) []entity.ConversationOutputModel {
	s := make([]entity.ConversationOutputModel, 0, len(conversations))
	for _, c := range conversations {
		s = append(s, *mapConversation(&c))
	}

	return s
}

func mapMessage(m *entity.Message) *entity.MessageOutputModel {
	return &entity.MessageOutputModel{
		MessageId:      m.Id,
		ConversationId: m.ConversationId,
		SenderId:       m.SenderId,
		Content:        m.Content,
		AttachmentKey:  m.AttachmentKey,
		CreatedAt:      formatTime(m.CreatedAt),
	}
}

func mapMessages(messages []entity.Message) []entity.MessageOutputModel {
	s := make([]entity.MessageOutputModel, 0, len(messages))
	for _, m := range messages {
		s = append(s, *mapMessage(&m))
	}

	return s
}

func mapContract(c *entity.Contract) *entity.ContractOutputModel {
	return &entity.ContractOutputModel{
		ContractId:         c.Id,
		ApplicationId:      c.ApplicationId,
		JobId:              c.JobId,
		EngineerId:         c.EngineerId,
		CompanyId:          c.CompanyId,
		Status:             c.Status,
		InitiatedBy:        c.InitiatedBy,
		ContractAmount:     c.ContractAmount,
		FeePercentage:      c.FeePercentage,
		FeeAmount:          c.FeeAmount,
		ApprovedByEngineer: formatTimePtr(c.ApprovedByEngineer),
		ApprovedByCompany:  formatTimePtr(c.ApprovedByCompany),
		PaymentId:          c.PaymentId,
		PaymentMethod:      c.PaymentMethod,
		PaidAt:             formatTimePtr(c.PaidAt),
		RefundedAt:         formatTimePtr(c.RefundedAt),
		CreatedAt:          formatTime(c.CreatedAt),
		UpdatedAt:          formatTime(c.UpdatedAt),
	}
}

func mapContracts(contracts []entity.Contract) []entity.ContractOutputModel {
	s := make([]entity.ContractOutputModel, 0, len(contracts))
	for _, c := range contracts {
		s = append(s, *mapContract(&c))
	}

	return s
}
