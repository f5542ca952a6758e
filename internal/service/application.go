package service

import (
	"cloudport-api/internal/auth"
	"cloudport-api/internal/common"
	"cloudport-api/internal/entity"
	"cloudport-api/internal/repo"
	"cloudport-api/internal/repo/repo_errors"
	"cloudport-api/pkg/logger"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type ApplicationService struct {
	jobRepo          repo.Job
	applicationRepo  repo.Application
	conversationRepo repo.Conversation
	now              func() time.Time
}

func NewApplicationService(repos *repo.Repositories, deps *Dependencies) *ApplicationService {
	return &ApplicationService{
		jobRepo:          repos.Job,
		applicationRepo:  repos.Application,
		conversationRepo: repos.Conversation,
		now:              deps.Now,
	}
}

// Apply records the application and opens its conversation in one write.
func (s *ApplicationService) Apply(ctx context.Context, caller *auth.Principal, jobId string, message string) (*entity.ApplicationOutputModel, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if !caller.IsEngineer() {
		return nil, ErrOnlyEngineerCanApply
	}

	job, err := s.jobRepo.GetJobById(ctx, jobId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrJobNotFound
		}

		return nil, err
	}
	if job.Status != common.JobOpen {
		return nil, ErrJobIsClosed
	}

	now := s.now()
	application := &entity.Application{
		Id:         uuid.NewString(),
		JobId:      job.Id,
		EngineerId: caller.UserId,
		CompanyId:  job.CompanyId,
		Message:    message,
		Status:     common.ApplicationPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	conversation := &entity.Conversation{
		Id:            uuid.NewString(),
		ApplicationId: application.Id,
		JobId:         job.Id,
		EngineerId:    application.EngineerId,
		CompanyId:     application.CompanyId,
		LastMessageAt: now,
		CreatedAt:     now,
	}
	if err := s.applicationRepo.CreateApplication(ctx, application, conversation); err != nil {
		if errors.Is(err, repo_errors.ErrAlreadyExists) {
			return nil, ErrAlreadyApplied
		}

		return nil, err
	}
	logger.Info(ctx, "application submitted", "application_id", application.Id, "job_id", job.Id)

	out := mapApplication(application)
	out.ConversationId = conversation.Id

	return out, nil
}

func (s *ApplicationService) getForParty(ctx context.Context, caller *auth.Principal, applicationId string) (*entity.Application, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}

	application, err := s.applicationRepo.GetApplicationById(ctx, applicationId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}

		return nil, err
	}
	if application.EngineerId != caller.UserId && application.CompanyId != caller.UserId {
		return nil, ErrUserHasNoAccessToApp
	}

	return application, nil
}

func (s *ApplicationService) GetApplication(ctx context.Context, caller *auth.Principal, applicationId string) (*entity.ApplicationOutputModel, error) {
	application, err := s.getForParty(ctx, caller, applicationId)
	if err != nil {
		return nil, err
	}

	out := mapApplication(application)
	if c, err := s.conversationRepo.GetConversationByApplicationId(ctx, application.Id); err == nil {
		out.ConversationId = c.Id
	}

	return out, nil
}

func (s *ApplicationService) GetJobApplications(ctx context.Context, caller *auth.Principal, jobId string, pg *entity.PaginationInput) ([]entity.ApplicationOutputModel, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}

	job, err := s.jobRepo.GetJobById(ctx, jobId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrJobNotFound
		}

		return nil, err
	}
	if job.CompanyId != caller.UserId {
		return nil, ErrUserIsNotJobOwner
	}

	applications, err := s.applicationRepo.GetApplicationsByJobId(ctx, jobId, pg)
	if err != nil {
		return nil, err
	}

	return mapApplications(applications), nil
}

func (s *ApplicationService) GetUserApplications(ctx context.Context, caller *auth.Principal, pg *entity.PaginationInput) ([]entity.ApplicationOutputModel, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}

	applications, err := s.applicationRepo.GetApplicationsByEngineerId(ctx, caller.UserId, pg)
	if err != nil {
		return nil, err
	}

	return mapApplications(applications), nil
}

// Companies accept or reject pending applications; engineers may withdraw
// an application until it was rejected.
func (s *ApplicationService) UpdateApplicationStatus(ctx context.Context, caller *auth.Principal, applicationId string, newStatus string) (*entity.ApplicationOutputModel, error) {
	application, err := s.getForParty(ctx, caller, applicationId)
	if err != nil {
		return nil, err
	}

	switch newStatus {
	case common.ApplicationAccepted, common.ApplicationRejected:
		if caller.UserId != application.CompanyId {
			return nil, ErrApplicationStatusForbidden
		}
		if application.Status != common.ApplicationPending {
			return nil, ErrInvalidApplicationStatus
		}
	case common.ApplicationWithdrawn:
		if caller.UserId != application.EngineerId {
			return nil, ErrApplicationStatusForbidden
		}
		if application.Status != common.ApplicationPending && application.Status != common.ApplicationAccepted {
			return nil, ErrInvalidApplicationStatus
		}
	default:
		return nil, ErrInvalidApplicationStatus
	}

	now := s.now()
	if err := s.applicationRepo.UpdateApplicationStatusById(ctx, applicationId, newStatus, now); err != nil {
		return nil, err
	}
	application.Status = newStatus
	application.UpdatedAt = now
	logger.Info(ctx, "application status changed", "application_id", applicationId, "status", newStatus)

	return mapApplication(application), nil
}
