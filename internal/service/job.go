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

type JobService struct {
	jobRepo repo.Job
	now     func() time.Time
}

func NewJobService(repos *repo.Repositories, deps *Dependencies) *JobService {
	return &JobService{
		jobRepo: repos.Job,
		now:     deps.Now,
	}
}

func (s *JobService) CreateJob(ctx context.Context, caller *auth.Principal, input *entity.CreateJobInput) (*entity.JobOutputModel, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if !caller.IsCompany() {
		return nil, ErrOnlyCompanyCanPostJobs
	}

	now := s.now()
	job := &entity.Job{
		Id:                     uuid.NewString(),
		CompanyId:              caller.UserId,
		Title:                  input.Title,
		Description:            input.Description,
		Budget:                 input.Budget,
		Duration:               input.Duration,
		RequiredCertifications: input.RequiredCertifications,
		Status:                 common.JobOpen,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if job.RequiredCertifications == nil {
		job.RequiredCertifications = make([]string, 0)
	}

	if err := s.jobRepo.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	logger.Info(ctx, "job created", "job_id", job.Id)

	return mapJob(job), nil
}

func (s *JobService) GetJob(ctx context.Context, caller *auth.Principal, jobId string) (*entity.JobOutputModel, error) {
	job, err := s.jobRepo.GetJobById(ctx, jobId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrJobNotFound
		}

		return nil, err
	}

	// closed jobs stay visible to their owner only
	if job.Status != common.JobOpen && (caller == nil || caller.UserId != job.CompanyId) {
		return nil, ErrJobNotFound
	}

	return mapJob(job), nil
}

func (s *JobService) GetOpenJobs(ctx context.Context, pg *entity.PaginationInput) ([]entity.JobOutputModel, error) {
	jobs, err := s.jobRepo.GetOpenJobs(ctx, pg)
	if err != nil {
		return nil, err
	}

	return mapJobs(jobs), nil
}

func (s *JobService) GetUserJobs(ctx context.Context, caller *auth.Principal, pg *entity.PaginationInput) ([]entity.JobOutputModel, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if !caller.IsCompany() {
		return nil, ErrOnlyCompanyCanPostJobs
	}

	jobs, err := s.jobRepo.GetJobsByCompanyId(ctx, caller.UserId, pg)
	if err != nil {
		return nil, err
	}

	return mapJobs(jobs), nil
}

func (s *JobService) UpdateJobStatus(ctx context.Context, caller *auth.Principal, jobId string, newStatus string) (*entity.JobOutputModel, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if newStatus != common.JobOpen && newStatus != common.JobClosed {
		return nil, ErrInvalidJobStatus
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

	if job.Status != newStatus {
		now := s.now()
		if err := s.jobRepo.UpdateJobStatusById(ctx, jobId, newStatus, now); err != nil {
			return nil, err
		}
		job.Status = newStatus
		job.UpdatedAt = now
		logger.Info(ctx, "job status changed", "job_id", jobId, "status", newStatus)
	}

	return mapJob(job), nil
}
