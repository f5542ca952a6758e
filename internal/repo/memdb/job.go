package memdb

import (
	"cloudport-api/internal/common"
	"cloudport-api/internal/entity"
	"cloudport-api/internal/repo/repo_errors"
	"context"
	"sort"
	"time"
)

type JobRepo struct {
	*Store
}

func NewJobRepo(s *Store) *JobRepo {
	return &JobRepo{s}
}

func (r *JobRepo) CreateJob(ctx context.Context, job *entity.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[job.Id]; ok {
		return repo_errors.ErrAlreadyExists
	}
	r.jobs[job.Id] = *job

	return nil
}

func (r *JobRepo) GetJobById(ctx context.Context, id string) (*entity.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &job, nil
}

func (r *JobRepo) GetOpenJobs(ctx context.Context, pg *entity.PaginationInput) ([]entity.Job, error) {
	return r.filter(pg, func(j entity.Job) bool { return j.Status == common.JobOpen }), nil
}

func (r *JobRepo) GetJobsByCompanyId(ctx context.Context, companyId string, pg *entity.PaginationInput) ([]entity.Job, error) {
	return r.filter(pg, func(j entity.Job) bool { return j.CompanyId == companyId }), nil
}

func (r *JobRepo) UpdateJobStatusById(ctx context.Context, id string, newStatus string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return repo_errors.ErrNotFound
	}
	job.Status = newStatus
	job.UpdatedAt = updatedAt
	r.jobs[id] = job

	return nil
}

// newest first
func (r *JobRepo) filter(pg *entity.PaginationInput, keep func(entity.Job) bool) []entity.Job {
	r.mu.RLock()
	defer r.mu.RUnlock()

	jobs := make([]entity.Job, 0)
	for _, j := range r.jobs {
		if keep(j) {
			jobs = append(jobs, j)
		}
	}
	sort.Slice(jobs, func(a, b int) bool { return jobs[a].CreatedAt.After(jobs[b].CreatedAt) })

	return paginate(jobs, pg)
}
