package pgdb

import (
	"cloudport-api/internal/common"
	"cloudport-api/internal/entity"
	"cloudport-api/internal/repo/repo_errors"
	"cloudport-api/pkg/postgres"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

var jobColumns = []string{
	"id", "company_id", "title", "description", "budget", "duration",
	"required_certifications", "status", "created_at", "updated_at",
}

type JobRepo struct {
	*postgres.Postgres
}

func NewJobRepo(pgdb *postgres.Postgres) *JobRepo {
	return &JobRepo{pgdb}
}

func scanJob(row squirrel.RowScanner) (entity.Job, error) {
	var job entity.Job
	err := row.Scan(&job.Id, &job.CompanyId, &job.Title, &job.Description, &job.Budget, &job.Duration,
		pq.Array(&job.RequiredCertifications), &job.Status, &job.CreatedAt, &job.UpdatedAt)

	return job, err
}

func (r *JobRepo) CreateJob(ctx context.Context, job *entity.Job) error {
	createJobSql, args, _ := r.SqlBuilder.
		Insert("job").
		Columns(jobColumns...).
		Values(job.Id, job.CompanyId, job.Title, job.Description, job.Budget, job.Duration,
			pq.Array(job.RequiredCertifications), job.Status, job.CreatedAt, job.UpdatedAt).
		ToSql()

	_, err := r.Database.ExecContext(ctx, createJobSql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return repo_errors.ErrAlreadyExists
		}

		return err
	}

	return nil
}

func (r *JobRepo) GetJobById(ctx context.Context, id string) (*entity.Job, error) {
	getJobSql, args, _ := r.SqlBuilder.
		Select(jobColumns...).
		From("job").
		Where("id = ?", id).
		ToSql()

	job, err := scanJob(r.Database.QueryRowContext(ctx, getJobSql, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return &job, nil
}

func (r *JobRepo) GetOpenJobs(ctx context.Context, pg *entity.PaginationInput) ([]entity.Job, error) {
	builder := r.SqlBuilder.
		Select(jobColumns...).
		From("job").
		Where("status = ?", common.JobOpen)

	return r.list(ctx, builder, pg)
}

func (r *JobRepo) GetJobsByCompanyId(ctx context.Context, companyId string, pg *entity.PaginationInput) ([]entity.Job, error) {
	builder := r.SqlBuilder.
		Select(jobColumns...).
		From("job").
		Where("company_id = ?", companyId)

	return r.list(ctx, builder, pg)
}

func (r *JobRepo) UpdateJobStatusById(ctx context.Context, id string, newStatus string, updatedAt time.Time) error {
	updateStatusSql, args, _ := r.SqlBuilder.
		Update("job").
		Set("status", newStatus).
		Set("updated_at", updatedAt).
		Where("id = ?", id).
		ToSql()

	res, err := r.Database.ExecContext(ctx, updateStatusSql, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repo_errors.ErrNotFound
	}

	return nil
}

func (r *JobRepo) list(ctx context.Context, builder squirrel.SelectBuilder, pg *entity.PaginationInput) ([]entity.Job, error) {
	sqlReq, args, _ := builder.
		OrderBy("created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	rows, err := r.Database.QueryContext(ctx, sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]entity.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return jobs, err
		}
		jobs = append(jobs, job)
	}
	if err = rows.Err(); err != nil {
		return jobs, err
	}

	return jobs, nil
}
