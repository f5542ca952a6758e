package dynamo

import (
	"cloudport-api/internal/common"
	"cloudport-api/internal/entity"
	"cloudport-api/pkg/dynamo"
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
)

const jobKey = "jobId"

type JobRepo struct {
	*dynamo.Client
}

func NewJobRepo(c *dynamo.Client) *JobRepo {
	return &JobRepo{c}
}

func (r *JobRepo) CreateJob(ctx context.Context, job *entity.Job) error {
	return put(ctx, r.Client, dynamo.JobsTable, jobKey, job)
}

func (r *JobRepo) GetJobById(ctx context.Context, id string) (*entity.Job, error) {
	var job entity.Job
	if err := get(ctx, r.Client, dynamo.JobsTable, jobKey, id, &job); err != nil {
		return nil, err
	}

	return &job, nil
}

func (r *JobRepo) GetOpenJobs(ctx context.Context, pg *entity.PaginationInput) ([]entity.Job, error) {
	return r.query(ctx, dynamo.StatusIndex, "status", common.JobOpen, pg)
}

func (r *JobRepo) GetJobsByCompanyId(ctx context.Context, companyId string, pg *entity.PaginationInput) ([]entity.Job, error) {
	return r.query(ctx, dynamo.CompanyIndex, "companyId", companyId, pg)
}

func (r *JobRepo) UpdateJobStatusById(ctx context.Context, id string, newStatus string, updatedAt time.Time) error {
	return setStatus(ctx, r.Client, dynamo.JobsTable, jobKey, id, newStatus, updatedAt)
}

func (r *JobRepo) query(ctx context.Context, index, attr, value string, pg *entity.PaginationInput) ([]entity.Job, error) {
	items, err := queryIndex(ctx, r.Client, dynamo.JobsTable, index, attr, value, false)
	if err != nil {
		return nil, err
	}

	jobs := make([]entity.Job, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &jobs); err != nil {
		return nil, err
	}

	return paginate(jobs, pg), nil
}
