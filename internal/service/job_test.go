package service

import (
	"cloudport-api/internal/common"
	"cloudport-api/internal/entity"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobService_CreateJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	job, err := f.services.Job.CreateJob(ctx, f.company, &entity.CreateJobInput{Title: "Lambda tuning", Description: "Cut cold starts", Budget: 200000})
	require.NoError(t, err)
	assert.Equal(t, common.JobOpen, job.Status)
	assert.Equal(t, f.company.UserId, job.CompanyId)
	assert.NotNil(t, job.RequiredCertifications)

	_, err = f.services.Job.CreateJob(ctx, f.engineer, &entity.CreateJobInput{Title: "x", Description: "y", Budget: 1})
	assert.ErrorIs(t, err, ErrOnlyCompanyCanPostJobs)

	_, err = f.services.Job.CreateJob(ctx, nil, &entity.CreateJobInput{Title: "x", Description: "y", Budget: 1})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestJobService_UpdateJobStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := principal("company-2", common.Company)

	job, err := f.services.Job.CreateJob(ctx, f.company, &entity.CreateJobInput{Title: "VPC redesign", Description: "Hub and spoke", Budget: 400000})
	require.NoError(t, err)

	_, err = f.services.Job.UpdateJobStatus(ctx, other, job.JobId, common.JobClosed)
	assert.ErrorIs(t, err, ErrUserIsNotJobOwner)

	_, err = f.services.Job.UpdateJobStatus(ctx, f.company, job.JobId, "archived")
	assert.ErrorIs(t, err, ErrInvalidJobStatus)

	out, err := f.services.Job.UpdateJobStatus(ctx, f.company, job.JobId, common.JobClosed)
	require.NoError(t, err)
	assert.Equal(t, common.JobClosed, out.Status)

	open, err := f.services.Job.GetOpenJobs(ctx, entity.NewPaginationInput(0, 0))
	require.NoError(t, err)
	assert.Empty(t, open)

	// closed jobs are hidden from everybody but the owner
	_, err = f.services.Job.GetJob(ctx, f.engineer, job.JobId)
	assert.ErrorIs(t, err, ErrJobNotFound)
	got, err := f.services.Job.GetJob(ctx, f.company, job.JobId)
	require.NoError(t, err)
	assert.Equal(t, job.JobId, got.JobId)

	_, err = f.services.Application.Apply(ctx, f.engineer, job.JobId, "hello")
	assert.ErrorIs(t, err, ErrJobIsClosed)
}

func TestJobService_Listing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		_, err := f.services.Job.CreateJob(ctx, f.company, &entity.CreateJobInput{Title: title, Description: "d", Budget: 1000})
		require.NoError(t, err)
	}

	jobs, err := f.services.Job.GetOpenJobs(ctx, entity.NewPaginationInput(2, 0))
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "third", jobs[0].Title)
	assert.Equal(t, "second", jobs[1].Title)

	jobs, err = f.services.Job.GetOpenJobs(ctx, entity.NewPaginationInput(2, 2))
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "first", jobs[0].Title)

	mine, err := f.services.Job.GetUserJobs(ctx, f.company, entity.NewPaginationInput(0, 0))
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	_, err = f.services.Job.GetUserJobs(ctx, f.engineer, entity.NewPaginationInput(0, 0))
	assert.ErrorIs(t, err, ErrOnlyCompanyCanPostJobs)
}
