package dynamo

import (
	"cloudport-api/internal/entity"
	"cloudport-api/pkg/dynamo"
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
)

const applicationKey = "applicationId"

type ApplicationRepo struct {
	*dynamo.Client
}

func NewApplicationRepo(c *dynamo.Client) *ApplicationRepo {
	return &ApplicationRepo{c}
}

// CreateApplication writes the application, its conversation and both
// guards in one transaction.
func (r *ApplicationRepo) CreateApplication(ctx context.Context, application *entity.Application, conversation *entity.Conversation) error {
	return putUnique(ctx, r.Client,
		uniquePut{
			table:   dynamo.ApplicationsTable,
			keyAttr: applicationKey,
			item:    application,
			guard:   applicationGuard(application.JobId, application.EngineerId),
		},
		uniquePut{
			table:   dynamo.ConversationsTable,
			keyAttr: conversationKey,
			item:    conversation,
			guard:   conversationGuard(conversation.ApplicationId),
		},
	)
}

func (r *ApplicationRepo) GetApplicationById(ctx context.Context, id string) (*entity.Application, error) {
	var a entity.Application
	if err := get(ctx, r.Client, dynamo.ApplicationsTable, applicationKey, id, &a); err != nil {
		return nil, err
	}

	return &a, nil
}

func (r *ApplicationRepo) GetApplicationsByJobId(ctx context.Context, jobId string, pg *entity.PaginationInput) ([]entity.Application, error) {
	return r.query(ctx, dynamo.JobIndex, "jobId", jobId, pg)
}

func (r *ApplicationRepo) GetApplicationsByEngineerId(ctx context.Context, engineerId string, pg *entity.PaginationInput) ([]entity.Application, error) {
	return r.query(ctx, dynamo.EngineerIndex, "engineerId", engineerId, pg)
}

func (r *ApplicationRepo) UpdateApplicationStatusById(ctx context.Context, id string, newStatus string, updatedAt time.Time) error {
	return setStatus(ctx, r.Client, dynamo.ApplicationsTable, applicationKey, id, newStatus, updatedAt)
}

func (r *ApplicationRepo) query(ctx context.Context, index, attr, value string, pg *entity.PaginationInput) ([]entity.Application, error) {
	items, err := queryIndex(ctx, r.Client, dynamo.ApplicationsTable, index, attr, value, false)
	if err != nil {
		return nil, err
	}

	applications := make([]entity.Application, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &applications); err != nil {
		return nil, err
	}

	return paginate(applications, pg), nil
}
