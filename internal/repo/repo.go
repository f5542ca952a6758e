package repo

import (
	"cloudport-api/internal/entity"
	"cloudport-api/internal/repo/dynamo"
	"cloudport-api/internal/repo/memdb"
	"cloudport-api/internal/repo/pgdb"
	dynamoclient "cloudport-api/pkg/dynamo"
	"cloudport-api/pkg/postgres"
	"context"
	"time"
)

type Diagnostics interface {
	Ping() error
}

type Job interface {
	CreateJob(ctx context.Context, job *entity.Job) error
	GetJobById(ctx context.Context, id string) (*entity.Job, error)
	GetOpenJobs(ctx context.Context, pg *entity.PaginationInput) ([]entity.Job, error)
	GetJobsByCompanyId(ctx context.Context, companyId string, pg *entity.PaginationInput) ([]entity.Job, error)
	UpdateJobStatusById(ctx context.Context, id string, newStatus string, updatedAt time.Time) error
}

type Application interface {
	// CreateApplication stores the application and its conversation
	// atomically. It returns repo_errors.ErrAlreadyExists when the engineer
	// already applied to the job.
	CreateApplication(ctx context.Context, application *entity.Application, conversation *entity.Conversation) error
	GetApplicationById(ctx context.Context, id string) (*entity.Application, error)
	GetApplicationsByJobId(ctx context.Context, jobId string, pg *entity.PaginationInput) ([]entity.Application, error)
	GetApplicationsByEngineerId(ctx context.Context, engineerId string, pg *entity.PaginationInput) ([]entity.Application, error)
	UpdateApplicationStatusById(ctx context.Context, id string, newStatus string, updatedAt time.Time) error
}

type Conversation interface {
	GetConversationById(ctx context.Context, id string) (*entity.Conversation, error)
	GetConversationByApplicationId(ctx context.Context, applicationId string) (*entity.Conversation, error)
	GetUserConversations(ctx context.Context, userId string, pg *entity.PaginationInput) ([]entity.Conversation, error)
	CreateMessage(ctx context.Context, message *entity.Message) error
	GetMessages(ctx context.Context, conversationId string, pg *entity.PaginationInput) ([]entity.Message, error)
}

type Contract interface {
	CreateContract(ctx context.Context, contract *entity.Contract) error
	GetContractById(ctx context.Context, id string) (*entity.Contract, error)
	GetUserContracts(ctx context.Context, userId string, filter entity.ContractFilter, pg *entity.PaginationInput) ([]entity.Contract, error)
	// UpdateContract stores contract only if the stored version still equals
	// expectedVersion, then bumps contract.Version. Otherwise it returns
	// repo_errors.ErrVersionConflict.
	UpdateContract(ctx context.Context, contract *entity.Contract, expectedVersion int) error
}

type Repositories struct {
	Diagnostics
	Job
	Application
	Conversation
	Contract
}

func NewRepositories(p *postgres.Postgres) *Repositories {
	return &Repositories{
		Diagnostics:  pgdb.NewDiagnosticsRepo(p),
		Job:          pgdb.NewJobRepo(p),
		Application:  pgdb.NewApplicationRepo(p),
		Conversation: pgdb.NewConversationRepo(p),
		Contract:     pgdb.NewContractRepo(p),
	}
}

func NewDynamoRepositories(c *dynamoclient.Client) *Repositories {
	return &Repositories{
		Diagnostics:  dynamo.NewDiagnosticsRepo(c),
		Job:          dynamo.NewJobRepo(c),
		Application:  dynamo.NewApplicationRepo(c),
		Conversation: dynamo.NewConversationRepo(c),
		Contract:     dynamo.NewContractRepo(c),
	}
}

func NewMemoryRepositories() *Repositories {
	s := memdb.NewStore()

	return &Repositories{
		Diagnostics:  memdb.NewDiagnosticsRepo(s),
		Job:          memdb.NewJobRepo(s),
		Application:  memdb.NewApplicationRepo(s),
		Conversation: memdb.NewConversationRepo(s),
		Contract:     memdb.NewContractRepo(s),
	}
}
