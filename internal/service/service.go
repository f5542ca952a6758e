package service

import (
	"cloudport-api/internal/attachment"
	"cloudport-api/internal/auth"
	"cloudport-api/internal/entity"
	"cloudport-api/internal/logquery"
	"cloudport-api/internal/metrics"
	"cloudport-api/internal/notify"
	"cloudport-api/internal/payment"
	"cloudport-api/internal/repo"
	"context"
	"time"
)

type Diagnostics interface {
	Ping() error
}

type Job interface {
	CreateJob(ctx context.Context, caller *auth.Principal, input *entity.CreateJobInput) (*entity.JobOutputModel, error)
	GetJob(ctx context.Context, caller *auth.Principal, jobId string) (*entity.JobOutputModel, error)
	GetOpenJobs(ctx context.Context, pg *entity.PaginationInput) ([]entity.JobOutputModel, error)
	GetUserJobs(ctx context.Context, caller *auth.Principal, pg *entity.PaginationInput) ([]entity.JobOutputModel, error)
	UpdateJobStatus(ctx context.Context, caller *auth.Principal, jobId string, newStatus string) (*entity.JobOutputModel, error)
}

type Application interface {
	Apply(ctx context.Context, caller *auth.Principal, jobId string, message string) (*entity.ApplicationOutputModel, error)
	GetApplication(ctx context.Context, caller *auth.Principal, applicationId string) (*entity.ApplicationOutputModel, error)
	GetJobApplications(ctx context.Context, caller *auth.Principal, jobId string, pg *entity.PaginationInput) ([]entity.ApplicationOutputModel, error)
	GetUserApplications(ctx context.Context, caller *auth.Principal, pg *entity.PaginationInput) ([]entity.ApplicationOutputModel, error)
	UpdateApplicationStatus(ctx context.Context, caller *auth.Principal, applicationId string, newStatus string) (*entity.ApplicationOutputModel, error)
}

type Conversation interface {
	GetUserConversations(ctx context.Context, caller *auth.Principal, pg *entity.PaginationInput) ([]entity.ConversationOutputModel, error)
	GetConversation(ctx context.Context, caller *auth.Principal, conversationId string) (*entity.ConversationOutputModel, error)
	GetMessages(ctx context.Context, caller *auth.Principal, conversationId string, pg *entity.PaginationInput) ([]entity.MessageOutputModel, error)
	SendMessage(ctx context.Context, caller *auth.Principal, conversationId string, content string, attachmentKey string) (*entity.MessageOutputModel, error)
	RequestAttachmentUpload(ctx context.Context, caller *auth.Principal, conversationId string, fileName string, contentType string) (*entity.AttachmentUploadOutputModel, error)
}

type Contract interface {
	CreateContract(ctx context.Context, caller *auth.Principal, input *entity.CreateContractInput) (*entity.ContractOutputModel, error)
	GetContract(ctx context.Context, caller *auth.Principal, contractId string) (*entity.ContractOutputModel, error)
	GetUserContracts(ctx context.Context, caller *auth.Principal, filter entity.ContractFilter, pg *entity.PaginationInput) ([]entity.ContractOutputModel, error)
	ApproveContract(ctx context.Context, caller *auth.Principal, contractId string) (*entity.ContractOutputModel, error)
	PayContract(ctx context.Context, caller *auth.Principal, contractId string, paymentToken string) (*entity.ContractOutputModel, error)
	RefundContract(ctx context.Context, caller *auth.Principal, contractId string, reason string) (*entity.ContractOutputModel, error)
}

type AdminLogs interface {
	GetSystemLogs(ctx context.Context, caller *auth.Principal, query *entity.SystemLogsQuery) (*entity.SystemLogsOutputModel, error)
}

// LogSource is the set of log groups and the filter pattern behind one
// log viewer logType.
type LogSource struct {
	LogType string
	Groups  []string
	Pattern string
}

// Dependencies are the collaborators shared by the services. Nil optional
// members disable the matching feature.
type Dependencies struct {
	CardGateway payment.Gateway // optional
	DemoGateway payment.Gateway // optional, used for token-less payments
	Publisher   notify.Publisher
	Signer      attachment.Signer // optional
	Querier     logquery.Querier
	LogSources  []LogSource
	LogTimeout  time.Duration
	FeePercent  float64
	Currency    string
	Metrics     *metrics.Metrics
	Now         func() time.Time
}

type Services struct {
	Diagnostics  Diagnostics
	Job          Job
	Application  Application
	Conversation Conversation
	Contract     Contract
	AdminLogs    AdminLogs
}

func NewServices(repos *repo.Repositories, deps *Dependencies) *Services {
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}
	if deps.Publisher == nil {
		deps.Publisher = notify.NopPublisher{}
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	return &Services{
		Diagnostics:  NewDiagnosticsService(repos),
		Job:          NewJobService(repos, deps),
		Application:  NewApplicationService(repos, deps),
		Conversation: NewConversationService(repos, deps),
		Contract:     NewContractService(repos, deps),
		AdminLogs:    NewAdminLogsService(deps),
	}
}
