package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Table names relative to the configured prefix.
const (
	JobsTable          = "jobs"
	ApplicationsTable  = "applications"
	ConversationsTable = "conversations"
	MessagesTable      = "messages"
	ContractsTable     = "contracts"
	// GuardsTable holds one item per unique business key, keyed by GuardKey.
	GuardsTable = "guards"
)

const GuardKey = "pk"

// Secondary index names.
const (
	StatusIndex      = "status-createdAt-index"
	CompanyIndex     = "companyId-createdAt-index"
	EngineerIndex    = "engineerId-createdAt-index"
	JobIndex         = "jobId-createdAt-index"
	ApplicationIndex = "applicationId-index"
	ConversationIdx  = "conversationId-createdAt-index"
)

// API is the part of the DynamoDB client the repositories use.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

type Client struct {
	DB          API
	TablePrefix string
}

func NewClient(cfg aws.Config, endpoint string, tablePrefix string) *Client {
	db := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &Client{
		DB:          db,
		TablePrefix: tablePrefix,
	}
}

func (c *Client) Table(name string) *string {
	return aws.String(c.TablePrefix + name)
}

func (c *Client) Ping(ctx context.Context) error {
	_, err := c.DB.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: c.Table(ContractsTable)})
	if err != nil {
		return fmt.Errorf("describe table %s: %w", *c.Table(ContractsTable), err)
	}

	return nil
}
