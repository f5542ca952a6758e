package dynamo

import (
	"cloudport-api/internal/entity"
	"cloudport-api/internal/repo/repo_errors"
	"cloudport-api/pkg/dynamo"
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	conversationKey = "conversationId"
	messageKey      = "messageId"
)

type ConversationRepo struct {
	*dynamo.Client
}

func NewConversationRepo(c *dynamo.Client) *ConversationRepo {
	return &ConversationRepo{c}
}

func (r *ConversationRepo) GetConversationById(ctx context.Context, id string) (*entity.Conversation, error) {
	var c entity.Conversation
	if err := get(ctx, r.Client, dynamo.ConversationsTable, conversationKey, id, &c); err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *ConversationRepo) GetConversationByApplicationId(ctx context.Context, applicationId string) (*entity.Conversation, error) {
	conversations, err := r.query(ctx, dynamo.ApplicationIndex, "applicationId", applicationId)
	if err != nil {
		return nil, err
	}
	if len(conversations) == 0 {
		return nil, repo_errors.ErrNotFound
	}

	return &conversations[0], nil
}

func (r *ConversationRepo) GetUserConversations(ctx context.Context, userId string, pg *entity.PaginationInput) ([]entity.Conversation, error) {
	asEngineer, err := r.query(ctx, dynamo.EngineerIndex, "engineerId", userId)
	if err != nil {
		return nil, err
	}
	asCompany, err := r.query(ctx, dynamo.CompanyIndex, "companyId", userId)
	if err != nil {
		return nil, err
	}

	conversations := append(asEngineer, asCompany...)
	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].LastMessageAt.After(conversations[j].LastMessageAt)
	})

	return paginate(conversations, pg), nil
}

func (r *ConversationRepo) CreateMessage(ctx context.Context, message *entity.Message) error {
	if err := put(ctx, r.Client, dynamo.MessagesTable, messageKey, message); err != nil {
		return err
	}

	last, err := attributevalue.Marshal(message.CreatedAt)
	if err != nil {
		return err
	}

	_, err = r.DB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 r.Table(dynamo.ConversationsTable),
		Key:                       stringKey(conversationKey, message.ConversationId),
		UpdateExpression:          aws.String("SET lastMessageAt = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":t": last},
	})

	return err
}

func (r *ConversationRepo) GetMessages(ctx context.Context, conversationId string, pg *entity.PaginationInput) ([]entity.Message, error) {
	items, err := queryIndex(ctx, r.Client, dynamo.MessagesTable, dynamo.ConversationIdx, "conversationId", conversationId, true)
	if err != nil {
		return nil, err
	}

	messages := make([]entity.Message, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, err
	}

	return paginate(messages, pg), nil
}

func (r *ConversationRepo) query(ctx context.Context, index, attr, value string) ([]entity.Conversation, error) {
	items, err := queryIndex(ctx, r.Client, dynamo.ConversationsTable, index, attr, value, false)
	if err != nil {
		return nil, err
	}

	conversations := make([]entity.Conversation, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &conversations); err != nil {
		return nil, err
	}

	return conversations, nil
}
