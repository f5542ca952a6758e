package notify

import (
	"cloudport-api/internal/entity"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// Publisher hands contract events to downstream consumers.
type Publisher interface {
	PublishContractEvent(ctx context.Context, event entity.ContractEvent) error
}

type sendMessageAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type SQSPublisher struct {
	client   sendMessageAPI
	queueURL string
}

func NewSQSPublisher(cfg aws.Config, queueURL string) *SQSPublisher {
	return &SQSPublisher{client: sqs.NewFromConfig(cfg), queueURL: queueURL}
}

func (p *SQSPublisher) PublishContractEvent(ctx context.Context, event entity.ContractEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal contract event: %w", err)
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"type": {DataType: aws.String("String"), StringValue: aws.String(event.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send contract event: %w", err)
	}

	return nil
}

// NopPublisher drops every event. Used when no queue is configured.
type NopPublisher struct{}

func (NopPublisher) PublishContractEvent(ctx context.Context, event entity.ContractEvent) error {
	return nil
}
