package dynamo

import (
	"cloudport-api/internal/entity"
	"cloudport-api/internal/repo/repo_errors"
	"cloudport-api/pkg/dynamo"
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type DiagnosticsRepo struct {
	*dynamo.Client
}

func NewDiagnosticsRepo(c *dynamo.Client) *DiagnosticsRepo {
	return &DiagnosticsRepo{c}
}

func (r *DiagnosticsRepo) Ping() error {
	return r.Client.Ping(context.Background())
}

func stringKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{name: &types.AttributeValueMemberS{Value: value}}
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// put writes item only when no item with the same key attribute exists.
func put(ctx context.Context, c *dynamo.Client, table string, keyAttr string, item any) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}

	_, err = c.DB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                c.Table(table),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_not_exists(#k)"),
		ExpressionAttributeNames: map[string]string{"#k": keyAttr},
	})
	if err != nil {
		if isConditionFailed(err) {
			return repo_errors.ErrAlreadyExists
		}

		return err
	}

	return nil
}

// uniquePut is one item of a putUnique transaction. A non-empty guard is a
// business key that no other item may claim.
type uniquePut struct {
	table   string
	keyAttr string
	item    any
	guard   string
}

// putUnique writes every item and its guard in one transaction. The whole
// write is rejected with repo_errors.ErrAlreadyExists when any key or guard
// is already taken.
func putUnique(ctx context.Context, c *dynamo.Client, puts ...uniquePut) error {
	writes := make([]types.TransactWriteItem, 0, 2*len(puts))
	for _, p := range puts {
		av, err := attributevalue.MarshalMap(p.item)
		if err != nil {
			return err
		}
		writes = append(writes, types.TransactWriteItem{Put: &types.Put{
			TableName:                c.Table(p.table),
			Item:                     av,
			ConditionExpression:      aws.String("attribute_not_exists(#k)"),
			ExpressionAttributeNames: map[string]string{"#k": p.keyAttr},
		}})

		if p.guard == "" {
			continue
		}
		writes = append(writes, types.TransactWriteItem{Put: &types.Put{
			TableName: c.Table(dynamo.GuardsTable),
			Item: map[string]types.AttributeValue{
				dynamo.GuardKey: &types.AttributeValueMemberS{Value: p.guard},
				"owner":         av[p.keyAttr],
			},
			ConditionExpression:      aws.String("attribute_not_exists(#k)"),
			ExpressionAttributeNames: map[string]string{"#k": dynamo.GuardKey},
		}})
	}

	_, err := c.DB.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: writes})
	if err != nil {
		if isConditionCanceled(err) {
			return repo_errors.ErrAlreadyExists
		}

		return err
	}

	return nil
}

func isConditionCanceled(err error) bool {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return false
	}
	for _, reason := range tce.CancellationReasons {
		if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
			return true
		}
	}

	return false
}

func applicationGuard(jobId, engineerId string) string {
	return "application#job#" + jobId + "#engineer#" + engineerId
}

func conversationGuard(applicationId string) string {
	return "conversation#application#" + applicationId
}

func contractGuard(applicationId string) string {
	return "contract#application#" + applicationId
}

func get(ctx context.Context, c *dynamo.Client, table string, keyAttr string, id string, out any) error {
	res, err := c.DB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: c.Table(table),
		Key:       stringKey(keyAttr, id),
	})
	if err != nil {
		return err
	}
	if len(res.Item) == 0 {
		return repo_errors.ErrNotFound
	}

	return attributevalue.UnmarshalMap(res.Item, out)
}

// queryIndex reads every item whose partition attribute equals value. Items
// come back ordered by the index sort key.
func queryIndex(ctx context.Context, c *dynamo.Client, table, index, attr, value string, ascending bool) ([]map[string]types.AttributeValue, error) {
	input := &dynamodb.QueryInput{
		TableName:                 c.Table(table),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": attr},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: value}},
		ScanIndexForward:          aws.Bool(ascending),
	}

	items := make([]map[string]types.AttributeValue, 0)
	paginator := dynamodb.NewQueryPaginator(c.DB, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
	}

	return items, nil
}

// setStatus updates status and updatedAt of an existing item.
func setStatus(ctx context.Context, c *dynamo.Client, table, keyAttr, id, status string, updatedAt any) error {
	updated, err := attributevalue.Marshal(updatedAt)
	if err != nil {
		return err
	}

	_, err = c.DB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           c.Table(table),
		Key:                 stringKey(keyAttr, id),
		UpdateExpression:    aws.String("SET #s = :s, #u = :u"),
		ConditionExpression: aws.String("attribute_exists(#k)"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
			"#u": "updatedAt",
			"#k": keyAttr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":s": &types.AttributeValueMemberS{Value: status},
			":u": updated,
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return repo_errors.ErrNotFound
		}

		return err
	}

	return nil
}

func paginate[T any](items []T, pg *entity.PaginationInput) []T {
	if pg == nil {
		return items
	}
	if pg.Offset >= len(items) {
		return make([]T, 0)
	}
	end := pg.Offset + pg.Limit
	if end > len(items) {
		end = len(items)
	}

	return items[pg.Offset:end]
}
