package dynamo

import (
	"cloudport-api/internal/entity"
	"cloudport-api/internal/repo/repo_errors"
	"cloudport-api/pkg/dynamo"
	"context"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const contractKey = "contractId"

type ContractRepo struct {
	*dynamo.Client
}

func NewContractRepo(c *dynamo.Client) *ContractRepo {
	return &ContractRepo{c}
}

// CreateContract claims the application guard together with the contract, so
// a second contract for the same application is rejected.
func (r *ContractRepo) CreateContract(ctx context.Context, contract *entity.Contract) error {
	return putUnique(ctx, r.Client, uniquePut{
		table:   dynamo.ContractsTable,
		keyAttr: contractKey,
		item:    contract,
		guard:   contractGuard(contract.ApplicationId),
	})
}

func (r *ContractRepo) GetContractById(ctx context.Context, id string) (*entity.Contract, error) {
	var c entity.Contract
	if err := get(ctx, r.Client, dynamo.ContractsTable, contractKey, id, &c); err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *ContractRepo) GetUserContracts(ctx context.Context, userId string, filter entity.ContractFilter, pg *entity.PaginationInput) ([]entity.Contract, error) {
	asEngineer, err := r.query(ctx, dynamo.EngineerIndex, "engineerId", userId)
	if err != nil {
		return nil, err
	}
	asCompany, err := r.query(ctx, dynamo.CompanyIndex, "companyId", userId)
	if err != nil {
		return nil, err
	}

	contracts := make([]entity.Contract, 0, len(asEngineer)+len(asCompany))
	for _, c := range append(asEngineer, asCompany...) {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.ApplicationId != "" && c.ApplicationId != filter.ApplicationId {
			continue
		}
		contracts = append(contracts, c)
	}
	sort.Slice(contracts, func(i, j int) bool {
		return contracts[i].CreatedAt.After(contracts[j].CreatedAt)
	})

	return paginate(contracts, pg), nil
}

func (r *ContractRepo) UpdateContract(ctx context.Context, contract *entity.Contract, expectedVersion int) error {
	next := *contract
	next.Version = expectedVersion + 1

	av, err := attributevalue.MarshalMap(next)
	if err != nil {
		return err
	}

	_, err = r.DB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                r.Table(dynamo.ContractsTable),
		Item:                     av,
		ConditionExpression:      aws.String("#v = :v"),
		ExpressionAttributeNames: map[string]string{"#v": "version"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberN{Value: strconv.Itoa(expectedVersion)},
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return repo_errors.ErrVersionConflict
		}

		return err
	}
	contract.Version = next.Version

	return nil
}

func (r *ContractRepo) query(ctx context.Context, index, attr, value string) ([]entity.Contract, error) {
	items, err := queryIndex(ctx, r.Client, dynamo.ContractsTable, index, attr, value, false)
	if err != nil {
		return nil, err
	}

	contracts := make([]entity.Contract, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &contracts); err != nil {
		return nil, err
	}

	return contracts, nil
}
