package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/propertyhub/api/internal/domain"
)

// PropertyRepo provides typed DynamoDB operations for the properties table.
type PropertyRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPropertyRepo(client *dynamodb.Client, tableName string) *PropertyRepo {
	return &PropertyRepo{client: client, tableName: tableName}
}

func (r *PropertyRepo) Put(ctx context.Context, p *domain.Property) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal property: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *PropertyRepo) Get(ctx context.Context, propertyID string) (*domain.Property, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("property_id", propertyID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("property not found: %w", domain.ErrNotFound)
	}
	var p domain.Property
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListActive scans all active listings, following pagination until the scan is
// exhausted. Filter predicates beyond status are applied by the application
// layer; the catalogue is small enough that a filtered scan is the pragmatic
// query plan (see the service for the trade-off).
func (r *PropertyRepo) ListActive(ctx context.Context) ([]domain.Property, error) {
	var props []domain.Property
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(r.tableName),
			FilterExpression:          aws.String("#s = :active"),
			ExpressionAttributeNames:  map[string]string{"#s": "status"},
			ExpressionAttributeValues: map[string]types.AttributeValue{":active": &types.AttributeValueMemberS{Value: domain.PropertyStatusActive}},
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, err
		}
		var page []domain.Property
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		props = append(props, page...)
		if out.LastEvaluatedKey == nil {
			return props, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// ListByOwner returns all listings created by the given user via the owner GSI.
func (r *PropertyRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Property, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("owner_id-index"),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": "owner_id"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: ownerID}},
	})
	if err != nil {
		return nil, err
	}
	var props []domain.Property
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &props); err != nil {
		return nil, err
	}
	return props, nil
}
