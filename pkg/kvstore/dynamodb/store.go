package dynamodb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/upright/escrow/pkg/kvstore"
)

// DynamoDBAPI defines the subset of the DynamoDB client used by the store,
// so tests can substitute a mock.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Store implements the kvstore.Store blob contract on a single DynamoDB table,
// one item per logical key.
type Store struct {
	Client    DynamoDBAPI
	TableName string
}

// New creates a new Store.
func New(client DynamoDBAPI, tableName string) *Store {
	return &Store{
		Client:    client,
		TableName: tableName,
	}
}

// Make sure we conform to the interface
var _ kvstore.Store = (*Store)(nil)

// record is the table item layout: the logical key and the raw JSON document.
type record struct {
	Key   string `dynamodbav:"k"`
	Value []byte `dynamodbav:"v"`
}

// Get retrieves the blob stored under key from DynamoDB.
func (s *Store) Get(ctx context.Context, key string) (json.RawMessage, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.TableName),
		Key: map[string]types.AttributeValue{
			"k": &types.AttributeValueMemberS{Value: key},
		},
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get key %s from DynamoDB: %w", key, err)
	}

	if result.Item == nil {
		return nil, kvstore.ErrKeyNotFound
	}

	var rec record
	if err := attributevalue.UnmarshalMap(result.Item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record for key %s: %w", key, err)
	}

	return json.RawMessage(rec.Value), nil
}

// Set replaces the blob stored under key.
func (s *Store) Set(ctx context.Context, key string, value json.RawMessage) error {
	item, err := attributevalue.MarshalMap(record{Key: key, Value: value})
	if err != nil {
		return fmt.Errorf("failed to marshal record for key %s: %w", key, err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.TableName),
		Item:      item,
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return fmt.Errorf("failed to put key %s to DynamoDB: %w", key, err)
	}

	return nil
}
