// Package dynamodb implements [domain.Storage] on a DynamoDB table holding
// one item per collection.
//
// Table schema:
//   - Partition key: name (string)
//   - Attribute: data (string), the serialized collection
//
// Items are limited to 400KB, which bounds the size of a collection.
package dynamodb

import (
	"context"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/vinicius-lino-figueiredo/docstore/domain"
)

// Client is the subset of the DynamoDB API used by Storage.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

type record struct {
	Name string `dynamodbav:"name"`
	Data string `dynamodbav:"data"`
}

// Storage implements domain.Storage. PutItem replaces an item as a whole.
type Storage struct {
	client Client
	table  string
}

// NewStorage creates a new DynamoDB storage on table.
func NewStorage(client Client, table string) *Storage {
	return &Storage{client: client, table: table}
}

func (s *Storage) key(name string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"name": &types.AttributeValueMemberS{Value: name},
	}
}

// Exists implements domain.Storage.
func (s *Storage) Exists(ctx context.Context, name string) (bool, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:                aws.String(s.table),
		Key:                      s.key(name),
		ConsistentRead:           aws.Bool(true),
		ProjectionExpression:     aws.String("#n"),
		ExpressionAttributeNames: map[string]string{"#n": "name"},
	})
	if err != nil {
		return false, err
	}
	return out.Item != nil, nil
}

// Read implements domain.Storage.
func (s *Storage) Read(ctx context.Context, name string) (io.ReadCloser, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            s.key(name),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, os.ErrNotExist
	}
	var rec record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, err
	}
	return io.NopCloser(strings.NewReader(rec.Data)), nil
}

// Write implements domain.Storage.
func (s *Storage) Write(ctx context.Context, name string, data []byte) error {
	item, err := attributevalue.MarshalMap(record{Name: name, Data: string(data)})
	if err != nil {
		return err
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	return err
}

// Remove implements domain.Storage.
func (s *Storage) Remove(ctx context.Context, name string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       s.key(name),
	})
	return err
}

// List implements domain.Storage.
func (s *Storage) List(ctx context.Context) ([]string, error) {
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:                aws.String(s.table),
		ProjectionExpression:     aws.String("#n"),
		ExpressionAttributeNames: map[string]string{"#n": "name"},
		ConsistentRead:           aws.Bool(true),
	})

	names := []string{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var recs []record
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &recs); err != nil {
			return nil, err
		}
		for _, rec := range recs {
			names = append(names, rec.Name)
		}
	}
	slices.Sort(names)
	return names, nil
}

var _ domain.Storage = (*Storage)(nil)
