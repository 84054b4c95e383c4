package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"consult-agent/internal/domain"
)

const skPrefixExchange = "EXCHANGE#"

// dynamodbAPI is the minimal DynamoDB interface required by Client.
// Defined here for testability.
type dynamodbAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Client appends answered exchanges to a DynamoDB table. Items are write-only
// from this service; they expire through the table's ttl attribute.
type Client struct {
	api       dynamodbAPI
	tableName string
}

func New(api dynamodbAPI, tableName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Client{api: api, tableName: tableName}, nil
}

// exchangePK partitions exchanges by UTC day so a day's traffic can be queried together.
func exchangePK(createdAt string) string {
	day := createdAt
	if len(day) >= len("2006-01-02") {
		day = day[:len("2006-01-02")]
	}
	return "DAY#" + day
}

func exchangeSK(createdAt, id string) string {
	return skPrefixExchange + createdAt + "#" + id
}

// RecordExchange stores ex once; an existing item with the same key is never overwritten.
func (c *Client) RecordExchange(ctx context.Context, ex domain.Exchange) error {
	if ex.ID == "" || ex.CreatedAt == "" {
		return errors.New("repository: RecordExchange: ID and CreatedAt are required")
	}
	_, err := c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(c.tableName),
		Item:                exchangeItem(ex),
		ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	})
	if err != nil {
		return fmt.Errorf("repository: RecordExchange: %w", err)
	}
	return nil
}

func exchangeItem(ex domain.Exchange) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK":        &types.AttributeValueMemberS{Value: exchangePK(ex.CreatedAt)},
		"SK":        &types.AttributeValueMemberS{Value: exchangeSK(ex.CreatedAt, ex.ID)},
		"id":        &types.AttributeValueMemberS{Value: ex.ID},
		"requestId": &types.AttributeValueMemberS{Value: ex.RequestID},
		"provider":  &types.AttributeValueMemberS{Value: ex.Provider},
		"message":   &types.AttributeValueMemberS{Value: ex.Message},
		"response":  &types.AttributeValueMemberS{Value: ex.Response},
		"createdAt": &types.AttributeValueMemberS{Value: ex.CreatedAt},
		"ttl":       &types.AttributeValueMemberN{Value: strconv.FormatInt(ex.TTL, 10)},
	}
}
