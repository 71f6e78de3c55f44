package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"exercisely-backend/pkg/utils"
)

// DistributedRateLimiter keeps rate-limit state in DynamoDB so limits
// hold across Lambda invocations, where in-process token buckets reset
// on every cold start. Counters are windowed and expire via TTL.
type DistributedRateLimiter struct {
	client    *dynamodb.Client
	tableName string
	limit     int
	window    time.Duration
	keyPrefix string
}

type rateLimitEntry struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	Count     int    `dynamodbav:"Count"`
	WindowEnd string `dynamodbav:"WindowEnd"`
	TTL       int64  `dynamodbav:"TTL"`
}

const rateLimitSortKey = "WINDOW"

// NewDistributedIPRateLimiter creates a limiter keyed by client IP.
func NewDistributedIPRateLimiter(client *dynamodb.Client, tableName string, requestsPerMinute int) *DistributedRateLimiter {
	return NewDistributedRateLimiter(client, tableName, requestsPerMinute, time.Minute, "IP")
}

// NewDistributedUserRateLimiter creates a limiter keyed by user ID.
func NewDistributedUserRateLimiter(client *dynamodb.Client, tableName string, requestsPerMinute int) *DistributedRateLimiter {
	return NewDistributedRateLimiter(client, tableName, requestsPerMinute, time.Minute, "USER")
}

// NewDistributedRateLimiter creates a generic distributed rate limiter.
func NewDistributedRateLimiter(client *dynamodb.Client, tableName string, limit int, window time.Duration, keyPrefix string) *DistributedRateLimiter {
	return &DistributedRateLimiter{
		client:    client,
		tableName: tableName,
		limit:     limit,
		window:    window,
		keyPrefix: keyPrefix,
	}
}

func (r *DistributedRateLimiter) windowKey(key string, windowStart time.Time) map[string]types.AttributeValue {
	pk := fmt.Sprintf("RATELIMIT#%s#%s#%d", r.keyPrefix, key, windowStart.Unix())
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: rateLimitSortKey},
	}
}

// Allow atomically increments the counter for the current window. The
// increment is conditional on being below the limit, so concurrent
// invocations cannot race past it. Store errors fail open: blocking
// legitimate traffic is worse than letting a burst through.
func (r *DistributedRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if r.client == nil {
		// Local development without a table configured.
		return true, nil
	}

	windowStart := time.Now().Truncate(r.window)
	windowEnd := windowStart.Add(r.window)

	result, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 r.windowKey(key, windowStart),
		UpdateExpression:    aws.String("SET #count = if_not_exists(#count, :zero) + :one, WindowEnd = :windowEnd, #ttl = :ttl"),
		ConditionExpression: aws.String("attribute_not_exists(#count) OR #count < :limit"),
		ExpressionAttributeNames: map[string]string{
			"#count": "Count",
			"#ttl":   "TTL",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":zero":      &types.AttributeValueMemberN{Value: "0"},
			":one":       &types.AttributeValueMemberN{Value: "1"},
			":limit":     &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", r.limit)},
			":windowEnd": &types.AttributeValueMemberS{Value: utils.FormatRFC3339(windowEnd)},
			":ttl":       &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", windowEnd.Add(time.Hour).Unix())},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return false, nil
		}
		return true, fmt.Errorf("rate limiter error (failing open): %w", err)
	}

	var entry rateLimitEntry
	if err := attributevalue.UnmarshalMap(result.Attributes, &entry); err != nil {
		return true, fmt.Errorf("parsing rate limit entry (failing open): %w", err)
	}

	return entry.Count <= r.limit, nil
}

// GetRemaining returns the requests left in the current window and the
// time until it resets.
func (r *DistributedRateLimiter) GetRemaining(ctx context.Context, key string) (int, time.Duration, error) {
	windowStart := time.Now().Truncate(r.window)
	windowEnd := windowStart.Add(r.window)

	if r.client == nil {
		return r.limit, time.Until(windowEnd), nil
	}

	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       r.windowKey(key, windowStart),
	})
	if err != nil || result.Item == nil {
		return r.limit, time.Until(windowEnd), nil
	}

	var entry rateLimitEntry
	if err := attributevalue.UnmarshalMap(result.Item, &entry); err != nil {
		return r.limit, time.Until(windowEnd), fmt.Errorf("parsing rate limit entry: %w", err)
	}

	remaining := r.limit - entry.Count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, time.Until(windowEnd), nil
}

// Reset clears the current window for a key.
func (r *DistributedRateLimiter) Reset(ctx context.Context, key string) error {
	if r.client == nil {
		return nil
	}

	windowStart := time.Now().Truncate(r.window)
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       r.windowKey(key, windowStart),
	})
	return err
}
