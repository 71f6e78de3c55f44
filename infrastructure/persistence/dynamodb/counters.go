package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"exercisely-backend/domain/core/valueobjects"
	pkgerrors "exercisely-backend/pkg/errors"
)

// incrementCounter bumps a numeric field, initializing it to zero first
// when absent so counters can be added to items created before the
// field existed.
func incrementCounter(ctx context.Context, client *dynamodb.Client, tableName string, key valueobjects.ItemKey, field string) error {
	_, err := client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(tableName),
		Key:              keyAttr(key),
		UpdateExpression: aws.String("SET #f = if_not_exists(#f, :zero) + :one"),
		ExpressionAttributeNames: map[string]string{
			"#f": field,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":zero": &types.AttributeValueMemberN{Value: "0"},
			":one":  &types.AttributeValueMemberN{Value: "1"},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to increment %s: %w", field, err)
	}
	return nil
}

// decrementCounter drops a numeric field by one, guarded so the value
// never goes below zero. An underflow surfaces as ErrCounterUnderflow
// for the caller to treat as a no-op.
func decrementCounter(ctx context.Context, client *dynamodb.Client, tableName string, key valueobjects.ItemKey, field string) error {
	_, err := client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(tableName),
		Key:                 keyAttr(key),
		UpdateExpression:    aws.String("SET #f = #f - :one"),
		ConditionExpression: aws.String("#f > :zero"),
		ExpressionAttributeNames: map[string]string{
			"#f": field,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":zero": &types.AttributeValueMemberN{Value: "0"},
			":one":  &types.AttributeValueMemberN{Value: "1"},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return fmt.Errorf("%s on %s: %w", field, key.PK, pkgerrors.ErrCounterUnderflow)
		}
		return fmt.Errorf("failed to decrement %s: %w", field, err)
	}
	return nil
}
