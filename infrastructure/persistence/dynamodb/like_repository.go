package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"exercisely-backend/application/ports"
	"exercisely-backend/domain/core/valueobjects"
	pkgerrors "exercisely-backend/pkg/errors"
)

// LikeRepository implements the LikeRepository port using DynamoDB. A
// like is three writes: the existence-only edge under the exercise, the
// member in the user's liked set, and the exercise's counter.
type LikeRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewLikeRepository creates a new LikeRepository.
func NewLikeRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.LikeRepository {
	return &LikeRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Like records the edge. The guarded put rejects a duplicate like as a
// bad request before any counter moves.
func (r *LikeRepository) Like(ctx context.Context, exerciseID, userID string) error {
	key := valueobjects.LikeEdgeKey(exerciseID, userID)
	_, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item: map[string]types.AttributeValue{
			"PK":         &types.AttributeValueMemberS{Value: key.PK},
			"SK":         &types.AttributeValueMemberS{Value: key.SK},
			"EntityType": &types.AttributeValueMemberS{Value: string(valueobjects.KindLike)},
			"UserID":     &types.AttributeValueMemberS{Value: userID},
		},
		ConditionExpression: aws.String("attribute_not_exists(SK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewValidationError("exercise already liked")
		}
		return fmt.Errorf("failed to put like edge: %w", err)
	}

	if err := r.addToLikedSet(ctx, userID, exerciseID); err != nil {
		return err
	}
	return incrementCounter(ctx, r.client, r.tableName,
		valueobjects.ExerciseMetadataKey(exerciseID), "LikeCount")
}

// Unlike removes the edge. A missing edge is a bad request; the counter
// decrement is guarded separately.
func (r *LikeRepository) Unlike(ctx context.Context, exerciseID, userID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 keyAttr(valueobjects.LikeEdgeKey(exerciseID, userID)),
		ConditionExpression: aws.String("attribute_exists(SK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewValidationError("exercise not liked")
		}
		return fmt.Errorf("failed to delete like edge: %w", err)
	}

	if err := r.removeFromLikedSet(ctx, userID, exerciseID); err != nil {
		return err
	}
	return decrementCounter(ctx, r.client, r.tableName,
		valueobjects.ExerciseMetadataKey(exerciseID), "LikeCount")
}

// HasLiked reports whether the edge exists.
func (r *LikeRepository) HasLiked(ctx context.Context, exerciseID, userID string) (bool, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(r.tableName),
		Key:                  keyAttr(valueobjects.LikeEdgeKey(exerciseID, userID)),
		ProjectionExpression: aws.String("PK"),
	})
	if err != nil {
		return false, fmt.Errorf("failed to get like edge: %w", err)
	}
	return result.Item != nil, nil
}

// GetLikedExerciseIDs reads the user's liked set item.
func (r *LikeRepository) GetLikedExerciseIDs(ctx context.Context, userID string) ([]string, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       keyAttr(valueobjects.UserLikesKey(userID)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get liked set: %w", err)
	}
	if result.Item == nil {
		return []string{}, nil
	}

	set, ok := result.Item["LikedExercises"].(*types.AttributeValueMemberSS)
	if !ok {
		return []string{}, nil
	}
	return set.Value, nil
}

// addToLikedSet adds the id to the user's string set, creating the item
// on first like.
func (r *LikeRepository) addToLikedSet(ctx context.Context, userID, exerciseID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              keyAttr(valueobjects.UserLikesKey(userID)),
		UpdateExpression: aws.String("ADD LikedExercises :ids"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ids": &types.AttributeValueMemberSS{Value: []string{exerciseID}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to add to liked set: %w", err)
	}
	return nil
}

// removeFromLikedSet deletes the id from the set. Removing the last
// member deletes the attribute, which reads back as an empty set.
func (r *LikeRepository) removeFromLikedSet(ctx context.Context, userID, exerciseID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              keyAttr(valueobjects.UserLikesKey(userID)),
		UpdateExpression: aws.String("DELETE LikedExercises :ids"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ids": &types.AttributeValueMemberSS{Value: []string{exerciseID}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to remove from liked set: %w", err)
	}
	return nil
}
