package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"exercisely-backend/application/ports"
	"exercisely-backend/domain/core/entities"
	"exercisely-backend/domain/core/valueobjects"
	pkgerrors "exercisely-backend/pkg/errors"
)

// CommentRepository implements the CommentRepository port using DynamoDB.
// Comments live under their exercise's partition; the reverse index
// makes them addressable by comment id alone.
type CommentRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.CommentRepository {
	return &CommentRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// commentItem represents the DynamoDB item structure for a comment.
// GSI1 is keyed by author so account deletion can find comments living
// under exercise partitions.
type commentItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK"`
	GSI1SK     string `dynamodbav:"GSI1SK"`
	GSI2PK     string `dynamodbav:"GSI2PK"`
	GSI2SK     string `dynamodbav:"GSI2SK"`
	EntityType string `dynamodbav:"EntityType"`
	CommentID  string `dynamodbav:"CommentID"`
	ExerciseID string `dynamodbav:"ExerciseID"`
	UserID     string `dynamodbav:"UserID"`
	Content    string `dynamodbav:"Content"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
	UpdatedAt  string `dynamodbav:"UpdatedAt"`
}

func commentToItem(c *entities.Comment) commentItem {
	key := valueobjects.CommentKey(c.ExerciseID, c.CommentID)
	return commentItem{
		PK:         key.PK,
		SK:         key.SK,
		GSI1PK:     valueobjects.UserPartition(c.UserID),
		GSI1SK:     key.SK,
		GSI2PK:     key.SK,
		GSI2SK:     key.PK,
		EntityType: string(valueobjects.KindComment),
		CommentID:  c.CommentID,
		ExerciseID: c.ExerciseID,
		UserID:     c.UserID,
		Content:    c.Content,
		CreatedAt:  formatTime(c.CreatedAt),
		UpdatedAt:  formatTime(c.UpdatedAt),
	}
}

func itemToComment(item commentItem) *entities.Comment {
	return &entities.Comment{
		CommentID:  item.CommentID,
		ExerciseID: item.ExerciseID,
		UserID:     item.UserID,
		Content:    item.Content,
		CreatedAt:  parseTime(item.CreatedAt),
		UpdatedAt:  parseTime(item.UpdatedAt),
	}
}

// Create persists the comment and bumps the exercise's comment counter.
func (r *CommentRepository) Create(ctx context.Context, comment *entities.Comment) error {
	av, err := attributevalue.MarshalMap(commentToItem(comment))
	if err != nil {
		return fmt.Errorf("failed to marshal comment: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(SK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewConflictError("comment already exists")
		}
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return incrementCounter(ctx, r.client, r.tableName,
		valueobjects.ExerciseMetadataKey(comment.ExerciseID), "CommentCount")
}

// GetByID locates a comment knowing only its id, via the reverse index.
func (r *CommentRepository) GetByID(ctx context.Context, commentID string) (*entities.Comment, error) {
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(indexReverse),
		KeyConditionExpression: aws.String("GSI2PK = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sk": &types.AttributeValueMemberS{Value: valueobjects.CommentSortKey(commentID)},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query comment: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("comment")
	}

	var item commentItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal comment: %w", err)
	}
	return itemToComment(item), nil
}

// GetByExercise returns every comment stored under an exercise.
func (r *CommentRepository) GetByExercise(ctx context.Context, exerciseID string) ([]*entities.Comment, error) {
	var comments []*entities.Comment
	var startKey map[string]types.AttributeValue

	for {
		result, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pk":     &types.AttributeValueMemberS{Value: valueobjects.ExercisePartition(exerciseID)},
				":prefix": &types.AttributeValueMemberS{Value: valueobjects.SortPrefixComment},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query comments: %w", err)
		}
		for _, raw := range result.Items {
			var item commentItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("failed to unmarshal comment: %w", err)
			}
			comments = append(comments, itemToComment(item))
		}
		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}
	return comments, nil
}

// Update rewrites the comment's content in place.
func (r *CommentRepository) Update(ctx context.Context, comment *entities.Comment) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 keyAttr(valueobjects.CommentKey(comment.ExerciseID, comment.CommentID)),
		UpdateExpression:    aws.String("SET #content = :content, UpdatedAt = :updated"),
		ConditionExpression: aws.String("attribute_exists(SK)"),
		ExpressionAttributeNames: map[string]string{
			"#content": "Content",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":content": &types.AttributeValueMemberS{Value: comment.Content},
			":updated": &types.AttributeValueMemberS{Value: formatTime(comment.UpdatedAt)},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewNotFoundError("comment")
		}
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return nil
}

// Delete removes the comment and drops the exercise's comment counter.
func (r *CommentRepository) Delete(ctx context.Context, exerciseID, commentID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 keyAttr(valueobjects.CommentKey(exerciseID, commentID)),
		ConditionExpression: aws.String("attribute_exists(SK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewNotFoundError("comment")
		}
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return decrementCounter(ctx, r.client, r.tableName,
		valueobjects.ExerciseMetadataKey(exerciseID), "CommentCount")
}
