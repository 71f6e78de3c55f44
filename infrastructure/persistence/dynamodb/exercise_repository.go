package dynamodb

import (
	"context"
	"fmt"
	"strings"

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

// ExerciseRepository implements the ExerciseRepository port using DynamoDB.
type ExerciseRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewExerciseRepository creates a new ExerciseRepository.
func NewExerciseRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.ExerciseRepository {
	return &ExerciseRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// exerciseItem represents the DynamoDB item structure for an exercise.
type exerciseItem struct {
	PK               string   `dynamodbav:"PK"`
	SK               string   `dynamodbav:"SK"`
	GSI1PK           string   `dynamodbav:"GSI1PK"`
	GSI1SK           string   `dynamodbav:"GSI1SK"`
	EntityType       string   `dynamodbav:"EntityType"`
	ExerciseID       string   `dynamodbav:"ExerciseID"`
	Name             string   `dynamodbav:"Name"`
	Force            string   `dynamodbav:"Force,omitempty"`
	Level            string   `dynamodbav:"Level"`
	Mechanic         string   `dynamodbav:"Mechanic,omitempty"`
	Equipment        string   `dynamodbav:"Equipment,omitempty"`
	PrimaryMuscles   []string `dynamodbav:"PrimaryMuscles"`
	SecondaryMuscles []string `dynamodbav:"SecondaryMuscles"`
	Instructions     []string `dynamodbav:"Instructions"`
	Category         string   `dynamodbav:"Category"`
	Images           []string `dynamodbav:"Images,omitempty"`
	LikeCount        int      `dynamodbav:"LikeCount"`
	CommentCount     int      `dynamodbav:"CommentCount"`
	CreatedAt        string   `dynamodbav:"CreatedAt"`
	UpdatedAt        string   `dynamodbav:"UpdatedAt"`
}

func exerciseToItem(e *entities.Exercise) exerciseItem {
	key := valueobjects.ExerciseMetadataKey(e.ExerciseID)
	return exerciseItem{
		PK:               key.PK,
		SK:               key.SK,
		GSI1PK:           valueobjects.ClassExercises,
		GSI1SK:           key.PK,
		EntityType:       string(valueobjects.KindExercise),
		ExerciseID:       e.ExerciseID,
		Name:             e.Name,
		Force:            e.Force,
		Level:            e.Level,
		Mechanic:         e.Mechanic,
		Equipment:        e.Equipment,
		PrimaryMuscles:   e.PrimaryMuscles,
		SecondaryMuscles: e.SecondaryMuscles,
		Instructions:     e.Instructions,
		Category:         e.Category,
		Images:           e.Images,
		LikeCount:        e.LikeCount,
		CommentCount:     e.CommentCount,
		CreatedAt:        formatTime(e.CreatedAt),
		UpdatedAt:        formatTime(e.UpdatedAt),
	}
}

func itemToExercise(item exerciseItem) *entities.Exercise {
	return &entities.Exercise{
		ExerciseID:       item.ExerciseID,
		Name:             item.Name,
		Force:            item.Force,
		Level:            item.Level,
		Mechanic:         item.Mechanic,
		Equipment:        item.Equipment,
		PrimaryMuscles:   item.PrimaryMuscles,
		SecondaryMuscles: item.SecondaryMuscles,
		Instructions:     item.Instructions,
		Category:         item.Category,
		Images:           item.Images,
		LikeCount:        item.LikeCount,
		CommentCount:     item.CommentCount,
		CreatedAt:        parseTime(item.CreatedAt),
		UpdatedAt:        parseTime(item.UpdatedAt),
	}
}

// Create persists a new exercise, refusing to overwrite an existing id.
func (r *ExerciseRepository) Create(ctx context.Context, exercise *entities.Exercise) error {
	av, err := attributevalue.MarshalMap(exerciseToItem(exercise))
	if err != nil {
		return fmt.Errorf("failed to marshal exercise: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewConflictError("exercise already exists")
		}
		return fmt.Errorf("failed to create exercise: %w", err)
	}
	return nil
}

// GetByID retrieves an exercise's metadata item.
func (r *ExerciseRepository) GetByID(ctx context.Context, exerciseID string) (*entities.Exercise, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       keyAttr(valueobjects.ExerciseMetadataKey(exerciseID)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get exercise: %w", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("exercise")
	}

	var item exerciseItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal exercise: %w", err)
	}
	return itemToExercise(item), nil
}

// GetBatch resolves several exercises with batched reads. Missing ids
// are absent from the result.
func (r *ExerciseRepository) GetBatch(ctx context.Context, exerciseIDs []string) (map[string]*entities.Exercise, error) {
	out := make(map[string]*entities.Exercise, len(exerciseIDs))
	if len(exerciseIDs) == 0 {
		return out, nil
	}

	for start := 0; start < len(exerciseIDs); start += 100 {
		end := start + 100
		if end > len(exerciseIDs) {
			end = len(exerciseIDs)
		}

		keys := make([]map[string]types.AttributeValue, 0, end-start)
		for _, id := range exerciseIDs[start:end] {
			keys = append(keys, keyAttr(valueobjects.ExerciseMetadataKey(id)))
		}

		requests := map[string]types.KeysAndAttributes{
			r.tableName: {Keys: keys},
		}
		for len(requests) > 0 {
			result, err := r.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
				RequestItems: requests,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to batch get exercises: %w", err)
			}
			for _, raw := range result.Responses[r.tableName] {
				var item exerciseItem
				if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
					return nil, fmt.Errorf("failed to unmarshal exercise: %w", err)
				}
				out[item.ExerciseID] = itemToExercise(item)
			}
			requests = result.UnprocessedKeys
		}
	}
	return out, nil
}

// ListAll pages through the entity-class index and returns the full
// catalog. This feeds the in-memory snapshot, not request paths.
func (r *ExerciseRepository) ListAll(ctx context.Context) ([]*entities.Exercise, error) {
	var exercises []*entities.Exercise
	var startKey map[string]types.AttributeValue

	for {
		result, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String(indexEntityClass),
			KeyConditionExpression: aws.String("GSI1PK = :class"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":class": &types.AttributeValueMemberS{Value: valueobjects.ClassExercises},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list exercises: %w", err)
		}
		for _, raw := range result.Items {
			var item exerciseItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("failed to unmarshal exercise: %w", err)
			}
			exercises = append(exercises, itemToExercise(item))
		}
		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	r.logger.Debug("loaded exercise catalog", zap.Int("count", len(exercises)))
	return exercises, nil
}

const muscleCategoryPrefix = "CATEGORY#MUSCLE#"

// muscleCategoryItem indexes an exercise under each of its primary
// muscles so browse-by-muscle screens can query a single partition.
type muscleCategoryItem struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	ExerciseID   string `dynamodbav:"ExerciseID"`
	Name         string `dynamodbav:"Name"`
	ThumbnailURL string `dynamodbav:"ThumbnailUrl,omitempty"`
	Level        string `dynamodbav:"Level"`
}

func muscleCategoryItems(e *entities.Exercise) []muscleCategoryItem {
	items := make([]muscleCategoryItem, 0, len(e.PrimaryMuscles))
	for _, muscle := range e.PrimaryMuscles {
		item := muscleCategoryItem{
			PK:         muscleCategoryPrefix + strings.ToLower(muscle),
			SK:         valueobjects.ExerciseMetadataKey(e.ExerciseID).PK,
			ExerciseID: e.ExerciseID,
			Name:       e.Name,
			Level:      e.Level,
		}
		if len(e.Images) > 0 {
			item.ThumbnailURL = e.Images[0]
		}
		items = append(items, item)
	}
	return items
}

// BulkCreate writes exercise metadata items plus one muscle-category
// item per primary muscle, in BatchWriteItem chunks of 25, retrying
// unprocessed items. Used by the seed tool.
func (r *ExerciseRepository) BulkCreate(ctx context.Context, exercises []*entities.Exercise) error {
	var writes []types.WriteRequest
	for _, e := range exercises {
		av, err := attributevalue.MarshalMap(exerciseToItem(e))
		if err != nil {
			return fmt.Errorf("failed to marshal exercise %s: %w", e.ExerciseID, err)
		}
		writes = append(writes, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: av},
		})
		for _, mc := range muscleCategoryItems(e) {
			mav, err := attributevalue.MarshalMap(mc)
			if err != nil {
				return fmt.Errorf("failed to marshal muscle item for %s: %w", e.ExerciseID, err)
			}
			writes = append(writes, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: mav},
			})
		}
	}

	for start := 0; start < len(writes); start += 25 {
		end := start + 25
		if end > len(writes) {
			end = len(writes)
		}

		requests := map[string][]types.WriteRequest{r.tableName: writes[start:end]}
		for len(requests) > 0 {
			result, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: requests,
			})
			if err != nil {
				return fmt.Errorf("failed to batch write exercises: %w", err)
			}
			requests = result.UnprocessedItems
		}
	}

	r.logger.Info("bulk wrote exercises",
		zap.Int("exercises", len(exercises)),
		zap.Int("items", len(writes)),
	)
	return nil
}
