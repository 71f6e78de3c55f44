package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"exercisely-backend/application/ports"
	"exercisely-backend/domain/core/entities"
	"exercisely-backend/domain/core/valueobjects"
	pkgerrors "exercisely-backend/pkg/errors"
)

// ListRepository implements the ListRepository port using DynamoDB.
// Lists live under their owner's partition; the list-id index makes
// them addressable by id alone.
type ListRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewListRepository creates a new ListRepository.
func NewListRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.ListRepository {
	return &ListRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// listItem represents the DynamoDB item structure for a list.
type listItem struct {
	PK            string   `dynamodbav:"PK"`
	SK            string   `dynamodbav:"SK"`
	GSI3PK        string   `dynamodbav:"GSI3PK"`
	EntityType    string   `dynamodbav:"EntityType"`
	ListID        string   `dynamodbav:"ListID"`
	UserID        string   `dynamodbav:"UserID"`
	Name          string   `dynamodbav:"Name"`
	Description   string   `dynamodbav:"Description,omitempty"`
	Visibility    string   `dynamodbav:"Visibility"`
	ExerciseIDs   []string `dynamodbav:"ExerciseIDs"`
	SharedWith    []string `dynamodbav:"SharedWith,omitempty"`
	FollowerCount int      `dynamodbav:"FollowerCount"`
	CreatedAt     string   `dynamodbav:"CreatedAt"`
	UpdatedAt     string   `dynamodbav:"UpdatedAt"`
}

func listToItem(l *entities.List) listItem {
	key := valueobjects.ListKey(l.UserID, l.ListID)
	return listItem{
		PK:            key.PK,
		SK:            key.SK,
		GSI3PK:        listIDPrefix + l.ListID,
		EntityType:    string(valueobjects.KindList),
		ListID:        l.ListID,
		UserID:        l.UserID,
		Name:          l.Name,
		Description:   l.Description,
		Visibility:    string(l.Visibility),
		ExerciseIDs:   l.ExerciseIDs,
		SharedWith:    l.SharedWith,
		FollowerCount: l.FollowerCount,
		CreatedAt:     formatTime(l.CreatedAt),
		UpdatedAt:     formatTime(l.UpdatedAt),
	}
}

func itemToList(item listItem) *entities.List {
	exerciseIDs := item.ExerciseIDs
	if exerciseIDs == nil {
		exerciseIDs = []string{}
	}
	return &entities.List{
		ListID:        item.ListID,
		UserID:        item.UserID,
		Name:          item.Name,
		Description:   item.Description,
		Visibility:    valueobjects.Visibility(item.Visibility),
		ExerciseIDs:   exerciseIDs,
		SharedWith:    item.SharedWith,
		FollowerCount: item.FollowerCount,
		CreatedAt:     parseTime(item.CreatedAt),
		UpdatedAt:     parseTime(item.UpdatedAt),
	}
}

// Create persists a new list.
func (r *ListRepository) Create(ctx context.Context, list *entities.List) error {
	av, err := attributevalue.MarshalMap(listToItem(list))
	if err != nil {
		return fmt.Errorf("failed to marshal list: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(SK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewConflictError("list already exists")
		}
		return fmt.Errorf("failed to create list: %w", err)
	}
	return nil
}

// GetByID locates a list knowing only its id, via the list-id index.
func (r *ListRepository) GetByID(ctx context.Context, listID string) (*entities.List, error) {
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(indexListID),
		KeyConditionExpression: aws.String("GSI3PK = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberS{Value: listIDPrefix + listID},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query list: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("list")
	}

	var item listItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal list: %w", err)
	}
	return itemToList(item), nil
}

// GetByOwner returns all lists stored under a user's partition.
func (r *ListRepository) GetByOwner(ctx context.Context, ownerID string) ([]*entities.List, error) {
	var lists []*entities.List
	var startKey map[string]types.AttributeValue

	for {
		result, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pk":     &types.AttributeValueMemberS{Value: valueobjects.UserPartition(ownerID)},
				":prefix": &types.AttributeValueMemberS{Value: valueobjects.SortPrefixList},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query lists: %w", err)
		}
		for _, raw := range result.Items {
			var item listItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("failed to unmarshal list: %w", err)
			}
			lists = append(lists, itemToList(item))
		}
		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}
	return lists, nil
}

// Update rewrites a list's item wholesale. The guard keeps the update
// from recreating a deleted list.
func (r *ListRepository) Update(ctx context.Context, list *entities.List) error {
	av, err := attributevalue.MarshalMap(listToItem(list))
	if err != nil {
		return fmt.Errorf("failed to marshal list: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(SK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewNotFoundError("list")
		}
		return fmt.Errorf("failed to update list: %w", err)
	}
	return nil
}

// AppendExercise appends one exercise id to the list's ordered
// membership in a single guarded update, so concurrent adds cannot
// double-append or clobber each other's entries.
func (r *ListRepository) AppendExercise(ctx context.Context, ownerID, listID, exerciseID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 keyAttr(valueobjects.ListKey(ownerID, listID)),
		UpdateExpression:    aws.String("SET ExerciseIDs = list_append(if_not_exists(ExerciseIDs, :empty), :ids), UpdatedAt = :now"),
		ConditionExpression: aws.String("attribute_exists(SK) AND NOT contains(ExerciseIDs, :id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ids":   &types.AttributeValueMemberL{Value: []types.AttributeValue{&types.AttributeValueMemberS{Value: exerciseID}}},
			":empty": &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
			":id":    &types.AttributeValueMemberS{Value: exerciseID},
			":now":   &types.AttributeValueMemberS{Value: formatTime(time.Now())},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewValidationError("exercise is already in the list")
		}
		return fmt.Errorf("failed to append exercise to list: %w", err)
	}
	return nil
}

// Delete removes a list from its owner's partition.
func (r *ListRepository) Delete(ctx context.Context, ownerID, listID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 keyAttr(valueobjects.ListKey(ownerID, listID)),
		ConditionExpression: aws.String("attribute_exists(SK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewNotFoundError("list")
		}
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return nil
}

// GetSharedWith scans for lists whose share set names the user. Share
// sets are small and shares are rare, so the scan stays acceptable;
// revisit with a sharing index if share volume grows.
func (r *ListRepository) GetSharedWith(ctx context.Context, userID string) ([]*entities.List, error) {
	filter := expression.And(
		expression.Name("EntityType").Equal(expression.Value(string(valueobjects.KindList))),
		expression.Name("SharedWith").Contains(userID),
	)
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build shared filter: %w", err)
	}

	var lists []*entities.List
	var startKey map[string]types.AttributeValue

	for {
		result, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(r.tableName),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan shared lists: %w", err)
		}
		for _, raw := range result.Items {
			var item listItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("failed to unmarshal list: %w", err)
			}
			lists = append(lists, itemToList(item))
		}
		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}
	return lists, nil
}
