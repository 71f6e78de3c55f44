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

// UserRepository implements the UserRepository port using DynamoDB.
type UserRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.UserRepository {
	return &UserRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// userItem represents the DynamoDB item structure for a user profile.
type userItem struct {
	PK              string `dynamodbav:"PK"`
	SK              string `dynamodbav:"SK"`
	GSI1PK          string `dynamodbav:"GSI1PK"`
	GSI1SK          string `dynamodbav:"GSI1SK"`
	GSI4PK          string `dynamodbav:"GSI4PK"`
	EntityType      string `dynamodbav:"EntityType"`
	UserID          string `dynamodbav:"UserID"`
	Email           string `dynamodbav:"Email"`
	Name            string `dynamodbav:"Name"`
	ProfilePhotoURL string `dynamodbav:"ProfilePhotoUrl,omitempty"`
	FollowerCount   int    `dynamodbav:"FollowerCount"`
	FollowingCount  int    `dynamodbav:"FollowingCount"`
	CreatedAt       string `dynamodbav:"CreatedAt"`
	UpdatedAt       string `dynamodbav:"UpdatedAt"`
}

func userToItem(user *entities.User) userItem {
	key := valueobjects.UserMetadataKey(user.UserID)
	return userItem{
		PK:              key.PK,
		SK:              key.SK,
		GSI1PK:          valueobjects.ClassUsers,
		GSI1SK:          key.PK,
		GSI4PK:          strings.ToLower(user.Email),
		EntityType:      string(valueobjects.KindUser),
		UserID:          user.UserID,
		Email:           user.Email,
		Name:            user.Name,
		ProfilePhotoURL: user.ProfilePhotoURL,
		FollowerCount:   user.FollowerCount,
		FollowingCount:  user.FollowingCount,
		CreatedAt:       formatTime(user.CreatedAt),
		UpdatedAt:       formatTime(user.UpdatedAt),
	}
}

func itemToUser(item userItem) *entities.User {
	return &entities.User{
		UserID:          item.UserID,
		Email:           item.Email,
		Name:            item.Name,
		ProfilePhotoURL: item.ProfilePhotoURL,
		FollowerCount:   item.FollowerCount,
		FollowingCount:  item.FollowingCount,
		CreatedAt:       parseTime(item.CreatedAt),
		UpdatedAt:       parseTime(item.UpdatedAt),
	}
}

// Create persists a new user profile, refusing to overwrite an existing
// one.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	av, err := attributevalue.MarshalMap(userToItem(user))
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewConflictError("user already exists")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Info("user profile created", zap.String("userID", user.UserID))
	return nil
}

// GetByID retrieves a user's metadata item.
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*entities.User, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       keyAttr(valueobjects.UserMetadataKey(userID)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("user")
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return itemToUser(item), nil
}

// GetByEmail looks a user up case-insensitively via the email index.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(indexEmail),
		KeyConditionExpression: aws.String("GSI4PK = :email"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: strings.ToLower(strings.TrimSpace(email))},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("user")
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return itemToUser(item), nil
}

// Update rewrites an existing profile item. The guard keeps a stale
// update from resurrecting a deleted user.
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	av, err := attributevalue.MarshalMap(userToItem(user))
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewNotFoundError("user")
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// GetSummaries resolves public profiles for several users with one
// batch read. Missing ids are simply absent from the result.
func (r *UserRepository) GetSummaries(ctx context.Context, userIDs []string) (map[string]entities.UserSummary, error) {
	out := make(map[string]entities.UserSummary, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	// BatchGetItem takes at most 100 keys per request.
	for start := 0; start < len(userIDs); start += 100 {
		end := start + 100
		if end > len(userIDs) {
			end = len(userIDs)
		}

		keys := make([]map[string]types.AttributeValue, 0, end-start)
		for _, id := range userIDs[start:end] {
			keys = append(keys, keyAttr(valueobjects.UserMetadataKey(id)))
		}

		requests := map[string]types.KeysAndAttributes{
			r.tableName: {Keys: keys},
		}
		for len(requests) > 0 {
			result, err := r.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
				RequestItems: requests,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to batch get users: %w", err)
			}
			for _, raw := range result.Responses[r.tableName] {
				var item userItem
				if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
					return nil, fmt.Errorf("failed to unmarshal user: %w", err)
				}
				out[item.UserID] = entities.UserSummary{
					UserID:          item.UserID,
					Name:            item.Name,
					ProfilePhotoURL: item.ProfilePhotoURL,
				}
			}
			requests = result.UnprocessedKeys
		}
	}
	return out, nil
}

// Delete removes every item stored under the user's partition (profile,
// like edges, lists, follower edges) plus the user's comments found via
// the entity index. Items are collected keys-only and batch-deleted in
// chunks of 25.
func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	partition := valueobjects.UserPartition(userID)

	var keys []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue
	for {
		result, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			KeyConditionExpression: aws.String("PK = :pk"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pk": &types.AttributeValueMemberS{Value: partition},
			},
			ProjectionExpression: aws.String("PK, SK"),
			ExclusiveStartKey:    startKey,
		})
		if err != nil {
			return fmt.Errorf("failed to list user items: %w", err)
		}
		for _, raw := range result.Items {
			keys = append(keys, map[string]types.AttributeValue{
				"PK": raw["PK"],
				"SK": raw["SK"],
			})
		}
		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}
	if len(keys) == 0 {
		return pkgerrors.NewNotFoundError("user")
	}

	// The user's comments live under exercise partitions; the entity index
	// carries them keyed by the author's partition.
	startKey = nil
	for {
		result, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String(indexEntityClass),
			KeyConditionExpression: aws.String("GSI1PK = :pk"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pk": &types.AttributeValueMemberS{Value: partition},
			},
			ProjectionExpression: aws.String("PK, SK"),
			ExclusiveStartKey:    startKey,
		})
		if err != nil {
			return fmt.Errorf("failed to list user comments: %w", err)
		}
		for _, raw := range result.Items {
			keys = append(keys, map[string]types.AttributeValue{
				"PK": raw["PK"],
				"SK": raw["SK"],
			})
		}
		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	// BatchWriteItem takes at most 25 requests per call.
	for start := 0; start < len(keys); start += 25 {
		end := start + 25
		if end > len(keys) {
			end = len(keys)
		}
		requests := make([]types.WriteRequest, 0, end-start)
		for _, key := range keys[start:end] {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{Key: key},
			})
		}

		pending := map[string][]types.WriteRequest{r.tableName: requests}
		for len(pending) > 0 {
			result, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: pending,
			})
			if err != nil {
				return fmt.Errorf("failed to delete user items: %w", err)
			}
			pending = result.UnprocessedItems
		}
	}

	r.logger.Info("user partition deleted",
		zap.String("userID", userID),
		zap.Int("items", len(keys)),
	)
	return nil
}

// ListAll pages through the entity-class index and returns every user.
func (r *UserRepository) ListAll(ctx context.Context) ([]*entities.User, error) {
	var users []*entities.User
	var startKey map[string]types.AttributeValue

	for {
		result, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String(indexEntityClass),
			KeyConditionExpression: aws.String("GSI1PK = :class"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":class": &types.AttributeValueMemberS{Value: valueobjects.ClassUsers},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		for _, raw := range result.Items {
			var item userItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("failed to unmarshal user: %w", err)
			}
			users = append(users, itemToUser(item))
		}
		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}
	return users, nil
}
