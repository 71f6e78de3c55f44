package dynamodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"exercisely-backend/application/ports"
	"exercisely-backend/domain/core/entities"
	"exercisely-backend/domain/core/valueobjects"
	pkgerrors "exercisely-backend/pkg/errors"
)

// FollowerRepository implements the FollowerRepository port using
// DynamoDB. Edges are stored under the followed entity's partition; the
// reverse index answers "what does this user follow".
type FollowerRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewFollowerRepository creates a new FollowerRepository.
func NewFollowerRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.FollowerRepository {
	return &FollowerRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// putEdge writes a follower edge with a duplicate guard.
func (r *FollowerRepository) putEdge(ctx context.Context, key valueobjects.ItemKey, followerID string) error {
	_, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item: map[string]types.AttributeValue{
			"PK":         &types.AttributeValueMemberS{Value: key.PK},
			"SK":         &types.AttributeValueMemberS{Value: key.SK},
			"GSI2PK":     &types.AttributeValueMemberS{Value: key.SK},
			"GSI2SK":     &types.AttributeValueMemberS{Value: key.PK},
			"EntityType": &types.AttributeValueMemberS{Value: string(valueobjects.KindFollower)},
			"FollowerID": &types.AttributeValueMemberS{Value: followerID},
			"CreatedAt":  &types.AttributeValueMemberS{Value: formatTime(time.Now())},
		},
		ConditionExpression: aws.String("attribute_not_exists(SK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewValidationError("already following")
		}
		return fmt.Errorf("failed to put follower edge: %w", err)
	}
	return nil
}

// deleteEdge removes a follower edge, a bad request when absent.
func (r *FollowerRepository) deleteEdge(ctx context.Context, key valueobjects.ItemKey) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 keyAttr(key),
		ConditionExpression: aws.String("attribute_exists(SK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewValidationError("not following")
		}
		return fmt.Errorf("failed to delete follower edge: %w", err)
	}
	return nil
}

// edgeExists checks for an edge without reading its attributes.
func (r *FollowerRepository) edgeExists(ctx context.Context, key valueobjects.ItemKey) (bool, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(r.tableName),
		Key:                  keyAttr(key),
		ProjectionExpression: aws.String("PK"),
	})
	if err != nil {
		return false, fmt.Errorf("failed to get follower edge: %w", err)
	}
	return result.Item != nil, nil
}

// FollowUser writes the edge, then bumps both sides' counters. The
// counters only move once the guarded edge write has succeeded, so a
// duplicate follow never double-counts.
func (r *FollowerRepository) FollowUser(ctx context.Context, followedID, followerID string) error {
	if err := r.putEdge(ctx, valueobjects.UserFollowerKey(followedID, followerID), followerID); err != nil {
		return err
	}
	if err := incrementCounter(ctx, r.client, r.tableName,
		valueobjects.UserMetadataKey(followedID), "FollowerCount"); err != nil {
		return err
	}
	return incrementCounter(ctx, r.client, r.tableName,
		valueobjects.UserMetadataKey(followerID), "FollowingCount")
}

// UnfollowUser removes the edge, then drops both counters. Underflow on
// either counter surfaces as ErrCounterUnderflow after both guarded
// updates have been attempted.
func (r *FollowerRepository) UnfollowUser(ctx context.Context, followedID, followerID string) error {
	if err := r.deleteEdge(ctx, valueobjects.UserFollowerKey(followedID, followerID)); err != nil {
		return err
	}

	errFollower := decrementCounter(ctx, r.client, r.tableName,
		valueobjects.UserMetadataKey(followedID), "FollowerCount")
	if errFollower != nil && !pkgerrors.IsCounterUnderflow(errFollower) {
		return errFollower
	}
	errFollowing := decrementCounter(ctx, r.client, r.tableName,
		valueobjects.UserMetadataKey(followerID), "FollowingCount")
	if errFollowing != nil && !pkgerrors.IsCounterUnderflow(errFollowing) {
		return errFollowing
	}
	if errFollower != nil {
		return errFollower
	}
	return errFollowing
}

// FollowList writes a list-follower edge, then bumps the counter on the
// list item. The item lives under its owner's partition, so the key is
// resolved through the list-id index first.
func (r *FollowerRepository) FollowList(ctx context.Context, listID, followerID string) error {
	if err := r.putEdge(ctx, valueobjects.ListFollowerKey(listID, followerID), followerID); err != nil {
		return err
	}
	key, err := r.listItemKey(ctx, listID)
	if err != nil {
		return err
	}
	return incrementCounter(ctx, r.client, r.tableName, key, "FollowerCount")
}

// UnfollowList removes a list-follower edge and drops the counter.
func (r *FollowerRepository) UnfollowList(ctx context.Context, listID, followerID string) error {
	if err := r.deleteEdge(ctx, valueobjects.ListFollowerKey(listID, followerID)); err != nil {
		return err
	}
	key, err := r.listItemKey(ctx, listID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			// The list itself is gone; there is no counter left to drop.
			return nil
		}
		return err
	}
	return decrementCounter(ctx, r.client, r.tableName, key, "FollowerCount")
}

// listItemKey resolves a list's primary key via the list-id index.
func (r *FollowerRepository) listItemKey(ctx context.Context, listID string) (valueobjects.ItemKey, error) {
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(indexListID),
		KeyConditionExpression: aws.String("GSI3PK = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberS{Value: listIDPrefix + listID},
		},
		ProjectionExpression: aws.String("PK, SK"),
		Limit:                aws.Int32(1),
	})
	if err != nil {
		return valueobjects.ItemKey{}, fmt.Errorf("failed to resolve list key: %w", err)
	}
	if len(result.Items) == 0 {
		return valueobjects.ItemKey{}, pkgerrors.NewNotFoundError("list")
	}

	var key valueobjects.ItemKey
	if v, ok := result.Items[0]["PK"].(*types.AttributeValueMemberS); ok {
		key.PK = v.Value
	}
	if v, ok := result.Items[0]["SK"].(*types.AttributeValueMemberS); ok {
		key.SK = v.Value
	}
	return key, nil
}

// IsFollowingUser reports whether the user-follow edge exists.
func (r *FollowerRepository) IsFollowingUser(ctx context.Context, followedID, followerID string) (bool, error) {
	return r.edgeExists(ctx, valueobjects.UserFollowerKey(followedID, followerID))
}

// IsFollowingList reports whether the list-follow edge exists.
func (r *FollowerRepository) IsFollowingList(ctx context.Context, listID, followerID string) (bool, error) {
	return r.edgeExists(ctx, valueobjects.ListFollowerKey(listID, followerID))
}

// GetFollowers returns the edges stored under a user's partition.
func (r *FollowerRepository) GetFollowers(ctx context.Context, followedID string) ([]entities.FollowerEdge, error) {
	var edges []entities.FollowerEdge
	var startKey map[string]types.AttributeValue

	for {
		result, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pk":     &types.AttributeValueMemberS{Value: valueobjects.UserPartition(followedID)},
				":prefix": &types.AttributeValueMemberS{Value: valueobjects.SortPrefixFollower},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query followers: %w", err)
		}
		for _, raw := range result.Items {
			edge := entities.FollowerEdge{}
			if v, ok := raw["FollowerID"].(*types.AttributeValueMemberS); ok {
				edge.FollowerID = v.Value
			}
			if v, ok := raw["CreatedAt"].(*types.AttributeValueMemberS); ok {
				edge.CreatedAt = parseTime(v.Value)
			}
			if edge.FollowerID != "" {
				edges = append(edges, edge)
			}
		}
		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}
	return edges, nil
}

// reverseEdge is one follow edge read back through the reverse index:
// the followed entity's partition key plus when the edge was created.
type reverseEdge struct {
	partition string
	createdAt time.Time
}

// queryReverse pages the reverse index for a follower's edges whose
// target partition starts with prefix.
func (r *FollowerRepository) queryReverse(ctx context.Context, followerID, prefix string) ([]reverseEdge, error) {
	var edges []reverseEdge
	var startKey map[string]types.AttributeValue

	for {
		result, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String(indexReverse),
			KeyConditionExpression: aws.String("GSI2PK = :sk AND begins_with(GSI2SK, :prefix)"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":sk":     &types.AttributeValueMemberS{Value: valueobjects.FollowerSortKey(followerID)},
				":prefix": &types.AttributeValueMemberS{Value: prefix},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query reverse index: %w", err)
		}
		for _, raw := range result.Items {
			edge := reverseEdge{}
			if v, ok := raw["GSI2SK"].(*types.AttributeValueMemberS); ok {
				edge.partition = v.Value
			}
			if v, ok := raw["CreatedAt"].(*types.AttributeValueMemberS); ok {
				edge.createdAt = parseTime(v.Value)
			}
			if edge.partition != "" {
				edges = append(edges, edge)
			}
		}
		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}
	return edges, nil
}

// GetFollowedUsers returns the users followerID follows with the time
// each follow was created.
func (r *FollowerRepository) GetFollowedUsers(ctx context.Context, followerID string) ([]entities.FollowedUser, error) {
	edges, err := r.queryReverse(ctx, followerID, "USER#")
	if err != nil {
		return nil, err
	}
	followed := make([]entities.FollowedUser, 0, len(edges))
	for _, edge := range edges {
		if id, ok := valueobjects.SplitKeyID(edge.partition); ok {
			followed = append(followed, entities.FollowedUser{UserID: id, FollowedAt: edge.createdAt})
		}
	}
	return followed, nil
}

// GetFollowedLists returns references to the lists followerID follows.
func (r *FollowerRepository) GetFollowedLists(ctx context.Context, followerID string) ([]entities.FollowedList, error) {
	edges, err := r.queryReverse(ctx, followerID, "LIST#")
	if err != nil {
		return nil, err
	}
	refs := make([]entities.FollowedList, 0, len(edges))
	for _, edge := range edges {
		id, ok := valueobjects.SplitKeyID(edge.partition)
		if !ok {
			continue
		}
		refs = append(refs, entities.FollowedList{ListID: strings.TrimSpace(id), FollowedAt: edge.createdAt})
	}
	return refs, nil
}
