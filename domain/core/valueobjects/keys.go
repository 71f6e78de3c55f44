package valueobjects

import (
	"fmt"
	"strings"
)

// EntityKind identifies what an item in the table represents.
type EntityKind string

const (
	KindUser     EntityKind = "USER"
	KindExercise EntityKind = "EXERCISE"
	KindList     EntityKind = "LIST"
	KindComment  EntityKind = "COMMENT"
	KindLike     EntityKind = "LIKE"
	KindFollower EntityKind = "FOLLOWER"
)

// Sort key discriminators and prefixes.
const (
	SortMetadata       = "METADATA"
	SortLikes          = "LIKES"
	SortPrefixComment  = "COMMENT#"
	SortPrefixLike     = "LIKE#"
	SortPrefixList     = "LIST#"
	SortPrefixFollower = "FOLLOWER#"
)

// Class partitions used by the entity-class index (GSI1).
const (
	ClassUsers     = "USER"
	ClassExercises = "EXERCISES"
)

// ItemKey addresses a single item in the entity store. Keys are built only
// through the constructors below so the composite-string scheme stays in
// one place.
type ItemKey struct {
	PK string
	SK string
}

// UserPartition returns the partition key for a user's items.
func UserPartition(userID string) string {
	return fmt.Sprintf("USER#%s", userID)
}

// ExercisePartition returns the partition key for an exercise's items.
func ExercisePartition(exerciseID string) string {
	return fmt.Sprintf("EXERCISE#%s", exerciseID)
}

// ListPartition returns the partition key used by list-follower edges.
func ListPartition(listID string) string {
	return fmt.Sprintf("LIST#%s", listID)
}

// UserMetadataKey addresses a user's metadata item.
func UserMetadataKey(userID string) ItemKey {
	return ItemKey{PK: UserPartition(userID), SK: SortMetadata}
}

// UserLikesKey addresses a user's liked-exercises set item.
func UserLikesKey(userID string) ItemKey {
	return ItemKey{PK: UserPartition(userID), SK: SortLikes}
}

// ExerciseMetadataKey addresses an exercise's metadata item.
func ExerciseMetadataKey(exerciseID string) ItemKey {
	return ItemKey{PK: ExercisePartition(exerciseID), SK: SortMetadata}
}

// CommentKey addresses a comment under its owning exercise.
func CommentKey(exerciseID, commentID string) ItemKey {
	return ItemKey{PK: ExercisePartition(exerciseID), SK: CommentSortKey(commentID)}
}

// CommentSortKey returns the sort key for a comment id, used both for
// direct addressing and for reverse-index lookups.
func CommentSortKey(commentID string) string {
	return SortPrefixComment + commentID
}

// LikeEdgeKey addresses the existence-only like edge for (exercise, user).
func LikeEdgeKey(exerciseID, userID string) ItemKey {
	return ItemKey{PK: ExercisePartition(exerciseID), SK: SortPrefixLike + userID}
}

// ListKey addresses a list under its owning user.
func ListKey(ownerID, listID string) ItemKey {
	return ItemKey{PK: UserPartition(ownerID), SK: SortPrefixList + listID}
}

// UserFollowerKey addresses the edge "follower follows followed user".
func UserFollowerKey(followedID, followerID string) ItemKey {
	return ItemKey{PK: UserPartition(followedID), SK: FollowerSortKey(followerID)}
}

// ListFollowerKey addresses the edge "follower follows list".
func ListFollowerKey(listID, followerID string) ItemKey {
	return ItemKey{PK: ListPartition(listID), SK: FollowerSortKey(followerID)}
}

// FollowerSortKey returns the sort key for a follower edge, used both for
// direct addressing and for reverse-index lookups.
func FollowerSortKey(followerID string) string {
	return SortPrefixFollower + followerID
}

// SplitKeyID returns the id portion of a composite key segment such as
// "USER#abc" or "FOLLOWER#abc". The second return is false when the
// segment has no id portion.
func SplitKeyID(segment string) (string, bool) {
	idx := strings.Index(segment, "#")
	if idx < 0 || idx == len(segment)-1 {
		return "", false
	}
	return segment[idx+1:], true
}

// KindOfPartition reports the entity kind encoded in a partition key.
func KindOfPartition(pk string) (EntityKind, bool) {
	idx := strings.Index(pk, "#")
	if idx <= 0 {
		return "", false
	}
	switch pk[:idx] {
	case "USER":
		return KindUser, true
	case "EXERCISE":
		return KindExercise, true
	case "LIST":
		return KindList, true
	default:
		return "", false
	}
}
