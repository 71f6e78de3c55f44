package entities

import "time"

// FollowerEdge records that FollowerID follows the entity owning the
// partition it is stored under.
type FollowerEdge struct {
	FollowerID string    `json:"followerId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewFollowerEdge builds an edge stamped with the current time.
func NewFollowerEdge(followerID string) FollowerEdge {
	return FollowerEdge{FollowerID: followerID, CreatedAt: time.Now()}
}

// FollowedUser pairs a followed user id with the time the follow edge
// was created, recovered from the reverse index.
type FollowedUser struct {
	UserID     string    `json:"userId"`
	FollowedAt time.Time `json:"followedAt"`
}

// FollowedList pairs a followed list id with its owner, recovered from a
// follower edge's partition key.
type FollowedList struct {
	ListID     string    `json:"listId"`
	OwnerID    string    `json:"ownerId,omitempty"`
	FollowedAt time.Time `json:"followedAt"`
}
