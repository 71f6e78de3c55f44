package valueobjects

import (
	pkgerrors "exercisely-backend/pkg/errors"
)

type followTargetKind int

const (
	followTargetUser followTargetKind = iota + 1
	followTargetList
)

// FollowTarget is the user-xor-list target of a follow operation. It is
// constructed once at the validation boundary so downstream code never
// re-checks optional-field combinations.
type FollowTarget struct {
	kind followTargetKind
	id   string
}

// NewFollowTarget builds a target from the optional userId/listId pair,
// enforcing that exactly one is present.
func NewFollowTarget(userID, listID string) (FollowTarget, error) {
	if userID != "" && listID != "" {
		return FollowTarget{}, pkgerrors.NewValidationError("cannot target both a user and a list")
	}
	if userID == "" && listID == "" {
		return FollowTarget{}, pkgerrors.NewValidationError("must provide either a userId or a listId")
	}
	if userID != "" {
		return FollowTarget{kind: followTargetUser, id: userID}, nil
	}
	return FollowTarget{kind: followTargetList, id: listID}, nil
}

// FollowUserTarget builds a target for following a user.
func FollowUserTarget(userID string) FollowTarget {
	return FollowTarget{kind: followTargetUser, id: userID}
}

// FollowListTarget builds a target for following a list.
func FollowListTarget(listID string) FollowTarget {
	return FollowTarget{kind: followTargetList, id: listID}
}

// IsUser reports whether the target is a user.
func (t FollowTarget) IsUser() bool { return t.kind == followTargetUser }

// IsList reports whether the target is a list.
func (t FollowTarget) IsList() bool { return t.kind == followTargetList }

// ID returns the targeted entity's id.
func (t FollowTarget) ID() string { return t.id }
