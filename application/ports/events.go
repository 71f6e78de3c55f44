package ports

// Event types published to the event bus.
const (
	EventExerciseCreated = "exercise.created"
	EventExerciseLiked   = "exercise.liked"
	EventExerciseUnliked = "exercise.unliked"
	EventCommentAdded    = "comment.added"
	EventCommentDeleted  = "comment.deleted"
	EventListShared      = "list.shared"
	EventUserFollowed    = "user.followed"
	EventUserRegistered  = "user.registered"
	EventUserDeleted     = "user.deleted"
)
