package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"exercisely-backend/application/services"
	"exercisely-backend/domain/core/valueobjects"
	"exercisely-backend/pkg/auth"
	"exercisely-backend/pkg/common"
)

// FollowerHandler exposes follow endpoints for users and lists.
type FollowerHandler struct {
	followers *services.FollowerService
	logger    *zap.Logger
}

// NewFollowerHandler creates a new FollowerHandler.
func NewFollowerHandler(followers *services.FollowerService, logger *zap.Logger) *FollowerHandler {
	return &FollowerHandler{followers: followers, logger: logger}
}

// followRequest targets either a user or a list, never both. The xor is
// enforced when the target value object is built.
type followRequest struct {
	UserID string `json:"userId,omitempty"`
	ListID string `json:"listId,omitempty"`
}

func (h *FollowerHandler) target(w http.ResponseWriter, r *http.Request) (valueobjects.FollowTarget, bool) {
	var req followRequest
	if !decodeAndValidate(w, r, &req) {
		return valueobjects.FollowTarget{}, false
	}
	target, err := valueobjects.NewFollowTarget(req.UserID, req.ListID)
	if err != nil {
		common.RespondAppError(w, err)
		return valueobjects.FollowTarget{}, false
	}
	return target, true
}

// Follow handles POST /follow
func (h *FollowerHandler) Follow(w http.ResponseWriter, r *http.Request) {
	target, ok := h.target(w, r)
	if !ok {
		return
	}

	callerID := auth.UserIDFromContext(r.Context())
	if err := h.followers.Follow(r.Context(), callerID, target); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, map[string]string{"status": "following"})
}

// Unfollow handles POST /unfollow
func (h *FollowerHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	target, ok := h.target(w, r)
	if !ok {
		return
	}

	callerID := auth.UserIDFromContext(r.Context())
	if err := h.followers.Unfollow(r.Context(), callerID, target); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "unfollowed"})
}

// GetFollowers handles GET /users/{userID}/followers
func (h *FollowerHandler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	followers, err := h.followers.GetFollowers(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"followers": followers})
}

// GetFollowing handles GET /users/me/following
func (h *FollowerHandler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	following, err := h.followers.GetFollowing(r.Context(), userID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"following": following})
}

// GetFollowedLists handles GET /users/me/followed-lists
func (h *FollowerHandler) GetFollowedLists(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	lists, err := h.followers.GetFollowedLists(r.Context(), userID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"lists": lists})
}
