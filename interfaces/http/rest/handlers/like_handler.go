package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"exercisely-backend/application/services"
	"exercisely-backend/pkg/auth"
	"exercisely-backend/pkg/common"
)

// LikeHandler exposes like endpoints.
type LikeHandler struct {
	likes  *services.LikeService
	logger *zap.Logger
}

// NewLikeHandler creates a new LikeHandler.
func NewLikeHandler(likes *services.LikeService, logger *zap.Logger) *LikeHandler {
	return &LikeHandler{likes: likes, logger: logger}
}

// Like handles POST /exercises/{exerciseID}/like
func (h *LikeHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	exerciseID := chi.URLParam(r, "exerciseID")

	if err := h.likes.Like(r.Context(), exerciseID, userID); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, map[string]string{"status": "liked"})
}

// Unlike handles DELETE /exercises/{exerciseID}/like
func (h *LikeHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	exerciseID := chi.URLParam(r, "exerciseID")

	if err := h.likes.Unlike(r.Context(), exerciseID, userID); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "unliked"})
}

// GetLiked handles GET /users/me/likes
func (h *LikeHandler) GetLiked(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	exercises, err := h.likes.GetLikedExercises(r.Context(), userID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"exercises": exercises})
}
