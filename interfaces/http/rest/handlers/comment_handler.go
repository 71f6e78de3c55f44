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

// CommentHandler exposes comment endpoints.
type CommentHandler struct {
	comments *services.CommentService
	logger   *zap.Logger
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(comments *services.CommentService, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, logger: logger}
}

type commentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// Add handles POST /exercises/{exerciseID}/comments
func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	comment, err := h.comments.Add(r.Context(), chi.URLParam(r, "exerciseID"), userID, req.Content)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, comment)
}

// Get handles GET /comments?exerciseId=...|commentId=...
// Exactly one of the two query parameters must be present.
func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query, err := valueobjects.NewCommentQuery(q.Get("exerciseId"), q.Get("commentId"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	comments, err := h.comments.Get(r.Context(), query)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"comments": comments})
}

// Update handles PUT /comments/{commentID}
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	comment, err := h.comments.Update(r.Context(), chi.URLParam(r, "commentID"), userID, req.Content)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, comment)
}

// Delete handles DELETE /comments/{commentID}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	if err := h.comments.Delete(r.Context(), chi.URLParam(r, "commentID"), userID); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
