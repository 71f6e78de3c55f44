package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"exercisely-backend/application/services"
	"exercisely-backend/pkg/auth"
	"exercisely-backend/pkg/common"
)

// UserHandler exposes profile endpoints.
type UserHandler struct {
	users  *services.UserService
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// bearerToken returns the raw access token from the Authorization header.
// The identity provider wants the token itself, not the claims.
func bearerToken(r *http.Request) string {
	return strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
}

type updateProfileRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type photoUploadRequest struct {
	FileName string `json:"fileName" validate:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type changeEmailRequest struct {
	NewEmail string `json:"newEmail" validate:"required,email"`
}

type confirmChangeEmailRequest struct {
	Code string `json:"code" validate:"required"`
}

// GetMe handles GET /users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	user, err := h.users.GetProfile(r.Context(), userID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, user)
}

// UpdateMe handles PUT /users/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	user, err := h.users.UpdateProfile(r.Context(), userID, req.Name)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, user)
}

// GetUser handles GET /users/{userID}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "userID")
	summary, err := h.users.GetPublicProfile(r.Context(), targetID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, summary)
}

// PresignPhotoUpload handles POST /users/me/photo-upload
func (h *UserHandler) PresignPhotoUpload(w http.ResponseWriter, r *http.Request) {
	var req photoUploadRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	uploadURL, err := h.users.GetPhotoUploadURL(r.Context(), userID, req.FileName)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"uploadUrl": uploadURL})
}

// DeletePhoto handles DELETE /users/me/photo
func (h *UserHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	if err := h.users.DeletePhoto(r.Context(), userID); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ChangePassword handles POST /users/me/password. The identity provider
// wants the caller's access token, so the raw bearer value is forwarded.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.users.ChangePassword(r.Context(), bearerToken(r), req.OldPassword, req.NewPassword); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

// ChangeEmail handles POST /users/me/email
func (h *UserHandler) ChangeEmail(w http.ResponseWriter, r *http.Request) {
	var req changeEmailRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	token := bearerToken(r)
	if err := h.users.ChangeEmail(r.Context(), token, req.NewEmail); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "a verification code has been sent to the new address",
	})
}

// ConfirmChangeEmail handles POST /users/me/email/confirm
func (h *UserHandler) ConfirmChangeEmail(w http.ResponseWriter, r *http.Request) {
	var req confirmChangeEmailRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	user, err := h.users.ConfirmChangeEmail(r.Context(), userID, bearerToken(r), req.Code)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, user)
}

// GetAll handles GET /users
func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.users.GetAllUsers(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, summaries)
}

// DeleteMe handles DELETE /users/me
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	if err := h.users.DeleteAccount(r.Context(), userID); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
