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

// ListHandler exposes exercise-list endpoints.
type ListHandler struct {
	lists  *services.ListService
	logger *zap.Logger
}

// NewListHandler creates a new ListHandler.
func NewListHandler(lists *services.ListService, logger *zap.Logger) *ListHandler {
	return &ListHandler{lists: lists, logger: logger}
}

type createListRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description,omitempty" validate:"max=500"`
	Visibility  string `json:"visibility,omitempty" validate:"omitempty,oneof=public private shared"`
	ExerciseID  string `json:"exerciseId,omitempty"`
}

type updateListRequest struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=500"`
	Visibility  *string   `json:"visibility,omitempty" validate:"omitempty,oneof=public private shared"`
	ExerciseIDs *[]string `json:"exerciseIds,omitempty"`
}

type addExerciseRequest struct {
	ExerciseID string `json:"exerciseId" validate:"required"`
}

type shareListRequest struct {
	SharedWith []string `json:"sharedWith" validate:"required"`
}

// Create handles POST /lists
func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	list, err := h.lists.Create(r.Context(), userID, req.Name, req.Description, valueobjects.Visibility(req.Visibility), req.ExerciseID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, list)
}

// GetRelevant handles GET /lists
func (h *ListHandler) GetRelevant(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	lists, err := h.lists.GetRelevant(r.Context(), userID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"lists": lists})
}

// Get handles GET /lists/{listID}
func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	list, err := h.lists.Get(r.Context(), chi.URLParam(r, "listID"), userID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, list)
}

// GetByUser handles GET /users/{userID}/lists
func (h *ListHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	callerID := auth.UserIDFromContext(r.Context())
	lists, err := h.lists.GetOwnedBy(r.Context(), chi.URLParam(r, "userID"), callerID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"lists": lists})
}

// Update handles PUT /lists/{listID}
func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateListRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	update := services.ListUpdate{
		Name:        req.Name,
		Description: req.Description,
		ExerciseIDs: req.ExerciseIDs,
	}
	if req.Visibility != nil {
		v := valueobjects.Visibility(*req.Visibility)
		update.Visibility = &v
	}

	userID := auth.UserIDFromContext(r.Context())
	list, err := h.lists.Update(r.Context(), chi.URLParam(r, "listID"), userID, update)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, list)
}

// Delete handles DELETE /lists/{listID}
func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	if err := h.lists.Delete(r.Context(), chi.URLParam(r, "listID"), userID); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// AddExercise handles POST /lists/{listID}/exercises
func (h *ListHandler) AddExercise(w http.ResponseWriter, r *http.Request) {
	var req addExerciseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	list, err := h.lists.AddExercise(r.Context(), chi.URLParam(r, "listID"), userID, req.ExerciseID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, list)
}

// RemoveExercise handles DELETE /lists/{listID}/exercises/{exerciseID}
func (h *ListHandler) RemoveExercise(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	list, err := h.lists.RemoveExercise(r.Context(), chi.URLParam(r, "listID"), userID, chi.URLParam(r, "exerciseID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, list)
}

// Share handles POST /lists/{listID}/share
func (h *ListHandler) Share(w http.ResponseWriter, r *http.Request) {
	var req shareListRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	list, err := h.lists.Share(r.Context(), chi.URLParam(r, "listID"), userID, req.SharedWith)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, list)
}
