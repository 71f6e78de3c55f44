package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"exercisely-backend/application/services"
	"exercisely-backend/domain/core/entities"
	"exercisely-backend/domain/core/valueobjects"
	"exercisely-backend/pkg/auth"
	"exercisely-backend/pkg/common"
)

// ExerciseHandler exposes catalog endpoints.
type ExerciseHandler struct {
	exercises *services.ExerciseService
	logger    *zap.Logger
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exercises *services.ExerciseService, logger *zap.Logger) *ExerciseHandler {
	return &ExerciseHandler{exercises: exercises, logger: logger}
}

type createExerciseRequest struct {
	Name             string   `json:"name" validate:"required,min=1,max=200"`
	Force            string   `json:"force,omitempty"`
	Level            string   `json:"level" validate:"required"`
	Mechanic         string   `json:"mechanic,omitempty"`
	Equipment        string   `json:"equipment,omitempty"`
	PrimaryMuscles   []string `json:"primaryMuscles" validate:"required,min=1"`
	SecondaryMuscles []string `json:"secondaryMuscles,omitempty"`
	Instructions     []string `json:"instructions,omitempty"`
	Category         string   `json:"category" validate:"required"`
	Images           []string `json:"images,omitempty"`
}

type searchRequest struct {
	Description string `json:"description" validate:"required,min=3,max=1000"`
}

// filterFromQuery builds the catalog filter out of query parameters.
// Multi-value fields accept comma-separated values.
func filterFromQuery(r *http.Request) valueobjects.ExerciseFilter {
	q := r.URL.Query()
	filter := valueobjects.ExerciseFilter{Name: q.Get("name")}
	for _, field := range valueobjects.MultiValueFields {
		if values := splitMulti(q.Get(string(field))); len(values) > 0 {
			filter.SetField(field, values)
		}
	}
	return filter
}

// Query handles GET /exercises. Authentication is optional; a known
// caller gets per-exercise like state in the page.
func (h *ExerciseHandler) Query(w http.ResponseWriter, r *http.Request) {
	page, err := h.exercises.Query(r.Context(), filterFromQuery(r), paginationFromQuery(r), auth.UserIDFromContext(r.Context()))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, page)
}

// Search handles POST /exercises/search
func (h *ExerciseHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	page, filter, err := h.exercises.Search(r.Context(), req.Description, paginationFromQuery(r), auth.UserIDFromContext(r.Context()))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"filter":  filter,
		"results": page,
	})
}

// Get handles GET /exercises/{exerciseID}
func (h *ExerciseHandler) Get(w http.ResponseWriter, r *http.Request) {
	exercise, err := h.exercises.GetByID(r.Context(), chi.URLParam(r, "exerciseID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, exercise)
}

// Create handles POST /exercises
func (h *ExerciseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createExerciseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	exercise, err := h.exercises.Create(r.Context(), &entities.Exercise{
		Name:             req.Name,
		Force:            req.Force,
		Level:            req.Level,
		Mechanic:         req.Mechanic,
		Equipment:        req.Equipment,
		PrimaryMuscles:   req.PrimaryMuscles,
		SecondaryMuscles: req.SecondaryMuscles,
		Instructions:     req.Instructions,
		Category:         req.Category,
		Images:           req.Images,
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, exercise)
}
