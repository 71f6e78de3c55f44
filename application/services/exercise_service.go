package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"exercisely-backend/application/ports"
	"exercisely-backend/domain/core/entities"
	"exercisely-backend/domain/core/valueobjects"
	"exercisely-backend/pkg/common"
	pkgerrors "exercisely-backend/pkg/errors"
	"exercisely-backend/pkg/observability"
)

// ExercisePage is one page of a filtered catalog query.
type ExercisePage struct {
	Exercises  []*entities.Exercise `json:"exercises"`
	Total      int                  `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"pageSize"`
	TotalPages int                  `json:"totalPages"`
}

// ExerciseService answers catalog reads from the in-memory snapshot and
// keeps the snapshot consistent with writes.
type ExerciseService struct {
	exercises ports.ExerciseRepository
	cache     ports.CatalogCache
	likes     ports.LikeRepository
	extractor ports.FilterExtractor
	publisher ports.EventPublisher
	metrics   *observability.Metrics
	logger    *zap.Logger

	populateMu sync.Mutex
}

// NewExerciseService creates a new exercise service.
func NewExerciseService(
	exercises ports.ExerciseRepository,
	cache ports.CatalogCache,
	likes ports.LikeRepository,
	extractor ports.FilterExtractor,
	publisher ports.EventPublisher,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *ExerciseService {
	return &ExerciseService{
		exercises: exercises,
		cache:     cache,
		likes:     likes,
		extractor: extractor,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// ensurePopulated loads the full catalog into the snapshot on first use.
// The mutex only serializes the initial load; queries against a populated
// snapshot never take it.
func (s *ExerciseService) ensurePopulated(ctx context.Context) error {
	if s.cache.IsPopulated() {
		return nil
	}
	s.populateMu.Lock()
	defer s.populateMu.Unlock()
	if s.cache.IsPopulated() {
		return nil
	}

	all, err := s.exercises.ListAll(ctx)
	if err != nil {
		return err
	}
	s.cache.Populate(all)
	s.metrics.CacheRefresh(ctx, len(all))
	s.logger.Info("catalog snapshot populated", zap.Int("count", len(all)))
	return nil
}

// Query returns one page of the catalog matching the filter. The page's
// items are re-read from the table so counters are current, and tagged
// with callerID's like state when the caller is authenticated.
func (s *ExerciseService) Query(ctx context.Context, filter valueobjects.ExerciseFilter, params common.PaginationParams, callerID string) (*ExercisePage, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	if err := s.ensurePopulated(ctx); err != nil {
		return nil, err
	}

	params = params.Normalize()
	matches, total := s.cache.Query(filter, params.Page, params.PageSize)

	page, err := s.refreshPage(ctx, matches)
	if err != nil {
		return nil, err
	}
	if callerID != "" && len(page) > 0 {
		page, err = s.markLiked(ctx, page, callerID)
		if err != nil {
			return nil, err
		}
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + params.PageSize - 1) / params.PageSize
	}
	return &ExercisePage{
		Exercises:  page,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// refreshPage re-reads one page's exercises from the table and patches
// the snapshot with the fresher copies. An id the batch read no longer
// resolves keeps its cached copy.
func (s *ExerciseService) refreshPage(ctx context.Context, cached []*entities.Exercise) ([]*entities.Exercise, error) {
	if len(cached) == 0 {
		return cached, nil
	}

	ids := make([]string, 0, len(cached))
	for _, e := range cached {
		ids = append(ids, e.ExerciseID)
	}
	fresh, err := s.exercises.GetBatch(ctx, ids)
	if err != nil {
		return nil, err
	}

	page := make([]*entities.Exercise, 0, len(cached))
	for _, e := range cached {
		if f, ok := fresh[e.ExerciseID]; ok {
			s.cache.Patch(f)
			e = f
		}
		page = append(page, e)
	}
	return page, nil
}

// markLiked returns copies of the page's exercises tagged with the
// caller's like state, so per-caller fields never land in the shared
// snapshot.
func (s *ExerciseService) markLiked(ctx context.Context, page []*entities.Exercise, callerID string) ([]*entities.Exercise, error) {
	likedIDs, err := s.likes.GetLikedExerciseIDs(ctx, callerID)
	if err != nil {
		return nil, err
	}
	liked := make(map[string]bool, len(likedIDs))
	for _, id := range likedIDs {
		liked[id] = true
	}

	tagged := make([]*entities.Exercise, 0, len(page))
	for _, e := range page {
		cp := *e
		cp.IsLiked = liked[e.ExerciseID]
		tagged = append(tagged, &cp)
	}
	return tagged, nil
}

// Search extracts a structured filter from a free-text description and
// runs it against the snapshot.
func (s *ExerciseService) Search(ctx context.Context, description string, params common.PaginationParams, callerID string) (*ExercisePage, valueobjects.ExerciseFilter, error) {
	if description == "" {
		return nil, valueobjects.ExerciseFilter{}, pkgerrors.NewValidationError("search description is required")
	}

	filter, err := s.extractor.ExtractFilter(ctx, description)
	if err != nil {
		s.metrics.FilterExtractionFailure(ctx)
		s.logger.Warn("filter extraction failed", zap.Error(err))
		return nil, valueobjects.ExerciseFilter{}, pkgerrors.NewExternalError("could not interpret search description", err)
	}

	page, err := s.Query(ctx, filter, params, callerID)
	if err != nil {
		return nil, valueobjects.ExerciseFilter{}, err
	}
	return page, filter, nil
}

// GetByID reads a single exercise from the table, not the snapshot, so
// counter fields are current.
func (s *ExerciseService) GetByID(ctx context.Context, exerciseID string) (*entities.Exercise, error) {
	if exerciseID == "" {
		return nil, pkgerrors.NewValidationError("exercise id is required")
	}
	return s.exercises.GetByID(ctx, exerciseID)
}

// GetBatch resolves several exercise ids at once; missing ids are
// absent from the result.
func (s *ExerciseService) GetBatch(ctx context.Context, exerciseIDs []string) (map[string]*entities.Exercise, error) {
	return s.exercises.GetBatch(ctx, exerciseIDs)
}

// Create adds an exercise to the catalog and patches the snapshot.
func (s *ExerciseService) Create(ctx context.Context, exercise *entities.Exercise) (*entities.Exercise, error) {
	if err := validateExercise(exercise); err != nil {
		return nil, err
	}
	if exercise.ExerciseID == "" {
		exercise.ExerciseID = uuid.New().String()
	}
	if exercise.CreatedAt.IsZero() {
		now := time.Now()
		exercise.CreatedAt = now
		exercise.UpdatedAt = now
	}

	if err := s.exercises.Create(ctx, exercise); err != nil {
		return nil, err
	}
	s.cache.Patch(exercise)

	s.logger.Info("exercise created",
		zap.String("exerciseID", exercise.ExerciseID),
		zap.String("name", exercise.Name),
	)
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, ports.EventExerciseCreated, map[string]string{
			"exerciseId": exercise.ExerciseID,
		}); err != nil {
			s.logger.Warn("failed to publish exercise event", zap.Error(err))
		}
	}
	return exercise, nil
}

// RefreshExercise refetches one exercise and patches the snapshot so its
// cached counters catch up with the table. Missing exercises are removed
// from the snapshot instead.
func (s *ExerciseService) RefreshExercise(ctx context.Context, exerciseID string) {
	exercise, err := s.exercises.GetByID(ctx, exerciseID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			s.cache.Remove(exerciseID)
			return
		}
		s.logger.Warn("failed to refresh cached exercise",
			zap.String("exerciseID", exerciseID),
			zap.Error(err),
		)
		return
	}
	s.cache.Patch(exercise)
}

// RefreshCatalog forces a full snapshot reload.
func (s *ExerciseService) RefreshCatalog(ctx context.Context) error {
	all, err := s.exercises.ListAll(ctx)
	if err != nil {
		return err
	}
	s.cache.Populate(all)
	s.metrics.CacheRefresh(ctx, len(all))
	s.logger.Info("catalog snapshot refreshed", zap.Int("count", len(all)))
	return nil
}

// validateFilter rejects values outside the known vocabularies.
func validateFilter(filter valueobjects.ExerciseFilter) error {
	for _, field := range valueobjects.MultiValueFields {
		for _, v := range filter.FieldValues(field) {
			if !valueobjects.InVocabulary(field, v) {
				return pkgerrors.NewValidationError("invalid " + string(field) + " value: " + v)
			}
		}
	}
	return nil
}

// validateExercise checks the required fields and single-value
// vocabularies on a new exercise.
func validateExercise(e *entities.Exercise) error {
	if e == nil || e.Name == "" {
		return pkgerrors.NewValidationError("exercise name is required")
	}
	if !valueobjects.InVocabulary(valueobjects.FieldLevel, e.Level) {
		return pkgerrors.NewValidationError("invalid level value")
	}
	if !valueobjects.InVocabulary(valueobjects.FieldCategory, e.Category) {
		return pkgerrors.NewValidationError("invalid category value")
	}
	if e.Force != "" && !valueobjects.InVocabulary(valueobjects.FieldForce, e.Force) {
		return pkgerrors.NewValidationError("invalid force value")
	}
	if e.Mechanic != "" && !valueobjects.InVocabulary(valueobjects.FieldMechanic, e.Mechanic) {
		return pkgerrors.NewValidationError("invalid mechanic value")
	}
	if e.Equipment != "" && !valueobjects.InVocabulary(valueobjects.FieldEquipment, e.Equipment) {
		return pkgerrors.NewValidationError("invalid equipment value")
	}
	for _, m := range append(append([]string{}, e.PrimaryMuscles...), e.SecondaryMuscles...) {
		if !valueobjects.InVocabulary(valueobjects.FieldMuscle, m) {
			return pkgerrors.NewValidationError("invalid muscle value: " + m)
		}
	}
	return nil
}
