package cache

import (
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"exercisely-backend/application/ports"
	"exercisely-backend/domain/core/entities"
	"exercisely-backend/domain/core/valueobjects"
	"exercisely-backend/pkg/common"
)

// CatalogCache holds a per-worker snapshot of the exercise catalog so
// filtered, paginated reads never hit the table. The snapshot starts
// empty and is populated on first use; writes patch it in place.
type CatalogCache struct {
	mu        sync.RWMutex
	exercises []*entities.Exercise
	byID      map[string]int
	populated bool
	logger    *zap.Logger
}

// NewCatalogCache creates an empty catalog cache.
func NewCatalogCache(logger *zap.Logger) ports.CatalogCache {
	return &CatalogCache{logger: logger}
}

// Populate replaces the snapshot wholesale. Entries are kept sorted by
// name so pagination is stable across queries.
func (c *CatalogCache) Populate(exercises []*entities.Exercise) {
	snapshot := make([]*entities.Exercise, len(exercises))
	copy(snapshot, exercises)
	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].Name < snapshot[j].Name
	})

	byID := make(map[string]int, len(snapshot))
	for i, e := range snapshot {
		byID[e.ExerciseID] = i
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.exercises = snapshot
	c.byID = byID
	c.populated = true
}

// IsPopulated reports whether the snapshot holds data.
func (c *CatalogCache) IsPopulated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.populated
}

// Patch upserts one exercise. An unpopulated snapshot is left alone;
// the next query populates it from the table anyway.
func (c *CatalogCache) Patch(exercise *entities.Exercise) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.populated {
		return
	}
	if i, ok := c.byID[exercise.ExerciseID]; ok {
		c.exercises[i] = exercise
		return
	}
	c.exercises = append(c.exercises, exercise)
	sort.Slice(c.exercises, func(i, j int) bool {
		return c.exercises[i].Name < c.exercises[j].Name
	})
	c.reindex()
}

// Remove drops one exercise from the snapshot.
func (c *CatalogCache) Remove(exerciseID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.populated {
		return
	}
	i, ok := c.byID[exerciseID]
	if !ok {
		return
	}
	c.exercises = append(c.exercises[:i], c.exercises[i+1:]...)
	c.reindex()
}

func (c *CatalogCache) reindex() {
	byID := make(map[string]int, len(c.exercises))
	for i, e := range c.exercises {
		byID[e.ExerciseID] = i
	}
	c.byID = byID
}

// Query applies the conjunctive filter and slices out one page. It
// returns the page and the total match count.
func (c *CatalogCache) Query(filter valueobjects.ExerciseFilter, page, pageSize int) ([]*entities.Exercise, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var matches []*entities.Exercise
	for _, e := range c.exercises {
		if matchesFilter(e, filter) {
			matches = append(matches, e)
		}
	}

	start, end := common.PageSlice(len(matches), page, pageSize)
	return matches[start:end], len(matches)
}

// matchesFilter checks every constrained field; all must pass.
func matchesFilter(e *entities.Exercise, f valueobjects.ExerciseFilter) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(f.Name)) {
		return false
	}
	if len(f.Force) > 0 && !containsFold(f.Force, e.Force) {
		return false
	}
	if len(f.Level) > 0 && !containsFold(f.Level, e.Level) {
		return false
	}
	if len(f.Mechanic) > 0 && !containsFold(f.Mechanic, e.Mechanic) {
		return false
	}
	if len(f.Equipment) > 0 && !containsFold(f.Equipment, e.Equipment) {
		return false
	}
	if len(f.Category) > 0 && !containsFold(f.Category, e.Category) {
		return false
	}
	if len(f.Muscle) > 0 && !overlapsFold(f.Muscle, e.Muscles()) {
		return false
	}
	return true
}

func containsFold(values []string, v string) bool {
	for _, candidate := range values {
		if strings.EqualFold(candidate, v) {
			return true
		}
	}
	return false
}

// overlapsFold reports whether any wanted muscle appears among the
// exercise's primary or secondary muscles.
func overlapsFold(wanted, actual []string) bool {
	for _, w := range wanted {
		if containsFold(actual, w) {
			return true
		}
	}
	return false
}
