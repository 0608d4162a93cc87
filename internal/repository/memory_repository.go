package repository

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/noah-isme/lesson-studio-api/internal/models"
)

// MemoryLessonPlanRepository keeps lesson plans in process memory. Stored
// plans are cloned on the way in and out so callers never share state.
type MemoryLessonPlanRepository struct {
	mu      sync.RWMutex
	plans   map[string]*models.LessonPlan
	content *MemoryContentRepository
}

// NewMemoryLessonPlanRepository constructs an empty store. Assignments write
// their content items into content.
func NewMemoryLessonPlanRepository(content *MemoryContentRepository) *MemoryLessonPlanRepository {
	return &MemoryLessonPlanRepository{plans: make(map[string]*models.LessonPlan), content: content}
}

// List returns plans matching the filter, most recently updated first.
func (r *MemoryLessonPlanRepository) List(_ context.Context, filter models.LessonPlanFilter) ([]models.LessonPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.LessonPlan, 0, len(r.plans))
	for _, plan := range r.plans {
		if filter.TeacherID != "" && plan.TeacherID != filter.TeacherID {
			continue
		}
		if len(filter.Status) > 0 && !lo.Contains(filter.Status, plan.Status) {
			continue
		}
		result = append(result, *plan.Clone())
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].UpdatedAt.Equal(result[j].UpdatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

// GetByID returns a copy of the plan or sql.ErrNoRows.
func (r *MemoryLessonPlanRepository) GetByID(_ context.Context, id string) (*models.LessonPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	plan, ok := r.plans[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return plan.Clone(), nil
}

// Save inserts or replaces the plan.
func (r *MemoryLessonPlanRepository) Save(_ context.Context, plan *models.LessonPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans[plan.ID] = plan.Clone()
	return nil
}

// SaveAssignment stores the content items and the plan as one unit. The plan
// lock is held across both writes and nothing is written when an item is invalid.
func (r *MemoryLessonPlanRepository) SaveAssignment(ctx context.Context, plan *models.LessonPlan, items []models.ContentItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(items) > 0 {
		if r.content == nil {
			return errors.New("memory lesson plan store has no content store")
		}
		if err := r.content.Append(ctx, items...); err != nil {
			return err
		}
	}
	r.plans[plan.ID] = plan.Clone()
	return nil
}

// Delete removes the plan or returns sql.ErrNoRows.
func (r *MemoryLessonPlanRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.plans, id)
	return nil
}

// MemoryContentRepository is an append-only in-memory content store.
type MemoryContentRepository struct {
	mu    sync.RWMutex
	items []models.ContentItem
}

// NewMemoryContentRepository constructs an empty store.
func NewMemoryContentRepository() *MemoryContentRepository {
	return &MemoryContentRepository{}
}

// Append stores all items atomically with respect to readers.
func (r *MemoryContentRepository) Append(_ context.Context, items ...models.ContentItem) error {
	for _, item := range items {
		if _, err := item.PayloadJSON(); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, items...)
	return nil
}

// List returns items matching the filter in insertion order.
func (r *MemoryContentRepository) List(_ context.Context, filter models.ContentFilter) ([]models.ContentItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Filter(r.items, func(item models.ContentItem, _ int) bool {
		if filter.AssignedStudentID != "" && item.AssignedStudentID != filter.AssignedStudentID {
			return false
		}
		if filter.AuthorID != "" && item.AuthorID != filter.AuthorID {
			return false
		}
		if filter.LessonPlanID != "" && item.LessonPlanID != filter.LessonPlanID {
			return false
		}
		return true
	}), nil
}
