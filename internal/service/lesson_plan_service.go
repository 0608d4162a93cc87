package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/noah-isme/lesson-studio-api/internal/dto"
	"github.com/noah-isme/lesson-studio-api/internal/models"
	appErrors "github.com/noah-isme/lesson-studio-api/pkg/errors"
)

const lessonPlanCachePrefix = "lesson_plan:"

type lessonPlanStore interface {
	List(ctx context.Context, filter models.LessonPlanFilter) ([]models.LessonPlan, error)
	GetByID(ctx context.Context, id string) (*models.LessonPlan, error)
	Save(ctx context.Context, plan *models.LessonPlan) error
	Delete(ctx context.Context, id string) error
	SaveAssignment(ctx context.Context, plan *models.LessonPlan, items []models.ContentItem) error
}

type contentChecker interface {
	CheckContent(items ...models.ContentItem) error
}

// LessonPlanService owns the lesson plan lifecycle: drafting, edits, review
// transitions, validation history and assignment.
type LessonPlanService struct {
	repo      lessonPlanStore
	content   contentChecker
	validator *validator.Validate
	logger    *zap.Logger
	cache     *CacheService
	metrics   *MetricsService
	locks     *planLocks
	now       func() time.Time

	allowReassignment bool
}

// LessonPlanServiceOption configures the service.
type LessonPlanServiceOption func(*LessonPlanService)

// WithReassignment lets Assign accept plans that were already assigned, so
// later waves of students can receive the same plan.
func WithReassignment(enabled bool) LessonPlanServiceOption {
	return func(s *LessonPlanService) {
		s.allowReassignment = enabled
	}
}

// WithLessonPlanCache enables read-through caching of single plans.
func WithLessonPlanCache(cache *CacheService) LessonPlanServiceOption {
	return func(s *LessonPlanService) {
		s.cache = cache
	}
}

// WithLessonPlanMetrics records transitions and assignments.
func WithLessonPlanMetrics(metrics *MetricsService) LessonPlanServiceOption {
	return func(s *LessonPlanService) {
		s.metrics = metrics
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) LessonPlanServiceOption {
	return func(s *LessonPlanService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewLessonPlanService constructs the service.
func NewLessonPlanService(repo lessonPlanStore, content contentChecker, validate *validator.Validate, logger *zap.Logger, opts ...LessonPlanServiceOption) *LessonPlanService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	registerLessonValidations(validate)
	svc := &LessonPlanService{
		repo:      repo,
		content:   content,
		validator: validate,
		logger:    logger,
		locks:     newPlanLocks(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// CreateDraft stores a new plan in draft with empty content and history.
func (s *LessonPlanService) CreateDraft(ctx context.Context, req dto.CreateLessonPlanRequest) (*models.LessonPlan, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson plan payload")
	}
	if strings.TrimSpace(req.TeacherID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacherId is required")
	}

	now := s.now()
	plan := &models.LessonPlan{
		ID:                 uuid.NewString(),
		TeacherID:          req.TeacherID,
		Status:             models.LessonPlanStatusDraft,
		CreatedAt:          now,
		UpdatedAt:          now,
		Title:              req.Title,
		TargetLanguage:     req.TargetLanguage,
		TargetLevel:        req.TargetLevel,
		TargetFramework:    req.TargetFramework,
		VocabItems:         []models.VocabItem{},
		ValidationHistory:  []models.ValidationResult{},
		AssignedStudentIDs: []string{},
		SourceType:         req.SourceType,
		SourceData:         req.SourceData,
	}
	if err := s.repo.Save(ctx, plan); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lesson plan")
	}
	s.logger.Info("lesson plan drafted", zap.String("plan_id", plan.ID), zap.String("teacher_id", plan.TeacherID))
	return plan, nil
}

// List returns plans matching the query, newest first.
func (s *LessonPlanService) List(ctx context.Context, query dto.LessonPlanQuery) ([]models.LessonPlan, error) {
	for _, status := range query.Status {
		if !status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", status))
		}
	}
	plans, err := s.repo.List(ctx, models.LessonPlanFilter{TeacherID: query.TeacherID, Status: query.Status})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lesson plans")
	}
	return plans, nil
}

// GetByTeacher returns every plan owned by the teacher.
func (s *LessonPlanService) GetByTeacher(ctx context.Context, teacherID string) ([]models.LessonPlan, error) {
	return s.List(ctx, dto.LessonPlanQuery{TeacherID: teacherID})
}

// GetByID returns one plan, served from cache when possible. A miss is
// loaded and cached under the plan lock so a concurrent write cannot be
// overtaken by an older copy.
func (s *LessonPlanService) GetByID(ctx context.Context, id string) (*models.LessonPlan, error) {
	var cached models.LessonPlan
	if hit, _ := s.cache.Get(ctx, lessonPlanCachePrefix+id, &cached); hit {
		return &cached, nil
	}
	unlock := s.locks.Lock(id)
	defer unlock()

	plan, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, lessonPlanCachePrefix+id, plan, 0)
	return plan, nil
}

// Save persists caller-side edits of an existing plan and bumps updatedAt.
// Status, history and assignments are owned by the workflow operations and
// are kept from the stored copy.
func (s *LessonPlanService) Save(ctx context.Context, plan *models.LessonPlan) (*models.LessonPlan, error) {
	if plan == nil || plan.ID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "lesson plan id is required")
	}
	return s.mutate(ctx, plan.ID, func(stored *models.LessonPlan) error {
		if strings.TrimSpace(plan.Title) == "" {
			return appErrors.Clone(appErrors.ErrValidation, "title is required")
		}
		stored.Title = plan.Title
		stored.TextContent = plan.TextContent
		stored.VocabItems = append([]models.VocabItem{}, plan.VocabItems...)
		stored.VideoContent = plan.VideoContent.Clone()
		return nil
	})
}

// Update applies the non-nil fields of req and saves the plan.
func (s *LessonPlanService) Update(ctx context.Context, id string, req dto.UpdateLessonPlanRequest) (*models.LessonPlan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson plan payload")
	}
	plan, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		plan.Title = strings.TrimSpace(*req.Title)
	}
	if req.TextContent != nil {
		plan.TextContent = *req.TextContent
	}
	if req.VocabItems != nil {
		plan.VocabItems = *req.VocabItems
	}
	if req.VideoContent != nil {
		plan.VideoContent = req.VideoContent
	}
	if req.RemoveVideo {
		plan.VideoContent = nil
	}
	return s.Save(ctx, plan)
}

// Delete removes a plan regardless of its status.
func (s *LessonPlanService) Delete(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFoundPlan(id)
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete lesson plan")
	}
	s.invalidate(ctx, id)
	s.logger.Info("lesson plan deleted", zap.String("plan_id", id))
	return nil
}

// AddValidation appends result to the plan's history. Status is unchanged.
func (s *LessonPlanService) AddValidation(ctx context.Context, id string, result models.ValidationResult) (*models.LessonPlan, error) {
	if result.Timestamp.IsZero() {
		result.Timestamp = s.now()
	}
	if result.Checks == nil {
		result.Checks = []models.CheckResult{}
	}
	return s.mutate(ctx, id, func(plan *models.LessonPlan) error {
		plan.ValidationHistory = append(plan.ValidationHistory, result)
		return nil
	})
}

// RecordValidation runs check against the stored plan and appends its result
// to the history in one locked step, so the recorded result always describes
// the content it was computed from.
func (s *LessonPlanService) RecordValidation(ctx context.Context, id string, check func(plan *models.LessonPlan) models.ValidationResult) (*models.ValidationResult, *models.LessonPlan, error) {
	var result models.ValidationResult
	plan, err := s.mutate(ctx, id, func(plan *models.LessonPlan) error {
		result = check(plan)
		if result.Checks == nil {
			result.Checks = []models.CheckResult{}
		}
		plan.ValidationHistory = append(plan.ValidationHistory, result)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &result, plan, nil
}

// Transition moves the plan to next when the workflow allows it. Entering
// revision-needed increments the revision counter.
func (s *LessonPlanService) Transition(ctx context.Context, id string, next models.LessonPlanStatus) (*models.LessonPlan, error) {
	var from models.LessonPlanStatus
	plan, err := s.mutate(ctx, id, func(plan *models.LessonPlan) error {
		from = plan.Status
		if !plan.Status.CanTransitionTo(next) {
			return appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf(
				"Invalid transition: %q → %q. Allowed: %s",
				plan.Status, next, models.FormatStatuses(plan.Status.AllowedTransitions())))
		}
		plan.Status = next
		if next == models.LessonPlanStatusRevisionNeeded {
			plan.RevisionCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordTransition(string(from), string(next))
	s.logger.Info("lesson plan transitioned",
		zap.String("plan_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(next)),
	)
	return plan, nil
}

// Assign publishes the plan to the given students. The plan must be
// finalized and its latest validation must have passed. Students already
// assigned are skipped. The content items and the plan are stored together.
func (s *LessonPlanService) Assign(ctx context.Context, id string, studentIDs []string) (*models.LessonPlan, error) {
	var items []models.ContentItem
	assign := func(plan *models.LessonPlan) error {
		if !s.canAssignFrom(plan.Status) {
			return appErrors.Clone(appErrors.ErrNotFinalized, fmt.Sprintf(
				"Cannot assign: plan status is %q, must be %q.", plan.Status, models.LessonPlanStatusFinalized))
		}
		if latest := plan.LatestValidation(); latest == nil || !latest.Passed {
			return appErrors.Clone(appErrors.ErrValidationNotPassed, "Cannot assign: latest validation did not pass.")
		}
		students := normalizeStudentIDs(studentIDs)
		if len(students) == 0 {
			return appErrors.Clone(appErrors.ErrValidation, "at least one student id is required")
		}

		now := s.now()
		items = lo.Map(lo.Without(students, plan.AssignedStudentIDs...), func(studentID string, _ int) models.ContentItem {
			return models.LessonPlanToContentItem(plan, studentID, now)
		})
		if s.content != nil {
			if err := s.content.CheckContent(items...); err != nil {
				return err
			}
		}
		plan.AssignedStudentIDs = lo.Uniq(append(plan.AssignedStudentIDs, students...))
		plan.Status = models.LessonPlanStatusAssigned
		return nil
	}
	persist := func(ctx context.Context, plan *models.LessonPlan) error {
		return s.repo.SaveAssignment(ctx, plan, items)
	}

	plan, err := s.mutateWith(ctx, id, assign, persist)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordAssignment(len(items))
	s.logger.Info("lesson plan assigned",
		zap.String("plan_id", id),
		zap.Int("content_items", len(items)),
		zap.Int("assigned_total", len(plan.AssignedStudentIDs)),
	)
	return plan, nil
}

// normalizeStudentIDs trims ids, drops blanks and removes duplicates.
func normalizeStudentIDs(studentIDs []string) []string {
	return lo.Uniq(lo.Filter(lo.Map(studentIDs, func(sid string, _ int) string {
		return strings.TrimSpace(sid)
	}), func(sid string, _ int) bool { return sid != "" }))
}

func (s *LessonPlanService) canAssignFrom(status models.LessonPlanStatus) bool {
	if status == models.LessonPlanStatusFinalized {
		return true
	}
	return s.allowReassignment && status == models.LessonPlanStatusAssigned
}

// mutate runs fn against a fresh copy of the plan under the plan lock and
// persists the result. Nothing is written when fn fails.
func (s *LessonPlanService) mutate(ctx context.Context, id string, fn func(plan *models.LessonPlan) error) (*models.LessonPlan, error) {
	return s.mutateWith(ctx, id, fn, s.repo.Save)
}

func (s *LessonPlanService) mutateWith(ctx context.Context, id string, fn func(plan *models.LessonPlan) error, persist func(ctx context.Context, plan *models.LessonPlan) error) (*models.LessonPlan, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	plan, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(plan); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update lesson plan")
	}
	plan.UpdatedAt = s.now()
	if err := persist(ctx, plan); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save lesson plan")
	}
	s.invalidate(ctx, id)
	return plan, nil
}

func (s *LessonPlanService) load(ctx context.Context, id string) (*models.LessonPlan, error) {
	plan, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundPlan(id)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson plan")
	}
	return plan, nil
}

func (s *LessonPlanService) invalidate(ctx context.Context, id string) {
	_ = s.cache.Invalidate(ctx, lessonPlanCachePrefix+id)
}

func notFoundPlan(id string) *appErrors.Error {
	return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Lesson plan %q not found.", id))
}
