package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/noah-isme/lesson-studio-api/internal/dto"
	"github.com/noah-isme/lesson-studio-api/internal/models"
	appErrors "github.com/noah-isme/lesson-studio-api/pkg/errors"
)

type contentStore interface {
	Append(ctx context.Context, items ...models.ContentItem) error
	List(ctx context.Context, filter models.ContentFilter) ([]models.ContentItem, error)
}

// ContentService is the student-facing content store.
type ContentService struct {
	repo      contentStore
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewContentService constructs the service.
func NewContentService(repo contentStore, validate *validator.Validate, logger *zap.Logger) *ContentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentService{
		repo:      repo,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CheckContent reports the first item that cannot be stored.
func (s *ContentService) CheckContent(items ...models.ContentItem) error {
	for _, item := range items {
		if item.ID == "" {
			return appErrors.Clone(appErrors.ErrValidation, "content item id is required")
		}
		if _, err := item.PayloadJSON(); err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid content payload")
		}
	}
	return nil
}

// SaveContent appends the items. Either all of them are stored or none.
func (s *ContentService) SaveContent(ctx context.Context, items ...models.ContentItem) error {
	if err := s.CheckContent(items...); err != nil {
		return err
	}
	if err := s.repo.Append(ctx, items...); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save content")
	}
	s.logger.Debug("content saved", zap.Int("items", len(items)))
	return nil
}

// ListForStudent returns the content assigned to a student in the order it was saved.
func (s *ContentService) ListForStudent(ctx context.Context, studentID string) ([]models.ContentItem, error) {
	if strings.TrimSpace(studentID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	return s.list(ctx, models.ContentFilter{AssignedStudentID: studentID})
}

// ListByTeacher returns the content authored by a teacher.
func (s *ContentService) ListByTeacher(ctx context.Context, teacherID string) ([]models.ContentItem, error) {
	if strings.TrimSpace(teacherID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher id is required")
	}
	return s.list(ctx, models.ContentFilter{AuthorID: teacherID})
}

// CreateStory stores a story authored by authorID, optionally assigned to a student.
func (s *ContentService) CreateStory(ctx context.Context, authorID string, req dto.CreateStoryRequest) (*models.ContentItem, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid story payload")
	}
	if strings.TrimSpace(req.Payload.Text) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "story text is required")
	}
	payload := req.Payload
	item := models.ContentItem{
		ID:                fmt.Sprintf("story-%s", ksuid.New().String()),
		AuthorID:          authorID,
		AssignedStudentID: strings.TrimSpace(req.StudentID),
		Type:              models.ContentTypeStory,
		Title:             req.Title,
		Story:             &payload,
		CreatedAt:         s.now(),
	}
	if err := s.SaveContent(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info("story created", zap.String("content_id", item.ID), zap.String("author_id", authorID))
	return &item, nil
}

func (s *ContentService) list(ctx context.Context, filter models.ContentFilter) ([]models.ContentItem, error) {
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list content")
	}
	if items == nil {
		items = []models.ContentItem{}
	}
	return items, nil
}
