package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lesson-studio-api/internal/dto"
	"github.com/noah-isme/lesson-studio-api/internal/models"
	appErrors "github.com/noah-isme/lesson-studio-api/pkg/errors"
	"github.com/noah-isme/lesson-studio-api/pkg/response"
)

type contentService interface {
	ListForStudent(ctx context.Context, studentID string) ([]models.ContentItem, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.ContentItem, error)
	CreateStory(ctx context.Context, authorID string, req dto.CreateStoryRequest) (*models.ContentItem, error)
}

// ContentHandler serves student-facing content.
type ContentHandler struct {
	content contentService
}

// NewContentHandler builds a content handler.
func NewContentHandler(content contentService) *ContentHandler {
	return &ContentHandler{content: content}
}

// Me godoc
// @Summary List content assigned to the current student
// @Tags Content
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /content/me [get]
func (h *ContentHandler) Me(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	h.respondList(c, func(ctx context.Context) ([]models.ContentItem, error) {
		return h.content.ListForStudent(ctx, claims.UserID)
	})
}

// ForStudent godoc
// @Summary List content assigned to a student
// @Tags Content
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /content/students/{studentId} [get]
func (h *ContentHandler) ForStudent(c *gin.Context) {
	studentID := c.Param("studentId")
	h.respondList(c, func(ctx context.Context) ([]models.ContentItem, error) {
		return h.content.ListForStudent(ctx, studentID)
	})
}

// Authored godoc
// @Summary List content authored by the current teacher
// @Tags Content
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /content/authored [get]
func (h *ContentHandler) Authored(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	h.respondList(c, func(ctx context.Context) ([]models.ContentItem, error) {
		return h.content.ListByTeacher(ctx, claims.UserID)
	})
}

// CreateStory godoc
// @Summary Publish a story
// @Tags Content
// @Accept json
// @Produce json
// @Param payload body dto.CreateStoryRequest true "Story"
// @Success 201 {object} response.Envelope
// @Router /content/stories [post]
func (h *ContentHandler) CreateStory(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.CreateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid story payload"))
		return
	}
	item, err := h.content.CreateStory(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

func (h *ContentHandler) respondList(c *gin.Context, load func(ctx context.Context) ([]models.ContentItem, error)) {
	items, err := load(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, map[string]interface{}{"total": len(items)})
}
