package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/lesson-studio-api/internal/dto"
	"github.com/noah-isme/lesson-studio-api/internal/models"
)

type contentServiceMock struct {
	studentID string
	teacherID string
	authorID  string
	err       error
}

func (m *contentServiceMock) ListForStudent(_ context.Context, studentID string) ([]models.ContentItem, error) {
	m.studentID = studentID
	return []models.ContentItem{}, m.err
}

func (m *contentServiceMock) ListByTeacher(_ context.Context, teacherID string) ([]models.ContentItem, error) {
	m.teacherID = teacherID
	return []models.ContentItem{}, m.err
}

func (m *contentServiceMock) CreateStory(_ context.Context, authorID string, req dto.CreateStoryRequest) (*models.ContentItem, error) {
	m.authorID = authorID
	return &models.ContentItem{ID: "story-1", AuthorID: authorID, Type: models.ContentTypeStory, Title: req.Title, Story: &req.Payload}, m.err
}

func TestContentHandlerMeUsesCaller(t *testing.T) {
	svc := &contentServiceMock{}
	h := NewContentHandler(svc)
	c, w := newRequestContext(http.MethodGet, "/content/me", nil, &models.JWTClaims{UserID: "s1", Role: models.RoleStudent})

	h.Me(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s1", svc.studentID)
	assert.Contains(t, w.Body.String(), `"total":0`)
}

func TestContentHandlerForStudent(t *testing.T) {
	svc := &contentServiceMock{}
	h := NewContentHandler(svc)
	c, w := newRequestContext(http.MethodGet, "/content/students/s2", nil, teacherClaims("teacher-1"))
	c.Params = gin.Params{{Key: "studentId", Value: "s2"}}

	h.ForStudent(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s2", svc.studentID)
}

func TestContentHandlerAuthoredError(t *testing.T) {
	svc := &contentServiceMock{err: errors.New("db down")}
	h := NewContentHandler(svc)
	c, w := newRequestContext(http.MethodGet, "/content/authored", nil, teacherClaims("teacher-1"))

	h.Authored(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "teacher-1", svc.teacherID)
}

func TestContentHandlerCreateStory(t *testing.T) {
	svc := &contentServiceMock{}
	h := NewContentHandler(svc)
	req := dto.CreateStoryRequest{Title: "A day out", Payload: models.StoryPayload{Text: "We went to the park."}}
	c, w := newRequestContext(http.MethodPost, "/content/stories", req, teacherClaims("teacher-1"))

	h.CreateStory(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "teacher-1", svc.authorID)
	assert.Contains(t, w.Body.String(), "We went to the park.")
}
