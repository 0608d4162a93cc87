package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lesson-studio-api/internal/models"
)

func TestMemoryLessonPlanRepositoryIsolatesCopies(t *testing.T) {
	repo := NewMemoryLessonPlanRepository(nil)
	ctx := context.Background()
	plan := &models.LessonPlan{ID: "plan-1", TeacherID: "teacher-1", Status: models.LessonPlanStatusDraft, Title: "Fruit"}
	require.NoError(t, repo.Save(ctx, plan))

	plan.Title = "mutated after save"
	stored, err := repo.GetByID(ctx, "plan-1")
	require.NoError(t, err)
	assert.Equal(t, "Fruit", stored.Title)

	stored.Title = "mutated after get"
	again, err := repo.GetByID(ctx, "plan-1")
	require.NoError(t, err)
	assert.Equal(t, "Fruit", again.Title)
}

func TestMemoryLessonPlanRepositoryListAndDelete(t *testing.T) {
	repo := NewMemoryLessonPlanRepository(nil)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, &models.LessonPlan{ID: "a", TeacherID: "t1", Status: models.LessonPlanStatusDraft, UpdatedAt: base}))
	require.NoError(t, repo.Save(ctx, &models.LessonPlan{ID: "b", TeacherID: "t1", Status: models.LessonPlanStatusFinalized, UpdatedAt: base.Add(time.Hour)}))
	require.NoError(t, repo.Save(ctx, &models.LessonPlan{ID: "c", TeacherID: "t2", Status: models.LessonPlanStatusDraft, UpdatedAt: base}))

	all, err := repo.List(ctx, models.LessonPlanFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "b", all[0].ID)

	mine, err := repo.List(ctx, models.LessonPlanFilter{TeacherID: "t1", Status: []models.LessonPlanStatus{models.LessonPlanStatusDraft}})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "a", mine[0].ID)

	require.NoError(t, repo.Delete(ctx, "a"))
	require.ErrorIs(t, repo.Delete(ctx, "a"), sql.ErrNoRows)
	_, err = repo.GetByID(ctx, "a")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestMemoryLessonPlanRepositorySaveAssignment(t *testing.T) {
	contents := NewMemoryContentRepository()
	repo := NewMemoryLessonPlanRepository(contents)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, &models.LessonPlan{ID: "plan-1", TeacherID: "teacher-1", Status: models.LessonPlanStatusFinalized}))

	assigned := &models.LessonPlan{ID: "plan-1", TeacherID: "teacher-1", Status: models.LessonPlanStatusAssigned, AssignedStudentIDs: []string{"s1"}}
	bad := models.ContentItem{ID: "bad", Type: models.ContentTypeLesson}
	require.Error(t, repo.SaveAssignment(ctx, assigned, []models.ContentItem{lessonContent("c1", "s1"), bad}))

	stored, err := repo.GetByID(ctx, "plan-1")
	require.NoError(t, err)
	assert.Equal(t, models.LessonPlanStatusFinalized, stored.Status)
	all, _ := contents.List(ctx, models.ContentFilter{})
	assert.Empty(t, all)

	require.NoError(t, repo.SaveAssignment(ctx, assigned, []models.ContentItem{lessonContent("c1", "s1")}))
	stored, err = repo.GetByID(ctx, "plan-1")
	require.NoError(t, err)
	assert.Equal(t, models.LessonPlanStatusAssigned, stored.Status)
	all, _ = contents.List(ctx, models.ContentFilter{})
	assert.Len(t, all, 1)
}

func TestMemoryContentRepositoryFilters(t *testing.T) {
	repo := NewMemoryContentRepository()
	ctx := context.Background()
	require.NoError(t, repo.Append(ctx, lessonContent("c1", "s1"), lessonContent("c2", "s2")))
	require.NoError(t, repo.Append(ctx, models.ContentItem{
		ID: "c3", AuthorID: "teacher-2", AssignedStudentID: "s1", Type: models.ContentTypeStory,
		Story: &models.StoryPayload{Text: "Once."},
	}))

	forS1, err := repo.List(ctx, models.ContentFilter{AssignedStudentID: "s1"})
	require.NoError(t, err)
	require.Len(t, forS1, 2)
	assert.Equal(t, "c1", forS1[0].ID)
	assert.Equal(t, "c3", forS1[1].ID)

	byPlan, err := repo.List(ctx, models.ContentFilter{LessonPlanID: "plan-1"})
	require.NoError(t, err)
	assert.Len(t, byPlan, 2)

	err = repo.Append(ctx, models.ContentItem{ID: "bad", Type: models.ContentTypeLesson})
	require.Error(t, err)
	all, _ := repo.List(ctx, models.ContentFilter{})
	assert.Len(t, all, 3)
}

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "lesson-studio", nil)
	var dest map[string]string
	require.Error(t, repo.Get(context.Background(), "k", &dest))
	require.NoError(t, repo.Set(context.Background(), "k", "v", time.Minute))
	require.NoError(t, repo.Delete(context.Background(), "k"))
	require.NoError(t, repo.DeleteByPattern(context.Background(), "k*"))
	require.NoError(t, repo.Close())
}
