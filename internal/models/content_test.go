package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLessonPlanToContentItem(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	plan := &LessonPlan{
		ID:              "plan-1",
		TeacherID:       "teacher-1",
		Title:           "Fruit",
		TextContent:     "I like apples.",
		TargetLevel:     2,
		TargetFramework: FrameworkGEPT,
		VocabItems:      []VocabItem{{ID: "v1", Word: "apple"}, {ID: "v2", Word: "like"}},
	}

	item := LessonPlanToContentItem(plan, "s1", now)
	assert.Equal(t, ContentTypeLesson, item.Type)
	assert.Equal(t, "teacher-1", item.AuthorID)
	assert.Equal(t, "s1", item.AssignedStudentID)
	assert.Equal(t, "plan-1", item.LessonPlanID)
	assert.Equal(t, now, item.CreatedAt)
	assert.Contains(t, item.ID, "plan-1-s1-")
	require.NotNil(t, item.Lesson)
	assert.Nil(t, item.Story)
	assert.Equal(t, []string{"apple", "like"}, item.Lesson.Vocab)
	assert.Equal(t, "I like apples.", item.Lesson.Content)
	assert.Equal(t, FrameworkGEPT, item.Lesson.Framework)

	again := LessonPlanToContentItem(plan, "s1", now)
	assert.NotEqual(t, item.ID, again.ID)

	item.Lesson.VocabItems[0].Word = "changed"
	assert.Equal(t, "apple", plan.VocabItems[0].Word)
}

func TestLessonPlanToContentItemWithVideo(t *testing.T) {
	plan := &LessonPlan{ID: "plan-2", VideoContent: &VideoContent{VideoURL: "https://cdn.test/v.mp4", Duration: 30}}
	item := LessonPlanToContentItem(plan, "s2", time.Now())
	assert.Equal(t, ContentTypeVideoLesson, item.Type)
	require.NotNil(t, item.Lesson.VideoContent)
	assert.NotSame(t, plan.VideoContent, item.Lesson.VideoContent)
}

func TestContentItemJSONDispatchesOnType(t *testing.T) {
	story := ContentItem{
		ID:        "c1",
		AuthorID:  "teacher-1",
		Type:      ContentTypeStory,
		Title:     "A walk",
		Story:     &StoryPayload{Text: "Once upon a time."},
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	raw, err := json.Marshal(story)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"payload":{"text":"Once upon a time."}`)

	var decoded ContentItem
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.NotNil(t, decoded.Story)
	assert.Nil(t, decoded.Lesson)
	assert.Equal(t, "Once upon a time.", decoded.Story.Text)
}

func TestContentItemRejectsMissingPayload(t *testing.T) {
	_, err := json.Marshal(ContentItem{ID: "c2", Type: ContentTypeLesson})
	require.Error(t, err)

	var item ContentItem
	require.Error(t, json.Unmarshal([]byte(`{"id":"c3","type":"podcast","payload":{}}`), &item))
}
