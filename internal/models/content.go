package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/segmentio/ksuid"
)

// ContentType tags the payload variant a content item carries.
type ContentType string

const (
	ContentTypeLesson      ContentType = "lesson"
	ContentTypeVideoLesson ContentType = "video-lesson"
	ContentTypeStory       ContentType = "story"
)

// LessonPayload is the body of lesson and video-lesson content.
type LessonPayload struct {
	Content      string        `json:"content"`
	Vocab        []string      `json:"vocab"`
	VocabItems   []VocabItem   `json:"vocabItems"`
	VideoContent *VideoContent `json:"videoContent,omitempty"`
	Level        LevelNumber   `json:"level"`
	Framework    Framework     `json:"framework"`
}

// StoryPayload is the body of story content.
type StoryPayload struct {
	Text     string      `json:"text"`
	Vocab    []string    `json:"vocab,omitempty"`
	Language string      `json:"language,omitempty"`
	Level    LevelNumber `json:"level,omitempty"`
}

// ContentItem is a student-facing artifact. Exactly one payload is set,
// selected by Type.
type ContentItem struct {
	ID                string
	AuthorID          string
	AssignedStudentID string
	Type              ContentType
	Title             string
	Lesson            *LessonPayload
	Story             *StoryPayload
	LessonPlanID      string
	CreatedAt         time.Time
}

type contentItemJSON struct {
	ID                string          `json:"id"`
	AuthorID          string          `json:"authorId"`
	AssignedStudentID string          `json:"assignedStudentId,omitempty"`
	Type              ContentType     `json:"type"`
	Title             string          `json:"title"`
	Payload           json.RawMessage `json:"payload"`
	LessonPlanID      string          `json:"lessonPlanId,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// PayloadJSON encodes the active payload variant.
func (c ContentItem) PayloadJSON() ([]byte, error) {
	switch c.Type {
	case ContentTypeLesson, ContentTypeVideoLesson:
		if c.Lesson == nil {
			return nil, fmt.Errorf("content %s: missing lesson payload", c.ID)
		}
		return json.Marshal(c.Lesson)
	case ContentTypeStory:
		if c.Story == nil {
			return nil, fmt.Errorf("content %s: missing story payload", c.ID)
		}
		return json.Marshal(c.Story)
	default:
		return nil, fmt.Errorf("content %s: unknown type %q", c.ID, c.Type)
	}
}

// SetPayloadJSON decodes raw into the variant selected by Type.
func (c *ContentItem) SetPayloadJSON(raw []byte) error {
	c.Lesson, c.Story = nil, nil
	switch c.Type {
	case ContentTypeLesson, ContentTypeVideoLesson:
		var payload LessonPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return fmt.Errorf("decode lesson payload: %w", err)
		}
		c.Lesson = &payload
	case ContentTypeStory:
		var payload StoryPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return fmt.Errorf("decode story payload: %w", err)
		}
		c.Story = &payload
	default:
		return fmt.Errorf("unknown content type %q", c.Type)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c ContentItem) MarshalJSON() ([]byte, error) {
	payload, err := c.PayloadJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(contentItemJSON{
		ID:                c.ID,
		AuthorID:          c.AuthorID,
		AssignedStudentID: c.AssignedStudentID,
		Type:              c.Type,
		Title:             c.Title,
		Payload:           payload,
		LessonPlanID:      c.LessonPlanID,
		CreatedAt:         c.CreatedAt,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *ContentItem) UnmarshalJSON(data []byte) error {
	var raw contentItemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = ContentItem{
		ID:                raw.ID,
		AuthorID:          raw.AuthorID,
		AssignedStudentID: raw.AssignedStudentID,
		Type:              raw.Type,
		Title:             raw.Title,
		LessonPlanID:      raw.LessonPlanID,
		CreatedAt:         raw.CreatedAt,
	}
	return c.SetPayloadJSON(raw.Payload)
}

// ContentFilter constrains content listing.
type ContentFilter struct {
	AssignedStudentID string
	AuthorID          string
	LessonPlanID      string
}

// LessonPlanToContentItem builds the assignable content for one student.
// The plan is not modified.
func LessonPlanToContentItem(plan *LessonPlan, studentID string, now time.Time) ContentItem {
	contentType := ContentTypeLesson
	if plan.VideoContent != nil {
		contentType = ContentTypeVideoLesson
	}
	vocabItems := append([]VocabItem(nil), plan.VocabItems...)
	return ContentItem{
		ID:                fmt.Sprintf("%s-%s-%s", plan.ID, studentID, ksuid.New().String()),
		AuthorID:          plan.TeacherID,
		AssignedStudentID: studentID,
		Type:              contentType,
		Title:             plan.Title,
		Lesson: &LessonPayload{
			Content:      plan.TextContent,
			Vocab:        lo.Map(vocabItems, func(v VocabItem, _ int) string { return v.Word }),
			VocabItems:   vocabItems,
			VideoContent: plan.VideoContent.Clone(),
			Level:        plan.TargetLevel,
			Framework:    plan.TargetFramework,
		},
		LessonPlanID: plan.ID,
		CreatedAt:    now,
	}
}
