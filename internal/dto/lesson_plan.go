package dto

import "github.com/noah-isme/lesson-studio-api/internal/models"

// CreateLessonPlanRequest starts a new draft plan.
type CreateLessonPlanRequest struct {
	TeacherID       string               `json:"teacherId"`
	Title           string               `json:"title" validate:"required,max=200"`
	TargetLanguage  models.LanguageTrack `json:"targetLanguage" validate:"required,language"`
	TargetLevel     models.LevelNumber   `json:"targetLevel" validate:"required,level"`
	TargetFramework models.Framework     `json:"targetFramework" validate:"required,framework"`
	SourceType      models.SourceType    `json:"sourceType,omitempty" validate:"omitempty,source_type"`
	SourceData      string               `json:"sourceData,omitempty"`
}

// UpdateLessonPlanRequest carries teacher edits. Nil fields are left untouched.
type UpdateLessonPlanRequest struct {
	Title        *string              `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	TextContent  *string              `json:"textContent,omitempty"`
	VocabItems   *[]models.VocabItem  `json:"vocabItems,omitempty" validate:"omitempty,dive"`
	VideoContent *models.VideoContent `json:"videoContent,omitempty"`
	// RemoveVideo clears the attached video.
	RemoveVideo bool `json:"removeVideo,omitempty"`
}

// TransitionLessonPlanRequest asks for a status change.
type TransitionLessonPlanRequest struct {
	Status models.LessonPlanStatus `json:"status" validate:"required,lesson_status"`
}

// AssignLessonPlanRequest lists the students receiving the plan.
type AssignLessonPlanRequest struct {
	StudentIDs []string `json:"studentIds" validate:"required,min=1,dive,required"`
}

// LessonPlanQuery mirrors supported listing filters.
type LessonPlanQuery struct {
	TeacherID string
	Status    []models.LessonPlanStatus
}

// CreateStoryRequest publishes a story to a student or as an unassigned draft.
type CreateStoryRequest struct {
	StudentID string              `json:"studentId,omitempty"`
	Title     string              `json:"title" validate:"required,max=200"`
	Payload   models.StoryPayload `json:"payload"`
}

// ProficiencyQuery resolves a proficiency label.
type ProficiencyQuery struct {
	Language  models.LanguageTrack   `form:"language" validate:"required,language"`
	Category  models.LearnerCategory `form:"category" validate:"required,oneof=child adult"`
	Level     models.LevelNumber     `form:"level" validate:"required,level"`
	Framework models.Framework       `form:"framework" validate:"omitempty,framework"`
}

// ReportFormat selects the review report encoding.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// ValidateLessonPlanResponse returns the fresh result with the updated plan.
type ValidateLessonPlanResponse struct {
	Result *models.ValidationResult `json:"result"`
	Plan   *models.LessonPlan       `json:"plan"`
}

// FrameworkLevelRow is one row of a framework table response.
type FrameworkLevelRow struct {
	Level              models.LevelNumber `json:"level" yaml:"level"`
	models.LevelDetail `yaml:",inline"`
}
