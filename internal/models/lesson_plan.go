package models

import (
	"strings"
	"time"
)

// VocabItem is a vocabulary entry owned by one lesson plan.
type VocabItem struct {
	ID              string      `json:"id" yaml:"id"`
	Word            string      `json:"word" yaml:"word"`
	Pinyin          string      `json:"pinyin,omitempty" yaml:"pinyin,omitempty"`
	Definition      string      `json:"definition" yaml:"definition"`
	PartOfSpeech    string      `json:"partOfSpeech" yaml:"partOfSpeech"`
	ExampleSentence string      `json:"exampleSentence" yaml:"exampleSentence"`
	Level           LevelNumber `json:"level" yaml:"level"`
}

// VideoTimestamp positions a timed item inside a video, in seconds.
type VideoTimestamp struct {
	StartTime     float64 `json:"startTime" yaml:"startTime"`
	EndTime       float64 `json:"endTime" yaml:"endTime"`
	PauseDuration float64 `json:"pauseDuration" yaml:"pauseDuration"`
}

// TimedItemType distinguishes vocabulary markers from passage markers.
type TimedItemType string

const (
	TimedItemVocab   TimedItemType = "vocab"
	TimedItemPassage TimedItemType = "passage"
)

// DefaultPauseDurationMs is the pause applied when a timed item has none configured.
const DefaultPauseDurationMs = 2000

// TimedDisplayConfig controls playback behaviour for a timed item.
type TimedDisplayConfig struct {
	PauseDurationMs int `json:"pauseDurationMs" yaml:"pauseDurationMs"`
}

// TimedContentItem anchors a vocab item or passage to a video interval.
type TimedContentItem struct {
	ID            string             `json:"id" yaml:"id"`
	Type          TimedItemType      `json:"type" yaml:"type"`
	Timestamp     VideoTimestamp     `json:"timestamp" yaml:"timestamp"`
	VocabItemID   string             `json:"vocabItemId,omitempty" yaml:"vocabItemId,omitempty"`
	PassageText   string             `json:"passageText,omitempty" yaml:"passageText,omitempty"`
	DisplayConfig TimedDisplayConfig `json:"displayConfig" yaml:"displayConfig"`
}

// VideoContent is the optional video attached to a lesson plan.
type VideoContent struct {
	VideoURL   string             `json:"videoUrl" yaml:"videoUrl"`
	Duration   float64            `json:"duration" yaml:"duration"`
	TimedItems []TimedContentItem `json:"timedItems" yaml:"timedItems"`
	Thumbnail  string             `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
}

// Clone returns a deep copy of the video content.
func (v *VideoContent) Clone() *VideoContent {
	if v == nil {
		return nil
	}
	clone := *v
	clone.TimedItems = append([]TimedContentItem(nil), v.TimedItems...)
	return &clone
}

// LessonPlanStatus captures the review workflow state of a plan.
type LessonPlanStatus string

const (
	LessonPlanStatusDraft            LessonPlanStatus = "draft"
	LessonPlanStatusAIGenerating     LessonPlanStatus = "ai-generating"
	LessonPlanStatusPendingReview    LessonPlanStatus = "pending-review"
	LessonPlanStatusReviewInProgress LessonPlanStatus = "review-in-progress"
	LessonPlanStatusRevisionNeeded   LessonPlanStatus = "revision-needed"
	LessonPlanStatusFinalized        LessonPlanStatus = "finalized"
	LessonPlanStatusAssigned         LessonPlanStatus = "assigned"
)

// LessonPlanStatuses lists every workflow state.
var LessonPlanStatuses = []LessonPlanStatus{
	LessonPlanStatusDraft,
	LessonPlanStatusAIGenerating,
	LessonPlanStatusPendingReview,
	LessonPlanStatusReviewInProgress,
	LessonPlanStatusRevisionNeeded,
	LessonPlanStatusFinalized,
	LessonPlanStatusAssigned,
}

// ValidTransitions is the directed graph of legal status changes.
var ValidTransitions = map[LessonPlanStatus][]LessonPlanStatus{
	LessonPlanStatusDraft:            {LessonPlanStatusAIGenerating, LessonPlanStatusPendingReview},
	LessonPlanStatusAIGenerating:     {LessonPlanStatusPendingReview, LessonPlanStatusDraft},
	LessonPlanStatusPendingReview:    {LessonPlanStatusReviewInProgress},
	LessonPlanStatusReviewInProgress: {LessonPlanStatusRevisionNeeded, LessonPlanStatusFinalized},
	LessonPlanStatusRevisionNeeded:   {LessonPlanStatusPendingReview, LessonPlanStatusDraft},
	LessonPlanStatusFinalized:        {LessonPlanStatusAssigned, LessonPlanStatusRevisionNeeded},
	LessonPlanStatusAssigned:         {},
}

// Valid reports whether the status is a known workflow state.
func (s LessonPlanStatus) Valid() bool {
	_, ok := ValidTransitions[s]
	return ok
}

// AllowedTransitions returns the states reachable from s in one step.
func (s LessonPlanStatus) AllowedTransitions() []LessonPlanStatus {
	return append([]LessonPlanStatus(nil), ValidTransitions[s]...)
}

// CanTransitionTo reports whether next is reachable from s.
func (s LessonPlanStatus) CanTransitionTo(next LessonPlanStatus) bool {
	for _, allowed := range ValidTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// FormatStatuses joins statuses for messages, returning "none" when empty.
func FormatStatuses(statuses []LessonPlanStatus) string {
	if len(statuses) == 0 {
		return "none"
	}
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// SourceType records how a lesson plan was started.
type SourceType string

const (
	SourceImage        SourceType = "image"
	SourceVocabList    SourceType = "vocab-list"
	SourceGrammarTopic SourceType = "grammar-topic"
	SourceManual       SourceType = "manual"
)

// Valid reports whether the source type is known.
func (s SourceType) Valid() bool {
	switch s {
	case SourceImage, SourceVocabList, SourceGrammarTopic, SourceManual:
		return true
	default:
		return false
	}
}

// ValidationCheckType names one rule category of the validation pipeline.
type ValidationCheckType string

const (
	CheckGrammar              ValidationCheckType = "grammar"
	CheckVocabCompleteness    ValidationCheckType = "vocab-completeness"
	CheckTimestampAlignment   ValidationCheckType = "timestamp-alignment"
	CheckLevelAppropriateness ValidationCheckType = "level-appropriateness"
)

// ValidationSeverity grades an issue. Only errors fail a check.
type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "error"
	SeverityWarning ValidationSeverity = "warning"
	SeverityInfo    ValidationSeverity = "info"
)

// ValidationIssue is one finding of a check.
type ValidationIssue struct {
	Check    ValidationCheckType `json:"check" yaml:"check"`
	Severity ValidationSeverity  `json:"severity" yaml:"severity"`
	Message  string              `json:"message" yaml:"message"`
	Field    string              `json:"field,omitempty" yaml:"field,omitempty"`
}

// CheckResult aggregates the issues of one check.
type CheckResult struct {
	Type   ValidationCheckType `json:"type" yaml:"type"`
	Passed bool                `json:"passed" yaml:"passed"`
	Issues []ValidationIssue   `json:"issues" yaml:"issues"`
}

// ValidationResult is the outcome of a full validation pass.
type ValidationResult struct {
	Passed    bool          `json:"passed" yaml:"passed"`
	Timestamp time.Time     `json:"timestamp" yaml:"timestamp"`
	Checks    []CheckResult `json:"checks" yaml:"checks"`
}

// LessonPlan is the authorable unit moving through review before assignment.
type LessonPlan struct {
	ID        string           `json:"id"`
	TeacherID string           `json:"teacherId"`
	Status    LessonPlanStatus `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`

	Title           string        `json:"title"`
	TextContent     string        `json:"textContent"`
	TargetLanguage  LanguageTrack `json:"targetLanguage"`
	TargetLevel     LevelNumber   `json:"targetLevel"`
	TargetFramework Framework     `json:"targetFramework"`

	VocabItems   []VocabItem   `json:"vocabItems"`
	VideoContent *VideoContent `json:"videoContent,omitempty"`

	ValidationHistory []ValidationResult `json:"validationHistory"`
	RevisionCount     int                `json:"revisionCount"`

	AssignedStudentIDs []string `json:"assignedStudentIds"`

	SourceType SourceType `json:"sourceType,omitempty"`
	SourceData string     `json:"sourceData,omitempty"`
}

// LatestValidation returns the most recent validation, or nil when none ran.
func (p *LessonPlan) LatestValidation() *ValidationResult {
	if p == nil || len(p.ValidationHistory) == 0 {
		return nil
	}
	return &p.ValidationHistory[len(p.ValidationHistory)-1]
}

// Clone returns a deep copy so callers can mutate without touching stored state.
func (p *LessonPlan) Clone() *LessonPlan {
	if p == nil {
		return nil
	}
	clone := *p
	clone.VocabItems = append([]VocabItem(nil), p.VocabItems...)
	clone.VideoContent = p.VideoContent.Clone()
	clone.ValidationHistory = make([]ValidationResult, len(p.ValidationHistory))
	for i, result := range p.ValidationHistory {
		clone.ValidationHistory[i] = result
		clone.ValidationHistory[i].Checks = append([]CheckResult(nil), result.Checks...)
	}
	clone.AssignedStudentIDs = append([]string(nil), p.AssignedStudentIDs...)
	return &clone
}

// LessonPlanFilter constrains listing queries.
type LessonPlanFilter struct {
	TeacherID string
	Status    []LessonPlanStatus
}

// Consistent reports whether the pass flags agree with the issues: a check
// passes iff it has no error, and the result passes iff every check does.
func (r ValidationResult) Consistent() bool {
	all := true
	for _, check := range r.Checks {
		hasError := false
		for _, issue := range check.Issues {
			if issue.Severity == SeverityError {
				hasError = true
				break
			}
		}
		if check.Passed == hasError {
			return false
		}
		all = all && check.Passed
	}
	return r.Passed == all
}
