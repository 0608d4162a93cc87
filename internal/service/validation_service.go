package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/noah-isme/lesson-studio-api/internal/models"
)

const sentencePreviewRunes = 50

var sentenceTerminators = regexp.MustCompile(`[.!?。！？]+`)

type validationCheck struct {
	kind models.ValidationCheckType
	run  func(plan *models.LessonPlan) []models.ValidationIssue
}

// validationChecks is evaluated in order; review clients rely on the positions.
var validationChecks = []validationCheck{
	{kind: models.CheckGrammar, run: checkGrammar},
	{kind: models.CheckVocabCompleteness, run: checkVocabCompleteness},
	{kind: models.CheckTimestampAlignment, run: checkTimestampAlignment},
	{kind: models.CheckLevelAppropriateness, run: checkLevelAppropriateness},
}

// RunFullValidation evaluates every check against the plan. The plan is only read.
func RunFullValidation(plan *models.LessonPlan) models.ValidationResult {
	return runValidationAt(plan, time.Now().UTC())
}

func runValidationAt(plan *models.LessonPlan, now time.Time) models.ValidationResult {
	checks := make([]models.CheckResult, 0, len(validationChecks))
	for _, check := range validationChecks {
		issues := check.run(plan)
		if issues == nil {
			issues = []models.ValidationIssue{}
		}
		checks = append(checks, models.CheckResult{
			Type: check.kind,
			Passed: !lo.SomeBy(issues, func(issue models.ValidationIssue) bool {
				return issue.Severity == models.SeverityError
			}),
			Issues: issues,
		})
	}
	return models.ValidationResult{
		Passed:    lo.EveryBy(checks, func(c models.CheckResult) bool { return c.Passed }),
		Timestamp: now,
		Checks:    checks,
	}
}

func newIssue(check models.ValidationCheckType, severity models.ValidationSeverity, field, format string, args ...interface{}) models.ValidationIssue {
	return models.ValidationIssue{
		Check:    check,
		Severity: severity,
		Message:  fmt.Sprintf(format, args...),
		Field:    field,
	}
}

func checkGrammar(plan *models.LessonPlan) []models.ValidationIssue {
	var issues []models.ValidationIssue
	text := plan.TextContent

	if strings.Count(text, `"`)%2 != 0 {
		issues = append(issues, newIssue(models.CheckGrammar, models.SeverityError, "textContent",
			"Unclosed double quotes detected in text content."))
	}
	if strings.Count(text, "'")%2 != 0 {
		issues = append(issues, newIssue(models.CheckGrammar, models.SeverityWarning, "textContent",
			"Possible unclosed single quotes in text content."))
	}
	if strings.Contains(text, "  ") {
		issues = append(issues, newIssue(models.CheckGrammar, models.SeverityWarning, "textContent",
			"Double spaces detected in text content."))
	}
	for _, item := range plan.VocabItems {
		if strings.TrimSpace(item.Definition) == "" {
			issues = append(issues, newIssue(models.CheckGrammar, models.SeverityError,
				"vocabItems."+item.ID+".definition",
				"Vocab item \"%s\" is missing a definition.", item.Word))
		}
	}
	if trimmed := strings.TrimSpace(text); trimmed != "" && !endsWithTerminator(trimmed) {
		issues = append(issues, newIssue(models.CheckGrammar, models.SeverityWarning, "textContent",
			"Text content does not end with punctuation."))
	}
	return issues
}

func endsWithTerminator(text string) bool {
	runes := []rune(text)
	return strings.ContainsRune(".!?。！？", runes[len(runes)-1])
}

func checkVocabCompleteness(plan *models.LessonPlan) []models.ValidationIssue {
	var issues []models.ValidationIssue
	target := models.VocabTargetForLevel(plan.TargetFramework, plan.TargetLevel)
	count := len(plan.VocabItems)

	if count < target.Min {
		issues = append(issues, newIssue(models.CheckVocabCompleteness, models.SeverityError, "vocabItems",
			"Too few vocab items: %d (minimum %d for level %d).", count, target.Min, plan.TargetLevel))
	}
	if count > target.Max {
		issues = append(issues, newIssue(models.CheckVocabCompleteness, models.SeverityWarning, "vocabItems",
			"Too many vocab items: %d (maximum %d for level %d).", count, target.Max, plan.TargetLevel))
	}
	for _, item := range plan.VocabItems {
		if strings.TrimSpace(item.ExampleSentence) == "" {
			issues = append(issues, newIssue(models.CheckVocabCompleteness, models.SeverityError,
				"vocabItems."+item.ID+".exampleSentence",
				"Vocab item \"%s\" is missing an example sentence.", item.Word))
		}
	}
	text := strings.ToLower(plan.TextContent)
	for _, item := range plan.VocabItems {
		if !strings.Contains(text, strings.ToLower(item.Word)) {
			issues = append(issues, newIssue(models.CheckVocabCompleteness, models.SeverityWarning,
				"vocabItems."+item.ID+".word",
				"Vocab word \"%s\" does not appear in the text content.", item.Word))
		}
	}
	return issues
}

func checkTimestampAlignment(plan *models.LessonPlan) []models.ValidationIssue {
	if plan.VideoContent == nil {
		return []models.ValidationIssue{}
	}

	var issues []models.ValidationIssue
	video := plan.VideoContent
	for _, item := range video.TimedItems {
		field := "videoContent.timedItems." + item.ID
		if item.Timestamp.StartTime < 0 {
			issues = append(issues, newIssue(models.CheckTimestampAlignment, models.SeverityError, field,
				"Timed item \"%s\" has a negative start time.", item.ID))
		}
		if item.Timestamp.EndTime > video.Duration {
			issues = append(issues, newIssue(models.CheckTimestampAlignment, models.SeverityError, field,
				"Timed item \"%s\" end time (%ss) exceeds video duration (%ss).",
				item.ID, formatSeconds(item.Timestamp.EndTime), formatSeconds(video.Duration)))
		}
		if item.Timestamp.StartTime >= item.Timestamp.EndTime {
			issues = append(issues, newIssue(models.CheckTimestampAlignment, models.SeverityError, field,
				"Timed item \"%s\" has start time >= end time.", item.ID))
		}
	}

	sorted := append([]models.TimedContentItem(nil), video.TimedItems...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.StartTime < sorted[j].Timestamp.StartTime
	})
	for i := 0; i+1 < len(sorted); i++ {
		if sorted[i].Timestamp.EndTime > sorted[i+1].Timestamp.StartTime {
			issues = append(issues, newIssue(models.CheckTimestampAlignment, models.SeverityError, "videoContent.timedItems",
				"Timed items \"%s\" and \"%s\" have overlapping timestamps.", sorted[i].ID, sorted[i+1].ID))
		}
	}

	timedVocab := make(map[string]struct{})
	for _, item := range video.TimedItems {
		if item.Type == models.TimedItemVocab && item.VocabItemID != "" {
			timedVocab[item.VocabItemID] = struct{}{}
		}
	}
	for _, vocab := range plan.VocabItems {
		if _, ok := timedVocab[vocab.ID]; !ok {
			issues = append(issues, newIssue(models.CheckTimestampAlignment, models.SeverityWarning, "vocabItems."+vocab.ID,
				"Vocab item \"%s\" does not have a timed timestamp in the video.", vocab.Word))
		}
	}
	return issues
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func checkLevelAppropriateness(plan *models.LessonPlan) []models.ValidationIssue {
	var issues []models.ValidationIssue
	maxWords := models.SentenceComplexityForLevel(plan.TargetFramework, plan.TargetLevel)

	for _, sentence := range sentenceTerminators.Split(plan.TextContent, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		words := len(strings.Fields(sentence))
		if words > maxWords {
			issues = append(issues, newIssue(models.CheckLevelAppropriateness, models.SeverityWarning, "textContent",
				"Sentence has %d words, exceeding max %d for level %d: \"%s...\"",
				words, maxWords, plan.TargetLevel, previewSentence(sentence)))
		}
	}

	for _, item := range plan.VocabItems {
		if !models.IsLevelAppropriate(plan.TargetFramework, plan.TargetLevel, item.Level) {
			issues = append(issues, newIssue(models.CheckLevelAppropriateness, models.SeverityWarning,
				"vocabItems."+item.ID+".level",
				"Vocab \"%s\" is level %d, which may not be appropriate for plan level %d.",
				item.Word, item.Level, plan.TargetLevel))
		}
	}
	return issues
}

func previewSentence(sentence string) string {
	runes := []rune(sentence)
	if len(runes) <= sentencePreviewRunes {
		return sentence
	}
	return string(runes[:sentencePreviewRunes])
}

type validationRecorder interface {
	RecordValidation(ctx context.Context, id string, check func(plan *models.LessonPlan) models.ValidationResult) (*models.ValidationResult, *models.LessonPlan, error)
}

// ValidationService runs the pipeline for stored plans and records the outcome.
type ValidationService struct {
	plans   validationRecorder
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewValidationService constructs a ValidationService.
func NewValidationService(plans validationRecorder, metrics *MetricsService, logger *zap.Logger) *ValidationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ValidationService{
		plans:   plans,
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Validate runs every check on the stored plan and appends the result to its history.
func (s *ValidationService) Validate(ctx context.Context, planID string) (*models.ValidationResult, *models.LessonPlan, error) {
	result, updated, err := s.plans.RecordValidation(ctx, planID, func(plan *models.LessonPlan) models.ValidationResult {
		return runValidationAt(plan, s.now())
	})
	if err != nil {
		return nil, nil, err
	}
	s.metrics.RecordValidation(result.Passed)
	s.logger.Info("lesson plan validated",
		zap.String("plan_id", planID),
		zap.Bool("passed", result.Passed),
		zap.Int("issues", countIssues(*result)),
	)
	return result, updated, nil
}

func countIssues(result models.ValidationResult) int {
	return lo.SumBy(result.Checks, func(c models.CheckResult) int { return len(c.Issues) })
}
