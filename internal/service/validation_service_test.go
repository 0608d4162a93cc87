package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/lesson-studio-api/internal/models"
	appErrors "github.com/noah-isme/lesson-studio-api/pkg/errors"
)

func TestRunFullValidationPassingPlan(t *testing.T) {
	result := RunFullValidation(passingPlan())

	require.True(t, result.Passed)
	require.Len(t, result.Checks, 4)
	assert.Equal(t, []models.ValidationCheckType{
		models.CheckGrammar,
		models.CheckVocabCompleteness,
		models.CheckTimestampAlignment,
		models.CheckLevelAppropriateness,
	}, []models.ValidationCheckType{result.Checks[0].Type, result.Checks[1].Type, result.Checks[2].Type, result.Checks[3].Type})
	for _, check := range result.Checks {
		assert.True(t, check.Passed, check.Type)
		assert.Empty(t, check.Issues, check.Type)
		assert.NotNil(t, check.Issues)
	}
	assert.False(t, result.Timestamp.IsZero())
}

func TestGrammarMissingPunctuationOnlyWarns(t *testing.T) {
	plan := passingPlan()
	plan.TextContent = "Hi there"
	plan.VocabItems = nil

	result := RunFullValidation(plan)
	grammar := checkOf(result, models.CheckGrammar)

	require.Len(t, grammar.Issues, 1)
	assert.Equal(t, models.SeverityWarning, grammar.Issues[0].Severity)
	assert.Equal(t, "Text content does not end with punctuation.", grammar.Issues[0].Message)
	assert.Equal(t, "textContent", grammar.Issues[0].Field)
	assert.True(t, grammar.Passed)
}

func TestGrammarRules(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		severity []models.ValidationSeverity
	}{
		{name: "odd double quotes", text: `He said "hi.`, severity: []models.ValidationSeverity{models.SeverityError}},
		{name: "odd single quotes", text: "It's fine.", severity: []models.ValidationSeverity{models.SeverityWarning}},
		{name: "double space", text: "Go  home.", severity: []models.ValidationSeverity{models.SeverityWarning}},
		{name: "chinese terminator", text: "我喜歡蘋果。", severity: nil},
		{name: "trailing spaces still count as double space", text: "Done!   ", severity: []models.ValidationSeverity{models.SeverityWarning}},
		{name: "empty text", text: "", severity: nil},
		{name: "single trailing space", text: "Done! ", severity: nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plan := passingPlan()
			plan.TextContent = tc.text
			issues := checkGrammar(plan)
			got := make([]models.ValidationSeverity, len(issues))
			for i, issue := range issues {
				got[i] = issue.Severity
			}
			if tc.severity == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.severity, got)
		})
	}
}

func TestGrammarFlagsMissingDefinitions(t *testing.T) {
	plan := passingPlan()
	plan.VocabItems[2].Definition = "  "

	issues := checkGrammar(plan)
	require.Len(t, issues, 1)
	assert.Equal(t, models.SeverityError, issues[0].Severity)
	assert.Equal(t, `Vocab item "dog" is missing a definition.`, issues[0].Message)
	assert.Equal(t, "vocabItems.v3.definition", issues[0].Field)
}

func TestVocabCompletenessTooFew(t *testing.T) {
	plan := passingPlan()
	plan.VocabItems = plan.VocabItems[:2]

	result := RunFullValidation(plan)
	check := checkOf(result, models.CheckVocabCompleteness)

	require.False(t, check.Passed)
	require.False(t, result.Passed)
	errs := 0
	for _, issue := range check.Issues {
		if issue.Severity == models.SeverityError {
			errs++
			assert.Equal(t, "Too few vocab items: 2 (minimum 5 for level 1).", issue.Message)
			assert.Equal(t, "vocabItems", issue.Field)
		}
	}
	assert.Equal(t, 1, errs)
}

func TestVocabCompletenessRules(t *testing.T) {
	plan := passingPlan()
	plan.VocabItems = fixtureVocab("apple", "cat", "dog", "book", "sun", "tree", "fish", "milk", "egg", "rice", "bread")
	plan.VocabItems[0].ExampleSentence = ""
	plan.VocabItems[1].Word = "CAT"

	issues := checkVocabCompleteness(plan)
	messages := make([]string, 0, len(issues))
	for _, issue := range issues {
		messages = append(messages, issue.Message)
	}

	assert.Contains(t, messages, "Too many vocab items: 11 (maximum 10 for level 1).")
	assert.Contains(t, messages, `Vocab item "apple" is missing an example sentence.`)
	assert.Contains(t, messages, `Vocab word "tree" does not appear in the text content.`)
	assert.NotContains(t, messages, `Vocab word "CAT" does not appear in the text content.`)
	for _, issue := range issues {
		if strings.HasPrefix(issue.Message, "Too many") {
			assert.Equal(t, models.SeverityWarning, issue.Severity)
		}
	}
}

func TestTimestampAlignmentWithoutVideo(t *testing.T) {
	plan := passingPlan()
	plan.VideoContent = nil

	issues := checkTimestampAlignment(plan)
	assert.NotNil(t, issues)
	assert.Empty(t, issues)
}

func TestTimestampAlignmentOverlap(t *testing.T) {
	plan := passingPlan()
	plan.VocabItems = nil
	plan.VideoContent = &models.VideoContent{
		VideoURL: "https://cdn.test/lesson.mp4",
		Duration: 60,
		TimedItems: []models.TimedContentItem{
			{ID: "t1", Type: models.TimedItemPassage, Timestamp: models.VideoTimestamp{StartTime: 0, EndTime: 10}},
			{ID: "t2", Type: models.TimedItemPassage, Timestamp: models.VideoTimestamp{StartTime: 5, EndTime: 15}},
		},
	}

	result := RunFullValidation(plan)
	check := checkOf(result, models.CheckTimestampAlignment)

	require.False(t, check.Passed)
	require.Len(t, check.Issues, 1)
	assert.Equal(t, models.SeverityError, check.Issues[0].Severity)
	assert.Equal(t, `Timed items "t1" and "t2" have overlapping timestamps.`, check.Issues[0].Message)
	assert.Equal(t, "videoContent.timedItems", check.Issues[0].Field)
}

func TestTimestampAlignmentBoundsAndCoverage(t *testing.T) {
	plan := passingPlan()
	plan.VocabItems = plan.VocabItems[:3]
	plan.VideoContent = &models.VideoContent{
		Duration: 30,
		TimedItems: []models.TimedContentItem{
			{ID: "late", Type: models.TimedItemVocab, VocabItemID: "v1", Timestamp: models.VideoTimestamp{StartTime: 20, EndTime: 32.5}},
			{ID: "neg", Type: models.TimedItemVocab, VocabItemID: "v2", Timestamp: models.VideoTimestamp{StartTime: -1, EndTime: 2}},
			{ID: "flat", Type: models.TimedItemPassage, VocabItemID: "v3", Timestamp: models.VideoTimestamp{StartTime: 5, EndTime: 5}},
			{ID: "touch", Type: models.TimedItemPassage, Timestamp: models.VideoTimestamp{StartTime: 2, EndTime: 5}},
		},
	}

	issues := checkTimestampAlignment(plan)
	messages := make(map[string]models.ValidationSeverity, len(issues))
	for _, issue := range issues {
		messages[issue.Message] = issue.Severity
	}

	assert.Equal(t, models.SeverityError, messages[`Timed item "late" end time (32.5s) exceeds video duration (30s).`])
	assert.Equal(t, models.SeverityError, messages[`Timed item "neg" has a negative start time.`])
	assert.Equal(t, models.SeverityError, messages[`Timed item "flat" has start time >= end time.`])
	assert.Equal(t, models.SeverityWarning, messages[`Vocab item "dog" does not have a timed timestamp in the video.`])
	assert.NotContains(t, messages, `Vocab item "apple" does not have a timed timestamp in the video.`)
	for msg := range messages {
		assert.NotContains(t, msg, "overlapping")
	}
}

func TestLevelAppropriateness(t *testing.T) {
	plan := passingPlan()
	plan.TextContent = "This sentence clearly has many more than eight words in it today! Short one."
	plan.VocabItems[0].Level = 2
	plan.TargetLevel = 1

	issues := checkLevelAppropriateness(plan)
	require.Len(t, issues, 2)
	assert.Equal(t, `Sentence has 12 words, exceeding max 8 for level 1: "This sentence clearly has many more than eight wor..."`, issues[0].Message)
	assert.Equal(t, "textContent", issues[0].Field)
	assert.Equal(t, `Vocab "apple" is level 2, which may not be appropriate for plan level 1.`, issues[1].Message)
	assert.Equal(t, "vocabItems.v1.level", issues[1].Field)
	for _, issue := range issues {
		assert.Equal(t, models.SeverityWarning, issue.Severity)
	}
}

func TestRunFullValidationIsIdempotent(t *testing.T) {
	plan := passingPlan()
	plan.TextContent = `Hi  "there`
	plan.VocabItems = plan.VocabItems[:1]
	before := plan.Clone()

	first := RunFullValidation(plan)
	second := RunFullValidation(plan)

	assert.Equal(t, first.Passed, second.Passed)
	assert.Equal(t, first.Checks, second.Checks)
	assert.Equal(t, before.TextContent, plan.TextContent)
	assert.Equal(t, before.VocabItems, plan.VocabItems)
	assert.Empty(t, plan.ValidationHistory)
}

func TestCheckPassedMatchesErrorPresence(t *testing.T) {
	plan := passingPlan()
	plan.TextContent = "unfinished  'text"
	plan.VocabItems[0].Level = 4
	result := RunFullValidation(plan)

	for _, check := range result.Checks {
		hasError := false
		for _, issue := range check.Issues {
			if issue.Severity == models.SeverityError {
				hasError = true
			}
			assert.Equal(t, check.Type, issue.Check)
		}
		assert.Equal(t, !hasError, check.Passed, check.Type)
	}
	assert.True(t, checkOf(result, models.CheckGrammar).Passed)
	assert.True(t, checkOf(result, models.CheckLevelAppropriateness).Passed)
	assert.NotEmpty(t, issuesOf(result, models.CheckLevelAppropriateness))
}

type validationRecorderStub struct {
	plan     *models.LessonPlan
	recorded []models.ValidationResult
	getErr   error
}

func (s *validationRecorderStub) RecordValidation(ctx context.Context, id string, check func(plan *models.LessonPlan) models.ValidationResult) (*models.ValidationResult, *models.LessonPlan, error) {
	if s.getErr != nil {
		return nil, nil, s.getErr
	}
	updated := s.plan.Clone()
	result := check(updated)
	s.recorded = append(s.recorded, result)
	updated.ValidationHistory = append(updated.ValidationHistory, result)
	return &result, updated, nil
}

func TestValidationServiceValidateRecordsResult(t *testing.T) {
	stub := &validationRecorderStub{plan: passingPlan()}
	metrics := NewMetricsService()
	svc := NewValidationService(stub, metrics, zap.NewNop())

	result, plan, err := svc.Validate(context.Background(), "plan-1")
	require.NoError(t, err)
	require.True(t, result.Passed)
	require.Len(t, stub.recorded, 1)
	assert.Equal(t, *result, stub.recorded[0])
	require.NotNil(t, plan.LatestValidation())
	assert.True(t, plan.LatestValidation().Passed)
	assert.Equal(t, uint64(1), metrics.Snapshot().ValidationsTotal)
}

func TestValidationServiceValidatePropagatesNotFound(t *testing.T) {
	stub := &validationRecorderStub{getErr: appErrors.Clone(appErrors.ErrNotFound, "missing")}
	svc := NewValidationService(stub, nil, nil)

	_, _, err := svc.Validate(context.Background(), "missing")
	require.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Empty(t, stub.recorded)
	assert.NotErrorIs(t, err, sql.ErrNoRows)
}
