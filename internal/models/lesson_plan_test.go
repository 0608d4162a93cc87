package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionTableIsClosed(t *testing.T) {
	require.Len(t, ValidTransitions, len(LessonPlanStatuses))
	for from, targets := range ValidTransitions {
		for _, to := range targets {
			assert.True(t, to.Valid(), "%s -> %s", from, to)
			assert.True(t, from.CanTransitionTo(to))
		}
	}
	assert.Empty(t, LessonPlanStatusAssigned.AllowedTransitions())
	assert.False(t, LessonPlanStatusDraft.CanTransitionTo(LessonPlanStatusFinalized))
	assert.False(t, LessonPlanStatus("archived").Valid())
}

func TestFormatStatuses(t *testing.T) {
	assert.Equal(t, "none", FormatStatuses(nil))
	assert.Equal(t, "ai-generating, pending-review", FormatStatuses(LessonPlanStatusDraft.AllowedTransitions()))
}

func TestLessonPlanCloneIsDeep(t *testing.T) {
	plan := &LessonPlan{
		ID:                 "plan-1",
		VocabItems:         []VocabItem{{ID: "v1", Word: "apple"}},
		VideoContent:       &VideoContent{Duration: 60, TimedItems: []TimedContentItem{{ID: "t1"}}},
		ValidationHistory:  []ValidationResult{{Passed: true}},
		AssignedStudentIDs: []string{"s1"},
	}
	clone := plan.Clone()
	clone.VocabItems[0].Word = "pear"
	clone.VideoContent.TimedItems[0].ID = "t2"
	clone.AssignedStudentIDs[0] = "s2"
	clone.ValidationHistory[0].Passed = false

	assert.Equal(t, "apple", plan.VocabItems[0].Word)
	assert.Equal(t, "t1", plan.VideoContent.TimedItems[0].ID)
	assert.Equal(t, "s1", plan.AssignedStudentIDs[0])
	assert.True(t, plan.ValidationHistory[0].Passed)
}

func TestLatestValidation(t *testing.T) {
	plan := &LessonPlan{}
	assert.Nil(t, plan.LatestValidation())
	plan.ValidationHistory = []ValidationResult{{Passed: false}, {Passed: true}}
	require.NotNil(t, plan.LatestValidation())
	assert.True(t, plan.LatestValidation().Passed)
}
