package service

import (
	"fmt"
	"time"

	"github.com/noah-isme/lesson-studio-api/internal/models"
)

var fixtureNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func fixtureVocab(words ...string) []models.VocabItem {
	items := make([]models.VocabItem, len(words))
	for i, word := range words {
		items[i] = models.VocabItem{
			ID:              fmt.Sprintf("v%d", i+1),
			Word:            word,
			Definition:      "meaning of " + word,
			PartOfSpeech:    "noun",
			ExampleSentence: "I see the " + word + ".",
			Level:           1,
		}
	}
	return items
}

// passingPlan is a GEPT level 1 plan that clears every check.
func passingPlan() *models.LessonPlan {
	return &models.LessonPlan{
		ID:                 "plan-1",
		TeacherID:          "teacher-1",
		Status:             models.LessonPlanStatusDraft,
		CreatedAt:          fixtureNow,
		UpdatedAt:          fixtureNow,
		Title:              "Everyday things",
		TextContent:        "I eat an apple. The cat is red. A dog runs fast. We read a book. The sun is hot.",
		TargetLanguage:     models.LanguageEnglish,
		TargetLevel:        1,
		TargetFramework:    models.FrameworkGEPT,
		VocabItems:         fixtureVocab("apple", "cat", "dog", "book", "sun"),
		ValidationHistory:  []models.ValidationResult{},
		AssignedStudentIDs: []string{},
	}
}

func issuesOf(result models.ValidationResult, check models.ValidationCheckType) []models.ValidationIssue {
	for _, c := range result.Checks {
		if c.Type == check {
			return c.Issues
		}
	}
	return nil
}

func checkOf(result models.ValidationResult, check models.ValidationCheckType) models.CheckResult {
	for _, c := range result.Checks {
		if c.Type == check {
			return c
		}
	}
	return models.CheckResult{}
}
