package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/lesson-studio-api/internal/models"
)

func writePlan(t *testing.T, plan models.LessonPlan) string {
	t.Helper()
	raw, err := json.Marshal(plan)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}

func samplePlan() models.LessonPlan {
	words := []string{"apple", "cat", "dog", "book", "sun"}
	vocab := make([]models.VocabItem, len(words))
	for i, word := range words {
		vocab[i] = models.VocabItem{
			ID:              word,
			Word:            word,
			Definition:      "meaning of " + word,
			PartOfSpeech:    "noun",
			ExampleSentence: "I see the " + word + ".",
			Level:           1,
		}
	}
	return models.LessonPlan{
		ID:              "plan-cli",
		Title:           "Everyday things",
		TextContent:     "I eat an apple. The cat is red. A dog runs fast. We read a book. The sun is hot.",
		TargetLanguage:  models.LanguageEnglish,
		TargetLevel:     1,
		TargetFramework: models.FrameworkGEPT,
		VocabItems:      vocab,
	}
}

func run(args ...string) (string, error) {
	cmd := newRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateCommandPasses(t *testing.T) {
	out, err := run("validate", writePlan(t, samplePlan()))
	require.NoError(t, err)
	assert.Contains(t, out, "PASS grammar")
	assert.Contains(t, out, "plan passed validation")
}

func TestValidateCommandFailsWithExitError(t *testing.T) {
	plan := samplePlan()
	plan.TextContent = ""
	out, err := run("validate", "--output", "json", writePlan(t, plan))
	require.ErrorIs(t, err, errValidationFailed)

	var result models.ValidationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.Passed)
	assert.True(t, result.Consistent())
}

func TestValidateCommandYAML(t *testing.T) {
	out, err := run("validate", "-o", "yaml", writePlan(t, samplePlan()))
	require.NoError(t, err)

	var result models.ValidationResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &result))
	assert.True(t, result.Passed)
	assert.Len(t, result.Checks, 4)
}

func TestValidateCommandRejectsBadInput(t *testing.T) {
	_, err := run("validate", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, errValidationFailed)

	_, err = run("validate", "--output", "xml", writePlan(t, samplePlan()))
	require.Error(t, err)
}

func TestValidateCommandRejectsUnknownTarget(t *testing.T) {
	cases := map[string]func(plan *models.LessonPlan){
		"missing framework": func(plan *models.LessonPlan) { plan.TargetFramework = "" },
		"unknown framework": func(plan *models.LessonPlan) { plan.TargetFramework = "IELTS" },
		"missing level":     func(plan *models.LessonPlan) { plan.TargetLevel = 0 },
		"level too high":    func(plan *models.LessonPlan) { plan.TargetLevel = 9 },
		"unknown language":  func(plan *models.LessonPlan) { plan.TargetLanguage = "fr" },
	}
	for name, edit := range cases {
		t.Run(name, func(t *testing.T) {
			plan := samplePlan()
			edit(&plan)
			out, err := run("validate", writePlan(t, plan))
			require.Error(t, err)
			assert.NotErrorIs(t, err, errValidationFailed)
			assert.NotContains(t, out, "plan passed validation")
		})
	}
}

func TestLevelsCommand(t *testing.T) {
	out, err := run("levels", "tocfl")
	require.NoError(t, err)
	assert.Contains(t, out, "TOCFL Band A (Level 1)")
	assert.Contains(t, out, "MAX WORDS")

	out, err = run("levels", "gept", "-o", "yaml")
	require.NoError(t, err)
	var rows []map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 6)
	assert.Equal(t, "GEPT Basic", rows[0]["label"])
	assert.Equal(t, 1, rows[0]["level"])

	_, err = run("levels", "ielts")
	require.Error(t, err)
}
