package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/lesson-studio-api/internal/models"
	"github.com/noah-isme/lesson-studio-api/internal/service"
)

func newValidateCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "validate <plan.json>",
		Short: "Run the validation pipeline against a lesson plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}
			plan, err := readPlan(args[0])
			if err != nil {
				return err
			}
			result := service.RunFullValidation(plan)
			if err := writeResult(cmd.OutOrStdout(), format, plan, result); err != nil {
				return err
			}
			if !result.Passed {
				return errValidationFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", string(outputText), "output format: text, json or yaml")
	return cmd
}

func readPlan(path string) (*models.LessonPlan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	var plan models.LessonPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, fmt.Errorf("decode plan %s: %w", path, err)
	}
	if !plan.TargetFramework.Valid() {
		return nil, fmt.Errorf("plan %s: targetFramework %q is not one of %v", path, plan.TargetFramework, models.Frameworks)
	}
	if !plan.TargetLevel.Valid() {
		return nil, fmt.Errorf("plan %s: targetLevel %d is outside %d..%d", path, plan.TargetLevel, models.MinLevel, models.MaxLevel)
	}
	if !plan.TargetLanguage.Valid() {
		return nil, fmt.Errorf("plan %s: targetLanguage %q is not supported", path, plan.TargetLanguage)
	}
	return &plan, nil
}

func writeResult(w io.Writer, format outputFormat, plan *models.LessonPlan, result models.ValidationResult) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	}

	title := plan.Title
	if title == "" {
		title = plan.ID
	}
	color.New(color.Bold).Fprintf(w, "%s (%s level %d)\n", title, plan.TargetFramework, plan.TargetLevel)
	for _, check := range result.Checks {
		if check.Passed {
			color.New(color.FgGreen).Fprintf(w, "PASS %s\n", check.Type)
		} else {
			color.New(color.FgHiRed).Fprintf(w, "FAIL %s\n", check.Type)
		}
		for _, issue := range check.Issues {
			severityColor(issue.Severity).Fprintf(w, "  [%s] %s\n", issue.Severity, issue.Message)
		}
	}
	if result.Passed {
		color.New(color.FgGreen, color.Bold).Fprintln(w, "plan passed validation")
	} else {
		color.New(color.FgHiRed, color.Bold).Fprintln(w, "plan failed validation")
	}
	return nil
}

func severityColor(severity models.ValidationSeverity) *color.Color {
	switch severity {
	case models.SeverityError:
		return color.New(color.FgRed)
	case models.SeverityWarning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}
