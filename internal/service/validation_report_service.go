package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/lesson-studio-api/internal/dto"
	"github.com/noah-isme/lesson-studio-api/internal/models"
	appErrors "github.com/noah-isme/lesson-studio-api/pkg/errors"
	"github.com/noah-isme/lesson-studio-api/pkg/export"
)

var reportHeaders = []string{"check", "passed", "severity", "field", "message"}

type documentRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

// ReportFile is a rendered review report.
type ReportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ValidationReportService renders the latest validation of a plan for printing.
type ValidationReportService struct {
	csv    documentRenderer
	pdf    documentRenderer
	logger *zap.Logger
}

// NewValidationReportService constructs the service. Nil renderers use the defaults.
func NewValidationReportService(csv, pdf documentRenderer, logger *zap.Logger) *ValidationReportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		exporter := export.NewPDFExporter()
		exporter.Widths = map[string]float64{"check": 1.6, "passed": 0.8, "severity": 1, "field": 2, "message": 4.6}
		pdf = exporter
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ValidationReportService{csv: csv, pdf: pdf, logger: logger}
}

// Render builds the report of the plan's latest validation in the requested format.
func (s *ValidationReportService) Render(_ context.Context, plan *models.LessonPlan, format dto.ReportFormat) (*ReportFile, error) {
	latest := plan.LatestValidation()
	if latest == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Lesson plan %q has no validation results.", plan.ID))
	}
	doc := buildReportDocument(plan, latest)

	var (
		data        []byte
		err         error
		contentType string
	)
	switch format {
	case dto.ReportFormatCSV, "":
		format = dto.ReportFormatCSV
		data, err = s.csv.Render(doc)
		contentType = "text/csv"
	case dto.ReportFormatPDF:
		data, err = s.pdf.Render(doc)
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported report format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}
	s.logger.Debug("validation report rendered", zap.String("plan_id", plan.ID), zap.String("format", string(format)))
	return &ReportFile{
		Filename:    fmt.Sprintf("lesson-plan-%s-validation.%s", plan.ID, format),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func buildReportDocument(plan *models.LessonPlan, result *models.ValidationResult) export.Document {
	outcome := "failed"
	if result.Passed {
		outcome = "passed"
	}
	rows := make([]map[string]string, 0, len(result.Checks))
	for _, check := range result.Checks {
		passed := strconv.FormatBool(check.Passed)
		if len(check.Issues) == 0 {
			rows = append(rows, map[string]string{"check": string(check.Type), "passed": passed})
			continue
		}
		for _, issue := range check.Issues {
			rows = append(rows, map[string]string{
				"check":    string(check.Type),
				"passed":   passed,
				"severity": string(issue.Severity),
				"field":    issue.Field,
				"message":  issue.Message,
			})
		}
	}
	return export.Document{
		Title: "Lesson plan validation report",
		Summary: [][2]string{
			{"Plan", plan.Title},
			{"Plan ID", plan.ID},
			{"Status", string(plan.Status)},
			{"Level", fmt.Sprintf("%s %d", plan.TargetFramework, plan.TargetLevel)},
			{"Result", outcome},
			{"Validated at", result.Timestamp.UTC().Format(time.RFC3339)},
			{"Revisions", strconv.Itoa(plan.RevisionCount)},
		},
		Data: export.Dataset{Headers: reportHeaders, Rows: rows},
	}
}
