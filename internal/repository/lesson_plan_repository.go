package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/lesson-studio-api/internal/models"
)

const lessonPlanColumns = `id, teacher_id, status, title, text_content, target_language, target_level,
       target_framework, vocab_items, video_content, validation_history, revision_count,
       assigned_student_ids, source_type, source_data, created_at, updated_at`

// lessonPlanRow is the storage shape of a lesson plan; structured fields live in JSONB columns.
type lessonPlanRow struct {
	ID                 string         `db:"id"`
	TeacherID          string         `db:"teacher_id"`
	Status             string         `db:"status"`
	Title              string         `db:"title"`
	TextContent        string         `db:"text_content"`
	TargetLanguage     string         `db:"target_language"`
	TargetLevel        int            `db:"target_level"`
	TargetFramework    string         `db:"target_framework"`
	VocabItems         []byte         `db:"vocab_items"`
	VideoContent       []byte         `db:"video_content"`
	ValidationHistory  []byte         `db:"validation_history"`
	RevisionCount      int            `db:"revision_count"`
	AssignedStudentIDs pq.StringArray `db:"assigned_student_ids"`
	SourceType         sql.NullString `db:"source_type"`
	SourceData         sql.NullString `db:"source_data"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

func newLessonPlanRow(plan *models.LessonPlan) (*lessonPlanRow, error) {
	vocab, err := json.Marshal(nonNilVocab(plan.VocabItems))
	if err != nil {
		return nil, fmt.Errorf("encode vocab items: %w", err)
	}
	var video []byte
	if plan.VideoContent != nil {
		if video, err = json.Marshal(plan.VideoContent); err != nil {
			return nil, fmt.Errorf("encode video content: %w", err)
		}
	}
	history := plan.ValidationHistory
	if history == nil {
		history = []models.ValidationResult{}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return nil, fmt.Errorf("encode validation history: %w", err)
	}
	students := pq.StringArray(plan.AssignedStudentIDs)
	if students == nil {
		students = pq.StringArray{}
	}
	return &lessonPlanRow{
		ID:                 plan.ID,
		TeacherID:          plan.TeacherID,
		Status:             string(plan.Status),
		Title:              plan.Title,
		TextContent:        plan.TextContent,
		TargetLanguage:     string(plan.TargetLanguage),
		TargetLevel:        int(plan.TargetLevel),
		TargetFramework:    string(plan.TargetFramework),
		VocabItems:         vocab,
		VideoContent:       video,
		ValidationHistory:  historyJSON,
		RevisionCount:      plan.RevisionCount,
		AssignedStudentIDs: students,
		SourceType:         sql.NullString{String: string(plan.SourceType), Valid: plan.SourceType != ""},
		SourceData:         sql.NullString{String: plan.SourceData, Valid: plan.SourceData != ""},
		CreatedAt:          plan.CreatedAt,
		UpdatedAt:          plan.UpdatedAt,
	}, nil
}

func (r *lessonPlanRow) toModel() (*models.LessonPlan, error) {
	plan := &models.LessonPlan{
		ID:                 r.ID,
		TeacherID:          r.TeacherID,
		Status:             models.LessonPlanStatus(r.Status),
		Title:              r.Title,
		TextContent:        r.TextContent,
		TargetLanguage:     models.LanguageTrack(r.TargetLanguage),
		TargetLevel:        models.LevelNumber(r.TargetLevel),
		TargetFramework:    models.Framework(r.TargetFramework),
		RevisionCount:      r.RevisionCount,
		AssignedStudentIDs: []string(r.AssignedStudentIDs),
		SourceType:         models.SourceType(r.SourceType.String),
		SourceData:         r.SourceData.String,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
	if len(r.VocabItems) > 0 {
		if err := json.Unmarshal(r.VocabItems, &plan.VocabItems); err != nil {
			return nil, fmt.Errorf("decode vocab items of %s: %w", r.ID, err)
		}
	}
	if len(r.VideoContent) > 0 && string(r.VideoContent) != "null" {
		plan.VideoContent = &models.VideoContent{}
		if err := json.Unmarshal(r.VideoContent, plan.VideoContent); err != nil {
			return nil, fmt.Errorf("decode video content of %s: %w", r.ID, err)
		}
	}
	if len(r.ValidationHistory) > 0 {
		if err := json.Unmarshal(r.ValidationHistory, &plan.ValidationHistory); err != nil {
			return nil, fmt.Errorf("decode validation history of %s: %w", r.ID, err)
		}
	}
	if plan.VocabItems == nil {
		plan.VocabItems = []models.VocabItem{}
	}
	if plan.ValidationHistory == nil {
		plan.ValidationHistory = []models.ValidationResult{}
	}
	if plan.AssignedStudentIDs == nil {
		plan.AssignedStudentIDs = []string{}
	}
	return plan, nil
}

// LessonPlanRepository persists lesson plans in PostgreSQL.
type LessonPlanRepository struct {
	db *sqlx.DB
}

// NewLessonPlanRepository constructs the repository.
func NewLessonPlanRepository(db *sqlx.DB) *LessonPlanRepository {
	return &LessonPlanRepository{db: db}
}

// List returns plans matching the filter, newest first.
func (r *LessonPlanRepository) List(ctx context.Context, filter models.LessonPlanFilter) ([]models.LessonPlan, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 4)
	builder.WriteString("SELECT ")
	builder.WriteString(lessonPlanColumns)
	builder.WriteString(" FROM lesson_plans")

	conditions := make([]string, 0, 2)
	if filter.TeacherID != "" {
		args = append(args, filter.TeacherID)
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)))
	}
	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			args = append(args, string(status))
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY updated_at DESC")

	var rows []lessonPlanRow
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list lesson plans: %w", err)
	}
	plans := make([]models.LessonPlan, 0, len(rows))
	for i := range rows {
		plan, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}
	return plans, nil
}

// GetByID fetches a plan, returning sql.ErrNoRows when absent.
func (r *LessonPlanRepository) GetByID(ctx context.Context, id string) (*models.LessonPlan, error) {
	query := "SELECT " + lessonPlanColumns + " FROM lesson_plans WHERE id = $1"
	var row lessonPlanRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	return row.toModel()
}

const upsertLessonPlanQuery = `INSERT INTO lesson_plans
	(id, teacher_id, status, title, text_content, target_language, target_level, target_framework,
	 vocab_items, video_content, validation_history, revision_count, assigned_student_ids,
	 source_type, source_data, created_at, updated_at)
	VALUES (:id, :teacher_id, :status, :title, :text_content, :target_language, :target_level, :target_framework,
	 :vocab_items, :video_content, :validation_history, :revision_count, :assigned_student_ids,
	 :source_type, :source_data, :created_at, :updated_at)
	ON CONFLICT (id) DO UPDATE SET
	 status = EXCLUDED.status,
	 title = EXCLUDED.title,
	 text_content = EXCLUDED.text_content,
	 target_language = EXCLUDED.target_language,
	 target_level = EXCLUDED.target_level,
	 target_framework = EXCLUDED.target_framework,
	 vocab_items = EXCLUDED.vocab_items,
	 video_content = EXCLUDED.video_content,
	 validation_history = EXCLUDED.validation_history,
	 revision_count = EXCLUDED.revision_count,
	 assigned_student_ids = EXCLUDED.assigned_student_ids,
	 source_type = EXCLUDED.source_type,
	 source_data = EXCLUDED.source_data,
	 updated_at = EXCLUDED.updated_at`

// Save inserts the plan or replaces the stored copy.
func (r *LessonPlanRepository) Save(ctx context.Context, plan *models.LessonPlan) error {
	row, err := newLessonPlanRow(plan)
	if err != nil {
		return err
	}
	if _, err := r.db.NamedExecContext(ctx, upsertLessonPlanQuery, row); err != nil {
		return fmt.Errorf("save lesson plan: %w", err)
	}
	return nil
}

// SaveAssignment inserts the content items and upserts the plan in one transaction.
func (r *LessonPlanRepository) SaveAssignment(ctx context.Context, plan *models.LessonPlan, items []models.ContentItem) error {
	row, err := newLessonPlanRow(plan)
	if err != nil {
		return err
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin assignment tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := insertContentItems(ctx, tx, items); err != nil {
		return err
	}
	if _, err := tx.NamedExecContext(ctx, upsertLessonPlanQuery, row); err != nil {
		return fmt.Errorf("save assigned lesson plan: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit assignment tx: %w", err)
	}
	return nil
}

// Delete removes a plan, returning sql.ErrNoRows when nothing was deleted.
func (r *LessonPlanRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM lesson_plans WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete lesson plan: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check lesson plan delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func nonNilVocab(items []models.VocabItem) []models.VocabItem {
	if items == nil {
		return []models.VocabItem{}
	}
	return items
}
