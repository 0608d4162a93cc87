package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lesson-studio-api/internal/models"
)

type contentItemRow struct {
	ID                string         `db:"id"`
	AuthorID          string         `db:"author_id"`
	AssignedStudentID sql.NullString `db:"assigned_student_id"`
	Type              string         `db:"type"`
	Title             string         `db:"title"`
	Payload           []byte         `db:"payload"`
	LessonPlanID      sql.NullString `db:"lesson_plan_id"`
	CreatedAt         time.Time      `db:"created_at"`
}

func (r *contentItemRow) toModel() (models.ContentItem, error) {
	item := models.ContentItem{
		ID:                r.ID,
		AuthorID:          r.AuthorID,
		AssignedStudentID: r.AssignedStudentID.String,
		Type:              models.ContentType(r.Type),
		Title:             r.Title,
		LessonPlanID:      r.LessonPlanID.String,
		CreatedAt:         r.CreatedAt,
	}
	if err := item.SetPayloadJSON(r.Payload); err != nil {
		return models.ContentItem{}, fmt.Errorf("content %s: %w", r.ID, err)
	}
	return item, nil
}

// ContentRepository is the append-only content item store backed by PostgreSQL.
type ContentRepository struct {
	db *sqlx.DB
}

// NewContentRepository constructs the repository.
func NewContentRepository(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// Append inserts all items in one transaction.
func (r *ContentRepository) Append(ctx context.Context, items ...models.ContentItem) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin content tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := insertContentItems(ctx, tx, items); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit content tx: %w", err)
	}
	return nil
}

const insertContentItemQuery = `INSERT INTO content_items
	(id, author_id, assigned_student_id, type, title, payload, lesson_plan_id, created_at)
	VALUES (:id, :author_id, :assigned_student_id, :type, :title, :payload, :lesson_plan_id, :created_at)`

func insertContentItems(ctx context.Context, tx *sqlx.Tx, items []models.ContentItem) error {
	for _, item := range items {
		payload, err := item.PayloadJSON()
		if err != nil {
			return err
		}
		row := contentItemRow{
			ID:                item.ID,
			AuthorID:          item.AuthorID,
			AssignedStudentID: sql.NullString{String: item.AssignedStudentID, Valid: item.AssignedStudentID != ""},
			Type:              string(item.Type),
			Title:             item.Title,
			Payload:           payload,
			LessonPlanID:      sql.NullString{String: item.LessonPlanID, Valid: item.LessonPlanID != ""},
			CreatedAt:         item.CreatedAt,
		}
		if _, err := tx.NamedExecContext(ctx, insertContentItemQuery, row); err != nil {
			return fmt.Errorf("insert content item %s: %w", item.ID, err)
		}
	}
	return nil
}

// List returns content matching the filter in insertion order.
func (r *ContentRepository) List(ctx context.Context, filter models.ContentFilter) ([]models.ContentItem, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 3)
	builder.WriteString(`SELECT id, author_id, assigned_student_id, type, title, payload, lesson_plan_id, created_at
	FROM content_items`)
	conditions := make([]string, 0, 3)
	if filter.AssignedStudentID != "" {
		args = append(args, filter.AssignedStudentID)
		conditions = append(conditions, fmt.Sprintf("assigned_student_id = $%d", len(args)))
	}
	if filter.AuthorID != "" {
		args = append(args, filter.AuthorID)
		conditions = append(conditions, fmt.Sprintf("author_id = $%d", len(args)))
	}
	if filter.LessonPlanID != "" {
		args = append(args, filter.LessonPlanID)
		conditions = append(conditions, fmt.Sprintf("lesson_plan_id = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY created_at ASC, id ASC")

	var rows []contentItemRow
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list content items: %w", err)
	}
	items := make([]models.ContentItem, 0, len(rows))
	for i := range rows {
		item, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
