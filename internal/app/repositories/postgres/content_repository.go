package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dinesh259/Free-Solutions/internal/app/models"
	"github.com/Dinesh259/Free-Solutions/internal/app/repositories"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/helpers"
)

var contentColumns = []string{
	"id", "class_level", "medium", "subject", "chapter_name", "exercise", "question_number",
	"question_description", "question_image", "video_id", "text_solution",
	"created_at", "updated_at",
}

// ContentRepository handles content database operations
type ContentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewContentRepository creates a new ContentRepository
func NewContentRepository(db *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanContent(row pgx.Row) (*models.Content, error) {
	var c models.Content
	var medium string
	var exercise *string
	err := row.Scan(
		&c.ID, &c.ClassLevel, &medium, &c.Subject, &c.ChapterName, &exercise, &c.QuestionNumber,
		&c.QuestionDescription, &c.ImageRef, &c.VideoID, &c.TextSolution,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Medium = models.Medium(medium)
	c.Exercise = exercise
	return &c, nil
}

func collectContents(rows pgx.Rows) ([]models.Content, error) {
	defer rows.Close()

	contents := make([]models.Content, 0)
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning content row: %w", err)
		}
		contents = append(contents, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating content rows: %w", err)
	}
	return contents, nil
}

// scopeWhere turns a curriculum filter into a where clause
func scopeWhere(f repositories.CurriculumFilter) squirrel.And {
	where := squirrel.And{
		squirrel.Eq{"class_level": f.ClassLevel},
		squirrel.Eq{"medium": string(f.Medium)},
		squirrel.Eq{"subject": f.Subject},
	}
	if f.ChapterName != "" {
		where = append(where, squirrel.Eq{"chapter_name": f.ChapterName})
	}
	if f.Exercise != nil {
		where = append(where, squirrel.Eq{"exercise": *f.Exercise})
	}
	return where
}

// Create inserts a new content record
func (r *ContentRepository) Create(ctx context.Context, content *models.Content) error {
	now := time.Now().UTC()
	id := uuid.New().String()

	sql, args, err := r.sb.Insert("contents").
		Columns(contentColumns...).
		Values(
			id, content.ClassLevel, string(content.Medium), content.Subject, content.ChapterName,
			helpers.NullableString(content.Exercise), content.QuestionNumber,
			content.QuestionDescription, content.ImageRef, content.VideoID, content.TextSolution,
			now, now,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create content query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error creating content: %w", err)
	}

	content.ID = id
	content.CreatedAt = now
	content.UpdatedAt = now
	return nil
}

// GetByID retrieves a content record by ID
func (r *ContentRepository) GetByID(ctx context.Context, id string) (*models.Content, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.ErrContentNotFound
	}

	sql, args, err := r.sb.Select(contentColumns...).
		From("contents").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get content query: %w", err)
	}

	content, err := scanContent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrContentNotFound
		}
		return nil, fmt.Errorf("error retrieving content: %w", err)
	}
	return content, nil
}

// Update replaces all editable fields of a content record
func (r *ContentRepository) Update(ctx context.Context, content *models.Content) error {
	if _, err := uuid.Parse(content.ID); err != nil {
		return apperrors.ErrContentNotFound
	}
	now := time.Now().UTC()

	sql, args, err := r.sb.Update("contents").
		SetMap(map[string]interface{}{
			"class_level":          content.ClassLevel,
			"medium":               string(content.Medium),
			"subject":              content.Subject,
			"chapter_name":         content.ChapterName,
			"exercise":             helpers.NullableString(content.Exercise),
			"question_number":      content.QuestionNumber,
			"question_description": content.QuestionDescription,
			"question_image":       content.ImageRef,
			"video_id":             content.VideoID,
			"text_solution":        content.TextSolution,
			"updated_at":           now,
		}).
		Where(squirrel.Eq{"id": content.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update content query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating content: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrContentNotFound
	}
	content.UpdatedAt = now
	return nil
}

// Delete removes a content record
func (r *ContentRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}

	sql, args, err := r.sb.Delete("contents").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete content query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting content: %w", err)
	}
	return nil
}

// ListRecent returns content ordered by update time, newest first
func (r *ContentRepository) ListRecent(ctx context.Context, offset uint64, limit int) ([]models.Content, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM contents`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting contents: %w", err)
	}

	qb := r.sb.Select(contentColumns...).
		From("contents").
		OrderBy("updated_at DESC", "id")
	if limit > 0 {
		qb = qb.Offset(offset).Limit(uint64(limit))
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list contents query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing contents: %w", err)
	}
	contents, err := collectContents(rows)
	if err != nil {
		return nil, 0, err
	}
	return contents, total, nil
}

func (r *ContentRepository) distinct(ctx context.Context, column string, where squirrel.Sqlizer) ([]string, error) {
	sql, args, err := r.sb.Select(column).
		Distinct().
		From("contents").
		Where(where).
		OrderBy(column).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build distinct %s query: %w", column, err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error selecting distinct %s: %w", column, err)
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("error collecting distinct %s: %w", column, err)
	}
	return values, nil
}

// DistinctChapters lists the chapters available for a class, medium and subject
func (r *ContentRepository) DistinctChapters(ctx context.Context, filter repositories.CurriculumFilter) ([]string, error) {
	filter.ChapterName = ""
	filter.Exercise = nil
	return r.distinct(ctx, "chapter_name", scopeWhere(filter))
}

// DistinctExercises lists the non-empty exercise labels of a chapter
func (r *ContentRepository) DistinctExercises(ctx context.Context, filter repositories.CurriculumFilter) ([]string, error) {
	filter.Exercise = nil
	where := append(scopeWhere(filter),
		squirrel.NotEq{"exercise": nil},
		squirrel.NotEq{"exercise": ""},
	)
	return r.distinct(ctx, "exercise", where)
}

// FindQuestions lists the questions matching a curriculum filter
func (r *ContentRepository) FindQuestions(ctx context.Context, filter repositories.CurriculumFilter) ([]models.Content, error) {
	sql, args, err := r.sb.Select(contentColumns...).
		From("contents").
		Where(scopeWhere(filter)).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find questions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error finding questions: %w", err)
	}
	return collectContents(rows)
}

// ListOutlines returns the medium, chapter and exercise of every record of a subject
func (r *ContentRepository) ListOutlines(ctx context.Context, subject string) ([]models.ContentOutline, error) {
	sql, args, err := r.sb.Select("medium", "chapter_name", "exercise").
		From("contents").
		Where(squirrel.Eq{"subject": subject}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list outlines query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing outlines: %w", err)
	}
	defer rows.Close()

	outlines := make([]models.ContentOutline, 0)
	for rows.Next() {
		var o models.ContentOutline
		var medium string
		if err := rows.Scan(&medium, &o.ChapterName, &o.Exercise); err != nil {
			return nil, fmt.Errorf("error scanning outline row: %w", err)
		}
		o.Medium = models.Medium(medium)
		outlines = append(outlines, o)
	}
	return outlines, rows.Err()
}

// FindByCoordinates returns records located at exactly the given coordinates
func (r *ContentRepository) FindByCoordinates(ctx context.Context, coords models.Coordinates) ([]models.Content, error) {
	where := squirrel.And{
		squirrel.Eq{"class_level": coords.ClassLevel},
		squirrel.Eq{"medium": string(coords.Medium)},
		squirrel.Eq{"subject": coords.Subject},
		squirrel.Eq{"chapter_name": coords.ChapterName},
		squirrel.Eq{"question_number": coords.QuestionNumber},
	}
	if coords.Exercise != nil {
		where = append(where, squirrel.Eq{"exercise": *coords.Exercise})
	} else {
		where = append(where, squirrel.Or{squirrel.Eq{"exercise": nil}, squirrel.Eq{"exercise": ""}})
	}

	sql, args, err := r.sb.Select(contentColumns...).
		From("contents").
		Where(where).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find by coordinates query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error finding content by coordinates: %w", err)
	}
	return collectContents(rows)
}
