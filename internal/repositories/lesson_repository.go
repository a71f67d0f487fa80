package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/learnhub/backend/internal/models"
)

type lessonRepository struct {
	db *sql.DB
}

// NewLessonRepository creates a new lesson repository
func NewLessonRepository(db *sql.DB) *lessonRepository {
	return &lessonRepository{
		db: db,
	}
}

// GetByID retrieves a lesson by its ID
func (r *lessonRepository) GetByID(ctx context.Context, id int) (*models.Lesson, error) {
	query := `
		SELECT id, module_id, title, sort_order, video_url, content
		FROM lessons
		WHERE id = ?
		LIMIT 1
	`

	var lesson models.Lesson
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&lesson.ID,
		&lesson.ModuleID,
		&lesson.Title,
		&lesson.Order,
		&lesson.VideoURL,
		&lesson.Content,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewError(models.ErrNotFound, "Lesson not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson by id: %w", err)
	}

	return &lesson, nil
}

// GetOwnership resolves a lesson to its module, course and course instructor
func (r *lessonRepository) GetOwnership(ctx context.Context, lessonID int) (*models.LessonOwnership, error) {
	query := `
		SELECT l.id, m.id, c.id, c.instructor_id
		FROM lessons l
		INNER JOIN modules m ON m.id = l.module_id
		INNER JOIN courses c ON c.id = m.course_id
		WHERE l.id = ?
		LIMIT 1
	`

	var ownership models.LessonOwnership
	err := r.db.QueryRowContext(ctx, query, lessonID).Scan(
		&ownership.LessonID,
		&ownership.ModuleID,
		&ownership.CourseID,
		&ownership.InstructorID,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewError(models.ErrNotFound, "Lesson not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson ownership: %w", err)
	}

	return &ownership, nil
}

// lessonViewQuery selects lessons with the viewer's completion flag and the course instructor.
// The first argument is the viewer's user ID; 0 never matches a completion.
const lessonViewQuery = `
	SELECT
		l.id,
		l.module_id,
		l.title,
		l.sort_order,
		l.video_url,
		l.content,
		lc.id IS NOT NULL AS is_completed,
		c.instructor_id
	FROM lessons l
	INNER JOIN modules m ON m.id = l.module_id
	INNER JOIN courses c ON c.id = m.course_id
	LEFT JOIN lesson_completions lc ON lc.lesson_id = l.id AND lc.user_id = ?
`

// GetView retrieves one lesson as seen by the given user
func (r *lessonRepository) GetView(ctx context.Context, lessonID, userID int) (*models.LessonResponse, error) {
	lessons, err := r.queryViews(ctx, lessonViewQuery+` WHERE l.id = ? LIMIT 1`, userID, lessonID)
	if err != nil {
		return nil, err
	}
	if len(lessons) == 0 {
		return nil, models.NewError(models.ErrNotFound, "Lesson not found")
	}
	return &lessons[0], nil
}

// GetViewsByCourse retrieves every lesson of a course as seen by the given user
func (r *lessonRepository) GetViewsByCourse(ctx context.Context, courseID, userID int) ([]models.LessonResponse, error) {
	return r.queryViews(ctx, lessonViewQuery+` WHERE m.course_id = ? ORDER BY l.module_id, l.sort_order, l.id`, userID, courseID)
}

// GetViewsByModule retrieves every lesson of a module as seen by the given user
func (r *lessonRepository) GetViewsByModule(ctx context.Context, moduleID, userID int) ([]models.LessonResponse, error) {
	return r.queryViews(ctx, lessonViewQuery+` WHERE l.module_id = ? ORDER BY l.sort_order, l.id`, userID, moduleID)
}

// ListViews retrieves lessons as seen by the given user, optionally limited to one module
func (r *lessonRepository) ListViews(ctx context.Context, moduleID *int, userID int) ([]models.LessonResponse, error) {
	if moduleID != nil {
		return r.GetViewsByModule(ctx, *moduleID, userID)
	}
	return r.queryViews(ctx, lessonViewQuery+` ORDER BY l.module_id, l.sort_order, l.id`, userID)
}

func (r *lessonRepository) queryViews(ctx context.Context, query string, args ...any) ([]models.LessonResponse, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()

	lessons := []models.LessonResponse{}
	for rows.Next() {
		var lesson models.LessonResponse
		err := rows.Scan(
			&lesson.ID,
			&lesson.ModuleID,
			&lesson.Title,
			&lesson.Order,
			&lesson.VideoURL,
			&lesson.Content,
			&lesson.IsCompleted,
			&lesson.InstructorID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return lessons, nil
}

// Create inserts a new lesson
func (r *lessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	query := `
		INSERT INTO lessons (module_id, title, sort_order, video_url, content)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		lesson.ModuleID,
		lesson.Title,
		lesson.Order,
		lesson.VideoURL,
		lesson.Content,
	)
	if err != nil {
		return fmt.Errorf("failed to create lesson: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	lesson.ID = int(id)
	return nil
}

// Update stores every field of a lesson
func (r *lessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	query := `
		UPDATE lessons
		SET module_id = ?, title = ?, sort_order = ?, video_url = ?, content = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		lesson.ModuleID,
		lesson.Title,
		lesson.Order,
		lesson.VideoURL,
		lesson.Content,
		lesson.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update lesson: %w", err)
	}

	return nil
}

// Delete removes a lesson
func (r *lessonRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.NewError(models.ErrNotFound, "Lesson not found")
	}

	return nil
}
