package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/learnhub/backend/internal/models"
)

type courseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *sql.DB) *courseRepository {
	return &courseRepository{
		db: db,
	}
}

// GetByID retrieves a course by its ID
func (r *courseRepository) GetByID(ctx context.Context, id int) (*models.Course, error) {
	query := `
		SELECT id, title, description, instructor_id, price
		FROM courses
		WHERE id = ?
		LIMIT 1
	`

	var course models.Course
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.InstructorID,
		&course.Price,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewError(models.ErrNotFound, "Course not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course by id: %w", err)
	}

	return &course, nil
}

// GetAll retrieves a page of courses ordered by ID
func (r *courseRepository) GetAll(ctx context.Context, page, count int) ([]models.CourseListItem, error) {
	query := `
		SELECT id, title, description, instructor_id
		FROM courses
		ORDER BY id
		LIMIT ? OFFSET ?
	`

	offset := (page - 1) * count
	rows, err := r.db.QueryContext(ctx, query, count, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	return scanCourseListItems(rows)
}

// GetEnrolledByUser retrieves every course the user is enrolled in
func (r *courseRepository) GetEnrolledByUser(ctx context.Context, userID int) ([]models.CourseListItem, error) {
	query := `
		SELECT c.id, c.title, c.description, c.instructor_id
		FROM courses c
		INNER JOIN enrollments e ON e.course_id = c.id
		WHERE e.user_id = ?
		ORDER BY e.created_at, c.id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrolled courses: %w", err)
	}
	defer rows.Close()

	return scanCourseListItems(rows)
}

func scanCourseListItems(rows *sql.Rows) ([]models.CourseListItem, error) {
	courses := []models.CourseListItem{}
	for rows.Next() {
		var course models.CourseListItem
		if err := rows.Scan(&course.ID, &course.Title, &course.Description, &course.Instructor); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return courses, nil
}

// Create inserts a new course
func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (title, description, instructor_id, price)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		course.Title,
		course.Description,
		course.InstructorID,
		course.Price,
	)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	course.ID = int(id)
	return nil
}

// Update stores the title, description and price of a course
func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		SET title = ?, description = ?, price = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query, course.Title, course.Description, course.Price, course.ID)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}

	return nil
}

// Delete removes a course together with its modules and lessons
func (r *courseRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.NewError(models.ErrNotFound, "Course not found")
	}

	return nil
}
