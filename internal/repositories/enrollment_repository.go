package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

type enrollmentRepository struct {
	db *sql.DB
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *sql.DB) *enrollmentRepository {
	return &enrollmentRepository{
		db: db,
	}
}

// Exists checks if the user is enrolled in the course
func (r *enrollmentRepository) Exists(ctx context.Context, userID, courseID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM enrollments WHERE user_id = ? AND course_id = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, userID, courseID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check enrollment existence: %w", err)
	}

	return exists, nil
}

// GetOrCreate enrolls the user in the course unless already enrolled
//
// Returns true when a new enrollment was created.
func (r *enrollmentRepository) GetOrCreate(ctx context.Context, userID, courseID int) (bool, error) {
	created, err := getOrCreateEnrollment(ctx, r.db, userID, courseID)
	if err != nil {
		return false, fmt.Errorf("failed to create enrollment: %w", err)
	}
	return created, nil
}
