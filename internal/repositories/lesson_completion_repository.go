package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

type lessonCompletionRepository struct {
	db *sql.DB
}

// NewLessonCompletionRepository creates a new lesson completion repository
func NewLessonCompletionRepository(db *sql.DB) *lessonCompletionRepository {
	return &lessonCompletionRepository{
		db: db,
	}
}

// GetOrCreate records that the user completed the lesson unless already recorded
//
// Returns true when a new completion was created.
func (r *lessonCompletionRepository) GetOrCreate(ctx context.Context, userID, lessonID int) (bool, error) {
	query := `
		INSERT INTO lesson_completions (user_id, lesson_id) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE id = id
	`

	result, err := r.db.ExecContext(ctx, query, userID, lessonID)
	if err != nil {
		return false, fmt.Errorf("failed to create lesson completion: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}
