package repositories

import (
	"context"
	"database/sql"
)

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insertEnrollmentQuery relies on the unique (user_id, course_id) key so that
// concurrent enrollments collapse into a single row. Only the duplicate key is
// tolerated; foreign key failures still surface as errors. RowsAffected is 1 for
// a new row and 0 for an existing one.
const insertEnrollmentQuery = `
	INSERT INTO enrollments (user_id, course_id) VALUES (?, ?)
	ON DUPLICATE KEY UPDATE id = id
`

// getOrCreateEnrollment inserts an enrollment if missing and reports whether it was created
func getOrCreateEnrollment(ctx context.Context, db execer, userID, courseID int) (bool, error) {
	result, err := db.ExecContext(ctx, insertEnrollmentQuery, userID, courseID)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected == 1, nil
}
