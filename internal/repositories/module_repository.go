package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/learnhub/backend/internal/models"
)

type moduleRepository struct {
	db *sql.DB
}

// NewModuleRepository creates a new module repository
func NewModuleRepository(db *sql.DB) *moduleRepository {
	return &moduleRepository{
		db: db,
	}
}

// GetByID retrieves a module by its ID
func (r *moduleRepository) GetByID(ctx context.Context, id int) (*models.Module, error) {
	query := `
		SELECT id, course_id, title, sort_order
		FROM modules
		WHERE id = ?
		LIMIT 1
	`

	var module models.Module
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&module.ID,
		&module.CourseID,
		&module.Title,
		&module.Order,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewError(models.ErrNotFound, "Module not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get module by id: %w", err)
	}

	return &module, nil
}

// List retrieves modules ordered by course and position, optionally limited to one course
func (r *moduleRepository) List(ctx context.Context, courseID *int) ([]models.Module, error) {
	query := `SELECT id, course_id, title, sort_order FROM modules`
	args := []any{}
	if courseID != nil {
		query += ` WHERE course_id = ?`
		args = append(args, *courseID)
	}
	query += ` ORDER BY course_id, sort_order, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query modules: %w", err)
	}
	defer rows.Close()

	modules := []models.Module{}
	for rows.Next() {
		var module models.Module
		if err := rows.Scan(&module.ID, &module.CourseID, &module.Title, &module.Order); err != nil {
			return nil, fmt.Errorf("failed to scan module: %w", err)
		}
		modules = append(modules, module)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return modules, nil
}

// Create inserts a new module
func (r *moduleRepository) Create(ctx context.Context, module *models.Module) error {
	query := `
		INSERT INTO modules (course_id, title, sort_order)
		VALUES (?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, module.CourseID, module.Title, module.Order)
	if err != nil {
		return fmt.Errorf("failed to create module: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	module.ID = int(id)
	return nil
}

// Update stores every field of a module
func (r *moduleRepository) Update(ctx context.Context, module *models.Module) error {
	query := `
		UPDATE modules
		SET course_id = ?, title = ?, sort_order = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query, module.CourseID, module.Title, module.Order, module.ID)
	if err != nil {
		return fmt.Errorf("failed to update module: %w", err)
	}

	return nil
}

// Delete removes a module together with its lessons
func (r *moduleRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM modules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete module: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.NewError(models.ErrNotFound, "Module not found")
	}

	return nil
}
