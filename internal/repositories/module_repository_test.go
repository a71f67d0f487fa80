package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/learnhub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupModuleTestRepository creates a module repository with a mock database
func setupModuleTestRepository(t *testing.T) (*moduleRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, cleanup := setupMockDB(t)
	return NewModuleRepository(db), mock, cleanup
}

func TestModuleRepository_GetByID(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
		errorContains string
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "course_id", "title", "sort_order"}).AddRow(3, 1, "Basics", 1)
				mock.ExpectQuery(`SELECT.*FROM modules WHERE id = \?`).WithArgs(3).WillReturnRows(rows)
			},
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT.*FROM modules WHERE id = \?`).WithArgs(3).WillReturnError(sql.ErrNoRows)
			},
			expectedError: models.ErrNotFound,
			errorContains: "Module not found",
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT.*FROM modules WHERE id = \?`).WithArgs(3).WillReturnError(errors.New("database error"))
			},
			errorContains: "failed to get module by id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupModuleTestRepository(t)
			defer cleanup()
			tt.setupMock(mock)

			module, err := repo.GetByID(context.Background(), 3)

			if tt.errorContains != "" {
				assert.ErrorContains(t, err, tt.errorContains)
				if tt.expectedError != nil {
					assert.ErrorIs(t, err, tt.expectedError)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, &models.Module{ID: 3, CourseID: 1, Title: "Basics", Order: 1}, module)
		})
	}
}

func TestModuleRepository_List(t *testing.T) {
	courseID := 1

	tests := []struct {
		name      string
		courseID  *int
		setupMock func(sqlmock.Sqlmock)
	}{
		{
			name: "all modules",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "course_id", "title", "sort_order"}).
					AddRow(1, 1, "A", 1).
					AddRow(2, 2, "B", 1)
				mock.ExpectQuery(`SELECT id, course_id, title, sort_order FROM modules ORDER BY course_id, sort_order, id`).
					WillReturnRows(rows)
			},
		},
		{
			name:     "filtered by course",
			courseID: &courseID,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "course_id", "title", "sort_order"}).
					AddRow(1, 1, "A", 1).
					AddRow(3, 1, "C", 2)
				mock.ExpectQuery(`SELECT id, course_id, title, sort_order FROM modules WHERE course_id = \? ORDER BY`).
					WithArgs(1).
					WillReturnRows(rows)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupModuleTestRepository(t)
			defer cleanup()
			tt.setupMock(mock)

			modules, err := repo.List(context.Background(), tt.courseID)

			require.NoError(t, err)
			assert.Len(t, modules, 2)
		})
	}
}

func TestModuleRepository_CreateUpdateDelete(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		repo, mock, cleanup := setupModuleTestRepository(t)
		defer cleanup()

		mock.ExpectExec(`INSERT INTO modules`).WithArgs(1, "Basics", 2).WillReturnResult(sqlmock.NewResult(9, 1))

		module := &models.Module{CourseID: 1, Title: "Basics", Order: 2}
		require.NoError(t, repo.Create(context.Background(), module))
		assert.Equal(t, 9, module.ID)
	})

	t.Run("update", func(t *testing.T) {
		repo, mock, cleanup := setupModuleTestRepository(t)
		defer cleanup()

		mock.ExpectExec(`UPDATE modules SET course_id = \?, title = \?, sort_order = \? WHERE id = \?`).
			WithArgs(2, "Moved", 1, 9).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(context.Background(), &models.Module{ID: 9, CourseID: 2, Title: "Moved", Order: 1}))
	})

	t.Run("delete missing", func(t *testing.T) {
		repo, mock, cleanup := setupModuleTestRepository(t)
		defer cleanup()

		mock.ExpectExec(`DELETE FROM modules WHERE id = \?`).WithArgs(9).WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), 9), models.ErrNotFound)
	})

	t.Run("create error", func(t *testing.T) {
		repo, mock, cleanup := setupModuleTestRepository(t)
		defer cleanup()

		mock.ExpectExec(`INSERT INTO modules`).WillReturnError(errors.New("fk violation"))

		assert.ErrorContains(t, repo.Create(context.Background(), &models.Module{}), "failed to create module")
	})
}
