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
	"go.uber.org/zap"
)

// setupPaymentOrderTestRepository creates a payment order repository with a mock database
func setupPaymentOrderTestRepository(t *testing.T) (*paymentOrderRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, cleanup := setupMockDB(t)
	return NewPaymentOrderRepository(db, zap.NewNop()), mock, cleanup
}

func TestPaymentOrderRepository_Create(t *testing.T) {
	repo, mock, cleanup := setupPaymentOrderTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`INSERT INTO payment_orders`).
		WithArgs("order_1", 4, 2, int64(49900), "INR", "receipt_course_2", models.PaymentOrderCreated).
		WillReturnResult(sqlmock.NewResult(3, 1))

	order := &models.PaymentOrder{
		OrderID:  "order_1",
		UserID:   4,
		CourseID: 2,
		Amount:   49900,
		Currency: models.CurrencyINR,
		Receipt:  "receipt_course_2",
		Status:   models.PaymentOrderCreated,
	}
	require.NoError(t, repo.Create(context.Background(), order))
	assert.Equal(t, 3, order.ID)
}

func TestPaymentOrderRepository_GetByOrderID(t *testing.T) {
	columns := []string{"id", "order_id", "user_id", "course_id", "amount", "currency", "receipt", "status", "payment_id"}

	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(columns).AddRow(3, "order_1", 4, 2, 49900, "INR", "receipt_course_2", "created", "")
				mock.ExpectQuery(`SELECT.*FROM payment_orders WHERE order_id = \?`).WithArgs("order_1").WillReturnRows(rows)
			},
		},
		{
			name: "unknown order",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT.*FROM payment_orders`).WithArgs("order_1").WillReturnError(sql.ErrNoRows)
			},
			expectedError: models.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupPaymentOrderTestRepository(t)
			defer cleanup()
			tt.setupMock(mock)

			order, err := repo.GetByOrderID(context.Background(), "order_1")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.PaymentOrderCreated, order.Status)
			assert.Equal(t, int64(49900), order.Amount)
			assert.Equal(t, 4, order.UserID)
		})
	}
}

func TestPaymentOrderRepository_MarkPaidAndEnroll(t *testing.T) {
	lockQuery := `SELECT status, COALESCE\(payment_id, ''\) FROM payment_orders WHERE order_id = \? FOR UPDATE`
	lockedRow := func(status models.PaymentOrderStatus, paymentID string) *sqlmock.Rows {
		return sqlmock.NewRows([]string{"status", "payment_id"}).AddRow(string(status), paymentID)
	}

	tests := []struct {
		name              string
		setupMock         func(sqlmock.Sqlmock)
		expectedCreated   bool
		expectedPaymentID string
		expectedError     error
		errorContains     string
	}{
		{
			name: "first verification enrolls",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(lockQuery).WithArgs("order_1").WillReturnRows(lockedRow(models.PaymentOrderCreated, ""))
				mock.ExpectExec(`UPDATE payment_orders SET status = \?, payment_id = \? WHERE order_id = \?`).
					WithArgs(models.PaymentOrderPaid, "pay_1", "order_1").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`INSERT INTO enrollments .* ON DUPLICATE KEY UPDATE id = id`).
					WithArgs(4, 2).
					WillReturnResult(sqlmock.NewResult(8, 1))
				mock.ExpectCommit()
			},
			expectedCreated:   true,
			expectedPaymentID: "pay_1",
		},
		{
			name: "retry on a paid order keeps single enrollment",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(lockQuery).WithArgs("order_1").WillReturnRows(lockedRow(models.PaymentOrderPaid, "pay_0"))
				mock.ExpectExec(`INSERT INTO enrollments`).
					WithArgs(4, 2).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectCommit()
			},
			expectedCreated:   false,
			expectedPaymentID: "pay_0",
		},
		{
			name: "missing order rolls back",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(lockQuery).WithArgs("order_1").WillReturnError(sql.ErrNoRows)
				mock.ExpectRollback()
			},
			expectedError: models.ErrNotFound,
		},
		{
			name: "update touching no row rolls back",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(lockQuery).WillReturnRows(lockedRow(models.PaymentOrderCreated, ""))
				mock.ExpectExec(`UPDATE payment_orders`).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
			errorContains: "0 rows updated",
		},
		{
			name: "deleted course rolls back",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(lockQuery).WillReturnRows(lockedRow(models.PaymentOrderCreated, ""))
				mock.ExpectExec(`UPDATE payment_orders`).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`INSERT INTO enrollments`).
					WillReturnError(errors.New("Error 1452: Cannot add or update a child row: a foreign key constraint fails"))
				mock.ExpectRollback()
			},
			errorContains: "failed to create enrollment",
		},
		{
			name: "update failure rolls back",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(lockQuery).WillReturnRows(lockedRow(models.PaymentOrderCreated, ""))
				mock.ExpectExec(`UPDATE payment_orders`).WillReturnError(errors.New("database error"))
				mock.ExpectRollback()
			},
			errorContains: "failed to mark payment order paid",
		},
		{
			name: "begin failure",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("connection refused"))
			},
			errorContains: "failed to begin transaction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupPaymentOrderTestRepository(t)
			defer cleanup()
			tt.setupMock(mock)

			order := &models.PaymentOrder{OrderID: "order_1", UserID: 4, CourseID: 2, Status: models.PaymentOrderCreated}
			created, err := repo.MarkPaidAndEnroll(context.Background(), order, "pay_1")

			if tt.expectedError != nil || tt.errorContains != "" {
				if tt.expectedError != nil {
					assert.ErrorIs(t, err, tt.expectedError)
				}
				if tt.errorContains != "" {
					assert.ErrorContains(t, err, tt.errorContains)
				}
				assert.False(t, created)
				assert.Equal(t, models.PaymentOrderCreated, order.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCreated, created)
			assert.Equal(t, models.PaymentOrderPaid, order.Status)
			assert.Equal(t, tt.expectedPaymentID, order.PaymentID)
		})
	}
}
