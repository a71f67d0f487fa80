package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/learnhub/backend/internal/models"
	"go.uber.org/zap"
)

type paymentOrderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPaymentOrderRepository creates a new payment order repository
func NewPaymentOrderRepository(db *sql.DB, logger *zap.Logger) *paymentOrderRepository {
	return &paymentOrderRepository{
		db:     db,
		logger: logger,
	}
}

// Create records a gateway order issued for a user and course
func (r *paymentOrderRepository) Create(ctx context.Context, order *models.PaymentOrder) error {
	query := `
		INSERT INTO payment_orders (order_id, user_id, course_id, amount, currency, receipt, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		order.OrderID,
		order.UserID,
		order.CourseID,
		order.Amount,
		order.Currency,
		order.Receipt,
		order.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	order.ID = int(id)
	return nil
}

// GetByOrderID retrieves a recorded order by its gateway order ID
func (r *paymentOrderRepository) GetByOrderID(ctx context.Context, orderID string) (*models.PaymentOrder, error) {
	query := `
		SELECT id, order_id, user_id, course_id, amount, currency, receipt, status, COALESCE(payment_id, '')
		FROM payment_orders
		WHERE order_id = ?
		LIMIT 1
	`

	var order models.PaymentOrder
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(
		&order.ID,
		&order.OrderID,
		&order.UserID,
		&order.CourseID,
		&order.Amount,
		&order.Currency,
		&order.Receipt,
		&order.Status,
		&order.PaymentID,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewError(models.ErrNotFound, "Payment order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment order: %w", err)
	}

	return &order, nil
}

// MarkPaidAndEnroll marks the order paid and enrolls its user in one transaction
//
// Returns true when a new enrollment was created.
func (r *paymentOrderRepository) MarkPaidAndEnroll(ctx context.Context, order *models.PaymentOrder, paymentID string) (created bool, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Error("failed to rollback payment transaction", zap.Error(rbErr), zap.String("orderID", order.OrderID))
			}
		}
	}()

	var status models.PaymentOrderStatus
	var storedPaymentID string
	err = tx.QueryRowContext(ctx,
		`SELECT status, COALESCE(payment_id, '') FROM payment_orders WHERE order_id = ? FOR UPDATE`,
		order.OrderID,
	).Scan(&status, &storedPaymentID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, models.NewError(models.ErrNotFound, "Payment order not found")
	}
	if err != nil {
		return false, fmt.Errorf("failed to lock payment order: %w", err)
	}

	// A paid order keeps the payment that settled it.
	if status != models.PaymentOrderPaid {
		query := `
			UPDATE payment_orders
			SET status = ?, payment_id = ?
			WHERE order_id = ?
		`
		var result sql.Result
		result, err = tx.ExecContext(ctx, query, models.PaymentOrderPaid, paymentID, order.OrderID)
		if err != nil {
			return false, fmt.Errorf("failed to mark payment order paid: %w", err)
		}
		var rowsAffected int64
		rowsAffected, err = result.RowsAffected()
		if err != nil {
			return false, fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected != 1 {
			return false, fmt.Errorf("failed to mark payment order paid: %d rows updated", rowsAffected)
		}
		storedPaymentID = paymentID
	}

	created, err = getOrCreateEnrollment(ctx, tx, order.UserID, order.CourseID)
	if err != nil {
		return false, fmt.Errorf("failed to create enrollment: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit payment transaction: %w", err)
	}

	order.Status = models.PaymentOrderPaid
	order.PaymentID = storedPaymentID
	return created, nil
}
