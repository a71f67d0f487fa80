package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/learnhub/backend/internal/models"
	"go.uber.org/zap"
)

// PaymentGateway is the interface that wraps the payment provider operations
type PaymentGateway interface {
	// CreateOrder opens an order with the provider
	//
	// "ctx" is the context for the request.
	// "req" is the amount, currency and receipt of the order.
	//
	// Returns the provider's order and an error if any.
	CreateOrder(ctx context.Context, req models.OrderRequest) (*models.GatewayOrder, error)
	// VerifyPaymentSignature checks that a checkout result was issued by the provider
	//
	// "ctx" is the context for the request.
	// "params" is the order ID, payment ID and signature returned by the checkout.
	//
	// Returns an error if the signature does not verify.
	VerifyPaymentSignature(ctx context.Context, params models.PaymentVerification) error
}

// PaymentOrderRepository is the interface that wraps methods for PaymentOrder table data access
type PaymentOrderRepository interface {
	// Create records an order issued for a user and course
	//
	// "ctx" is the context for the request.
	// "order" is the order to record.
	//
	// Returns an error if any.
	Create(ctx context.Context, order *models.PaymentOrder) error
	// GetByOrderID retrieves a recorded order by the provider's order ID
	//
	// "ctx" is the context for the request.
	// "orderID" is the provider's order ID.
	//
	// Returns the order and an error if any.
	GetByOrderID(ctx context.Context, orderID string) (*models.PaymentOrder, error)
	// MarkPaidAndEnroll marks the order paid and enrolls its user in one transaction
	//
	// "ctx" is the context for the request.
	// "order" is the recorded order.
	// "paymentID" is the provider's payment ID.
	//
	// Returns true if the enrollment was created and an error if any.
	MarkPaidAndEnroll(ctx context.Context, order *models.PaymentOrder, paymentID string) (bool, error)
}

type enrollmentService struct {
	courses     CourseRepository
	enrollments EnrollmentRepository
	orders      PaymentOrderRepository
	gateway     PaymentGateway
	logger      *zap.Logger
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(
	courses CourseRepository,
	enrollments EnrollmentRepository,
	orders PaymentOrderRepository,
	gateway PaymentGateway,
	logger *zap.Logger,
) *enrollmentService {
	return &enrollmentService{
		courses:     courses,
		enrollments: enrollments,
		orders:      orders,
		gateway:     gateway,
		logger:      logger,
	}
}

// CreateOrder opens a gateway order for a paid course and records it for the user
func (s *enrollmentService) CreateOrder(ctx context.Context, userID, courseID int) (*models.GatewayOrder, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if course.IsFree() {
		return nil, models.NewError(models.ErrValidation, "This course is free and cannot be purchased.")
	}

	req := models.OrderRequest{
		Amount:   course.AmountInMinorUnits(),
		Currency: models.CurrencyINR,
		Receipt:  fmt.Sprintf("receipt_course_%d", course.ID),
	}

	order, err := s.gateway.CreateOrder(ctx, req)
	if err != nil {
		s.logger.Error("failed to create gateway order", zap.Error(err), zap.Int("courseID", courseID))
		return nil, models.NewError(models.ErrGateway, "%s", err.Error())
	}

	record := &models.PaymentOrder{
		OrderID:  order.ID,
		UserID:   userID,
		CourseID: course.ID,
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   models.PaymentOrderCreated,
	}
	if err := s.orders.Create(ctx, record); err != nil {
		return nil, err
	}

	return order, nil
}

// VerifyPayment enrolls the user once the gateway signature for their order checks out
//
// Nothing is written unless the signature verifies and the order was issued to the
// same user for the same course. Repeating a successful verification is harmless.
func (s *enrollmentService) VerifyPayment(ctx context.Context, userID, courseID int, params models.PaymentVerification) error {
	if err := s.gateway.VerifyPaymentSignature(ctx, params); err != nil {
		return models.NewError(models.ErrPaymentVerification, "%s", err.Error())
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return err
	}

	order, err := s.orders.GetByOrderID(ctx, params.OrderID)
	if errors.Is(err, models.ErrNotFound) {
		return models.NewError(models.ErrPaymentVerification, "order %s was not issued by this service", params.OrderID)
	}
	if err != nil {
		return err
	}

	if order.UserID != userID || order.CourseID != course.ID {
		s.logger.Warn("payment order does not match request",
			zap.String("orderID", order.OrderID),
			zap.Int("userID", userID),
			zap.Int("courseID", course.ID),
		)
		return models.NewError(models.ErrPaymentVerification, "order %s does not belong to this course", params.OrderID)
	}

	created, err := s.orders.MarkPaidAndEnroll(ctx, order, params.PaymentID)
	if err != nil {
		return err
	}

	s.logger.Info("payment verified",
		zap.String("orderID", order.OrderID),
		zap.Int("userID", userID),
		zap.Int("courseID", course.ID),
		zap.Bool("enrollmentCreated", created),
	)
	return nil
}

// FreeEnroll enrolls the user in a course whose price is zero
//
// Returns the status message to report to the caller.
func (s *enrollmentService) FreeEnroll(ctx context.Context, userID, courseID int) (string, error) {
	created, err := s.enrollFree(ctx, userID, courseID)
	if err != nil {
		return "", err
	}
	if created {
		return models.StatusEnrolledForFree, nil
	}
	return models.StatusAlreadyEnrolled, nil
}

// Enroll is the generic enrollment entry point
//
// It is held to the same rule as FreeEnroll so that paid courses cannot be joined
// without a verified payment.
//
// Returns true if the enrollment was created and an error if any.
func (s *enrollmentService) Enroll(ctx context.Context, userID, courseID int) (bool, error) {
	return s.enrollFree(ctx, userID, courseID)
}

func (s *enrollmentService) enrollFree(ctx context.Context, userID, courseID int) (bool, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return false, err
	}

	if !course.IsFree() {
		return false, models.NewError(models.ErrValidation, "This course is not free.")
	}

	return s.enrollments.GetOrCreate(ctx, userID, course.ID)
}

// MyCourses lists the courses the user is enrolled in
func (s *enrollmentService) MyCourses(ctx context.Context, userID int) ([]models.CourseListItem, error) {
	return s.courses.GetEnrolledByUser(ctx, userID)
}
