package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/learnhub/backend/internal/access"
	"github.com/learnhub/backend/internal/models"
	authMiddleware "github.com/learnhub/backend/libs/auth/middleware"
	"github.com/learnhub/backend/libs/handlers"
	"go.uber.org/zap"
)

// CourseService is the interface that wraps methods for course catalogue operations
type CourseService interface {
	// ListCourses retrieves a page of courses
	//
	// "ctx" is the context for the request.
	// "page" is the page number to retrieve.
	// "count" is the number of items per page.
	//
	// Returns a list of courses and an error if any.
	ListCourses(ctx context.Context, page, count int) ([]models.CourseListItem, error)
	// GetCourse retrieves a course with its modules and lessons
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "viewer" is the caller, possibly anonymous.
	//
	// Returns the course detail and an error if any.
	GetCourse(ctx context.Context, courseID int, viewer access.Viewer) (*models.CourseDetailResponse, error)
	// CreateCourse creates a course owned by the viewer
	//
	// "ctx" is the context for the request.
	// "viewer" is the caller.
	// "req" is the request to create a course.
	//
	// Returns the created course and an error if any.
	CreateCourse(ctx context.Context, viewer access.Viewer, req *models.CourseWriteRequest) (*models.CourseDetailResponse, error)
	// UpdateCourse replaces the editable fields of a course
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "viewer" is the caller.
	// "req" is the request to update a course.
	//
	// Returns the updated course and an error if any.
	UpdateCourse(ctx context.Context, courseID int, viewer access.Viewer, req *models.CourseWriteRequest) (*models.CourseDetailResponse, error)
	// PatchCourse updates the provided fields of a course
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "viewer" is the caller.
	// "req" is the partial update.
	//
	// Returns the updated course and an error if any.
	PatchCourse(ctx context.Context, courseID int, viewer access.Viewer, req *models.CoursePatchRequest) (*models.CourseDetailResponse, error)
	// DeleteCourse deletes a course
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "viewer" is the caller.
	//
	// Returns an error if any.
	DeleteCourse(ctx context.Context, courseID int, viewer access.Viewer) error
}

// EnrollmentService is the interface that wraps methods for enrollment and payment operations
type EnrollmentService interface {
	// CreateOrder opens a payment order for a paid course
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the buyer.
	// "courseID" is the ID of the course.
	//
	// Returns the gateway order and an error if any.
	CreateOrder(ctx context.Context, userID, courseID int) (*models.GatewayOrder, error)
	// VerifyPayment checks the gateway signature and enrolls the buyer
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the buyer.
	// "courseID" is the ID of the course.
	// "params" is the gateway callback payload.
	//
	// Returns an error if any.
	VerifyPayment(ctx context.Context, userID, courseID int, params models.PaymentVerification) error
	// FreeEnroll enrolls the user in a free course
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseID" is the ID of the course.
	//
	// Returns the status message and an error if any.
	FreeEnroll(ctx context.Context, userID, courseID int) (string, error)
	// Enroll enrolls the user in a free course
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseID" is the ID of the course.
	//
	// Returns true if the enrollment was created and an error if any.
	Enroll(ctx context.Context, userID, courseID int) (bool, error)
	// MyCourses lists the courses the user is enrolled in
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns a list of courses and an error if any.
	MyCourses(ctx context.Context, userID int) ([]models.CourseListItem, error)
}

// CourseHandler handles HTTP requests for courses, enrollment and payments
type CourseHandler struct {
	handlers.BaseHandler
	courseService     CourseService
	enrollmentService EnrollmentService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseService CourseService, enrollmentService EnrollmentService, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:       handlers.BaseHandler{Logger: logger},
		courseService:     courseService,
		enrollmentService: enrollmentService,
	}
}

// RegisterRoutes registers all course handler routes
//
// Course reads accept anonymous callers; writes go through the instructor gate.
func (h *CourseHandler) RegisterRoutes(r chi.Router, requireAuth, optionalAuth func(http.Handler) http.Handler) {
	r.Route("/courses", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/", h.ListCourses)
			r.Get("/{id}", h.GetCourse)
		})
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(access.InstructorOrReadOnlyMiddleware(h.Logger))
			r.Post("/", h.CreateCourse)
			r.Put("/{id}", h.UpdateCourse)
			r.Patch("/{id}", h.PatchCourse)
			r.Delete("/{id}", h.DeleteCourse)
		})
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/{id}/enroll", h.Enroll)
			r.Post("/{id}/create-order", h.CreateOrder)
			r.Post("/{id}/verify-payment", h.VerifyPayment)
			r.Post("/{id}/free-enroll", h.FreeEnroll)
		})
	})
	r.With(requireAuth).Get("/my-courses", h.MyCourses)
}

func (h *CourseHandler) userID(r *http.Request) (int, bool) {
	return authMiddleware.GetUserID(r.Context())
}

// ListCourses handles GET /courses
// @Summary List courses
// @Description Get a paginated list of courses
// @Tags courses
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param count query int false "Items per page (default: 10)"
// @Success 200 {array} models.CourseListItem "List of courses"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /courses [get]
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	page, count := pagination(r)

	courses, err := h.courseService.ListCourses(r.Context(), page, count)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to list courses")
		return
	}
	if courses == nil {
		courses = []models.CourseListItem{}
	}

	h.RespondJSON(w, http.StatusOK, courses)
}

// GetCourse handles GET /courses/{id}
// @Summary Get course detail
// @Description Get a course with nested modules and lessons. Completion and enrollment flags reflect the caller.
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} models.CourseDetailResponse "Course detail"
// @Failure 400 {object} handlers.ErrorResponse "Invalid course ID"
// @Failure 404 {object} handlers.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := h.PathID(r, "id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid course ID")
		return
	}

	course, err := h.courseService.GetCourse(r.Context(), courseID, access.ViewerFromContext(r.Context()))
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to get course")
		return
	}

	h.RespondJSON(w, http.StatusOK, course)
}

// CreateCourse handles POST /courses
// @Summary Create a course
// @Description Create a course owned by the authenticated instructor
// @Tags courses
// @Accept json
// @Produce json
// @Param request body models.CourseWriteRequest true "Course creation request"
// @Success 201 {object} models.CourseDetailResponse "Created course"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.ErrorResponse "Not an instructor"
// @Security ApiKeyAuth
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.CourseWriteRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	course, err := h.courseService.CreateCourse(r.Context(), access.ViewerFromContext(r.Context()), &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to create course")
		return
	}

	h.RespondJSON(w, http.StatusCreated, course)
}

// UpdateCourse handles PUT /courses/{id}
// @Summary Replace a course
// @Description Replace the editable fields of a course owned by the authenticated instructor
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body models.CourseWriteRequest true "Course update request"
// @Success 200 {object} models.CourseDetailResponse "Updated course"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body"
// @Failure 403 {object} handlers.ErrorResponse "Not the course instructor"
// @Failure 404 {object} handlers.ErrorResponse "Course not found"
// @Security ApiKeyAuth
// @Router /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := h.PathID(r, "id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid course ID")
		return
	}

	var req models.CourseWriteRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	course, err := h.courseService.UpdateCourse(r.Context(), courseID, access.ViewerFromContext(r.Context()), &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to update course")
		return
	}

	h.RespondJSON(w, http.StatusOK, course)
}

// PatchCourse handles PATCH /courses/{id}
// @Summary Update a course
// @Description Update the provided fields of a course owned by the authenticated instructor
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body models.CoursePatchRequest true "Course partial update"
// @Success 200 {object} models.CourseDetailResponse "Updated course"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body"
// @Failure 403 {object} handlers.ErrorResponse "Not the course instructor"
// @Failure 404 {object} handlers.ErrorResponse "Course not found"
// @Security ApiKeyAuth
// @Router /courses/{id} [patch]
func (h *CourseHandler) PatchCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := h.PathID(r, "id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid course ID")
		return
	}

	var req models.CoursePatchRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	course, err := h.courseService.PatchCourse(r.Context(), courseID, access.ViewerFromContext(r.Context()), &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to patch course")
		return
	}

	h.RespondJSON(w, http.StatusOK, course)
}

// DeleteCourse handles DELETE /courses/{id}
// @Summary Delete a course
// @Description Delete a course owned by the authenticated instructor, with its modules and lessons
// @Tags courses
// @Param id path int true "Course ID"
// @Success 204 "No Content"
// @Failure 403 {object} handlers.ErrorResponse "Not the course instructor"
// @Failure 404 {object} handlers.ErrorResponse "Course not found"
// @Security ApiKeyAuth
// @Router /courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := h.PathID(r, "id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid course ID")
		return
	}

	if err := h.courseService.DeleteCourse(r.Context(), courseID, access.ViewerFromContext(r.Context())); err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to delete course")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Enroll handles POST /courses/{id}/enroll
// @Summary Enroll in a course
// @Description Enroll the caller in a free course. Paid courses require create-order and verify-payment.
// @Tags enrollment
// @Produce json
// @Param id path int true "Course ID"
// @Success 201 {object} models.StatusResponse "enrolled"
// @Success 200 {object} models.StatusResponse "already enrolled"
// @Failure 400 {object} handlers.ErrorResponse "Course is not free"
// @Failure 404 {object} handlers.ErrorResponse "Course not found"
// @Security ApiKeyAuth
// @Router /courses/{id}/enroll [post]
func (h *CourseHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	userID, courseID, ok := h.enrollmentTarget(w, r)
	if !ok {
		return
	}

	created, err := h.enrollmentService.Enroll(r.Context(), userID, courseID)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to enroll")
		return
	}

	if created {
		h.RespondJSON(w, http.StatusCreated, models.StatusResponse{Status: models.StatusEnrolled})
		return
	}
	h.RespondJSON(w, http.StatusOK, models.StatusResponse{Status: models.StatusAlreadyEnrolled})
}

// CreateOrder handles POST /courses/{id}/create-order
// @Summary Create a payment order
// @Description Open a Razorpay order for a paid course. Amount is in paise.
// @Tags payments
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} models.GatewayOrder "Gateway order"
// @Failure 400 {object} handlers.ErrorResponse "Course is free"
// @Failure 404 {object} handlers.ErrorResponse "Course not found"
// @Failure 500 {object} handlers.ErrorResponse "Gateway error"
// @Security ApiKeyAuth
// @Router /courses/{id}/create-order [post]
func (h *CourseHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, courseID, ok := h.enrollmentTarget(w, r)
	if !ok {
		return
	}

	order, err := h.enrollmentService.CreateOrder(r.Context(), userID, courseID)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to create order")
		return
	}

	h.RespondJSON(w, http.StatusOK, order)
}

// VerifyPayment handles POST /courses/{id}/verify-payment
// @Summary Verify a payment
// @Description Check the Razorpay signature and enroll the caller
// @Tags payments
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body models.PaymentVerification true "Gateway callback payload"
// @Success 200 {object} models.StatusResponse "payment successful"
// @Failure 400 {object} handlers.ErrorResponse "Payment verification failed"
// @Failure 404 {object} handlers.ErrorResponse "Course not found"
// @Security ApiKeyAuth
// @Router /courses/{id}/verify-payment [post]
func (h *CourseHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	userID, courseID, ok := h.enrollmentTarget(w, r)
	if !ok {
		return
	}

	var params models.PaymentVerification
	if err := h.DecodeJSON(r, &params); err != nil {
		h.RespondErrorWithDetails(w, http.StatusBadRequest, paymentVerificationFailed, err.Error())
		return
	}

	if err := h.enrollmentService.VerifyPayment(r.Context(), userID, courseID, params); err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to verify payment")
		return
	}

	h.RespondJSON(w, http.StatusOK, models.StatusResponse{Status: models.StatusPaymentSuccessful})
}

// FreeEnroll handles POST /courses/{id}/free-enroll
// @Summary Enroll in a free course
// @Tags enrollment
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} models.StatusResponse "enrolled for free or already enrolled"
// @Failure 400 {object} handlers.ErrorResponse "Course is not free"
// @Failure 404 {object} handlers.ErrorResponse "Course not found"
// @Security ApiKeyAuth
// @Router /courses/{id}/free-enroll [post]
func (h *CourseHandler) FreeEnroll(w http.ResponseWriter, r *http.Request) {
	userID, courseID, ok := h.enrollmentTarget(w, r)
	if !ok {
		return
	}

	status, err := h.enrollmentService.FreeEnroll(r.Context(), userID, courseID)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to enroll for free")
		return
	}

	h.RespondJSON(w, http.StatusOK, models.StatusResponse{Status: status})
}

// MyCourses handles GET /my-courses
// @Summary List my courses
// @Description Get the courses the caller is enrolled in
// @Tags enrollment
// @Produce json
// @Success 200 {array} models.CourseListItem "Enrolled courses"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Security ApiKeyAuth
// @Router /my-courses [get]
func (h *CourseHandler) MyCourses(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	courses, err := h.enrollmentService.MyCourses(r.Context(), userID)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to list enrolled courses")
		return
	}
	if courses == nil {
		courses = []models.CourseListItem{}
	}

	h.RespondJSON(w, http.StatusOK, courses)
}

// enrollmentTarget resolves the caller and the course path parameter, answering on failure
func (h *CourseHandler) enrollmentTarget(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	userID, ok := h.userID(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return 0, 0, false
	}
	courseID, err := h.PathID(r, "id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid course ID")
		return 0, 0, false
	}
	return userID, courseID, true
}
