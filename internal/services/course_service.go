package services

import (
	"context"
	"strings"

	"github.com/learnhub/backend/internal/access"
	"github.com/learnhub/backend/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	maxTitleLength = 200
	notOwnerMsg    = "You are not the instructor of this course."
)

var maxPrice = decimal.New(1, 8)

// CourseRepository is the interface that wraps methods for Course table data access
type CourseRepository interface {
	// GetByID retrieves a course by ID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the course.
	//
	// Returns the course and an error if any.
	GetByID(ctx context.Context, id int) (*models.Course, error)
	// GetAll retrieves a page of courses
	//
	// "ctx" is the context for the request.
	// "page" is the page number to retrieve.
	// "count" is the number of items per page.
	//
	// Returns a list of courses and an error if any.
	GetAll(ctx context.Context, page, count int) ([]models.CourseListItem, error)
	// GetEnrolledByUser retrieves the courses a user is enrolled in
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns a list of courses and an error if any.
	GetEnrolledByUser(ctx context.Context, userID int) ([]models.CourseListItem, error)
	// Create creates a new course
	//
	// "ctx" is the context for the request.
	// "course" is the course to create.
	//
	// Returns an error if any.
	Create(ctx context.Context, course *models.Course) error
	// Update updates a course
	//
	// "ctx" is the context for the request.
	// "course" is the course to update.
	//
	// Returns an error if any.
	Update(ctx context.Context, course *models.Course) error
	// Delete deletes a course
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the course.
	//
	// Returns an error if any.
	Delete(ctx context.Context, id int) error
}

// ModuleRepository is the interface that wraps methods for Module table data access
type ModuleRepository interface {
	// GetByID retrieves a module by ID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the module.
	//
	// Returns the module and an error if any.
	GetByID(ctx context.Context, id int) (*models.Module, error)
	// List retrieves modules, optionally limited to one course
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course or nil for every module.
	//
	// Returns a list of modules and an error if any.
	List(ctx context.Context, courseID *int) ([]models.Module, error)
	// Create creates a new module
	//
	// "ctx" is the context for the request.
	// "module" is the module to create.
	//
	// Returns an error if any.
	Create(ctx context.Context, module *models.Module) error
	// Update updates a module
	//
	// "ctx" is the context for the request.
	// "module" is the module to update.
	//
	// Returns an error if any.
	Update(ctx context.Context, module *models.Module) error
	// Delete deletes a module
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the module.
	//
	// Returns an error if any.
	Delete(ctx context.Context, id int) error
}

// LessonRepository is the interface that wraps methods for Lesson table data access
type LessonRepository interface {
	// GetByID retrieves a lesson by ID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the lesson.
	//
	// Returns the lesson and an error if any.
	GetByID(ctx context.Context, id int) (*models.Lesson, error)
	// GetOwnership resolves a lesson to its course and instructor
	//
	// "ctx" is the context for the request.
	// "lessonID" is the ID of the lesson.
	//
	// Returns the ownership and an error if any.
	GetOwnership(ctx context.Context, lessonID int) (*models.LessonOwnership, error)
	// GetView retrieves a lesson as seen by a user
	//
	// "ctx" is the context for the request.
	// "lessonID" is the ID of the lesson.
	// "userID" is the ID of the viewer, 0 for anonymous.
	//
	// Returns the lesson and an error if any.
	GetView(ctx context.Context, lessonID, userID int) (*models.LessonResponse, error)
	// GetViewsByCourse retrieves every lesson of a course as seen by a user
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "userID" is the ID of the viewer, 0 for anonymous.
	//
	// Returns a list of lessons and an error if any.
	GetViewsByCourse(ctx context.Context, courseID, userID int) ([]models.LessonResponse, error)
	// GetViewsByModule retrieves every lesson of a module as seen by a user
	//
	// "ctx" is the context for the request.
	// "moduleID" is the ID of the module.
	// "userID" is the ID of the viewer, 0 for anonymous.
	//
	// Returns a list of lessons and an error if any.
	GetViewsByModule(ctx context.Context, moduleID, userID int) ([]models.LessonResponse, error)
	// ListViews retrieves lessons as seen by a user, optionally limited to one module
	//
	// "ctx" is the context for the request.
	// "moduleID" is the ID of the module or nil for every lesson.
	// "userID" is the ID of the viewer, 0 for anonymous.
	//
	// Returns a list of lessons and an error if any.
	ListViews(ctx context.Context, moduleID *int, userID int) ([]models.LessonResponse, error)
	// Create creates a new lesson
	//
	// "ctx" is the context for the request.
	// "lesson" is the lesson to create.
	//
	// Returns an error if any.
	Create(ctx context.Context, lesson *models.Lesson) error
	// Update updates a lesson
	//
	// "ctx" is the context for the request.
	// "lesson" is the lesson to update.
	//
	// Returns an error if any.
	Update(ctx context.Context, lesson *models.Lesson) error
	// Delete deletes a lesson
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the lesson.
	//
	// Returns an error if any.
	Delete(ctx context.Context, id int) error
}

// EnrollmentRepository is the interface that wraps methods for Enrollment table data access
type EnrollmentRepository interface {
	// Exists checks if a user is enrolled in a course
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseID" is the ID of the course.
	//
	// Returns a boolean and an error if any.
	Exists(ctx context.Context, userID, courseID int) (bool, error)
	// GetOrCreate enrolls a user in a course unless already enrolled
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseID" is the ID of the course.
	//
	// Returns true if the enrollment was created and an error if any.
	GetOrCreate(ctx context.Context, userID, courseID int) (bool, error)
}

// CourseListCache is the interface that wraps methods for caching course list pages
type CourseListCache interface {
	// GetCourseList returns a cached page
	//
	// "ctx" is the context for the request.
	// "page" is the page number.
	// "count" is the number of items per page.
	//
	// Returns the courses, whether the page was cached and an error if any.
	GetCourseList(ctx context.Context, page, count int) ([]models.CourseListItem, bool, error)
	// SetCourseList stores a page
	//
	// "ctx" is the context for the request.
	// "page" is the page number.
	// "count" is the number of items per page.
	// "courses" is the page content.
	//
	// Returns an error if any.
	SetCourseList(ctx context.Context, page, count int, courses []models.CourseListItem) error
	// InvalidateCourseList drops every cached page
	//
	// "ctx" is the context for the request.
	//
	// Returns an error if any.
	InvalidateCourseList(ctx context.Context) error
}

type courseService struct {
	courses     CourseRepository
	modules     ModuleRepository
	lessons     LessonRepository
	enrollments EnrollmentRepository
	cache       CourseListCache
	logger      *zap.Logger
}

// NewCourseService creates a new course service
func NewCourseService(
	courses CourseRepository,
	modules ModuleRepository,
	lessons LessonRepository,
	enrollments EnrollmentRepository,
	cache CourseListCache,
	logger *zap.Logger,
) *courseService {
	return &courseService{
		courses:     courses,
		modules:     modules,
		lessons:     lessons,
		enrollments: enrollments,
		cache:       cache,
		logger:      logger,
	}
}

// ListCourses returns a page of courses, served from the cache when possible
func (s *courseService) ListCourses(ctx context.Context, page, count int) ([]models.CourseListItem, error) {
	courses, found, err := s.cache.GetCourseList(ctx, page, count)
	if err != nil {
		s.logger.Warn("failed to read course list cache", zap.Error(err))
	}
	if found {
		return courses, nil
	}

	courses, err = s.courses.GetAll(ctx, page, count)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetCourseList(ctx, page, count, courses); err != nil {
		s.logger.Warn("failed to write course list cache", zap.Error(err))
	}
	return courses, nil
}

// GetCourse returns the nested course detail as seen by the viewer
func (s *courseService) GetCourse(ctx context.Context, courseID int, viewer access.Viewer) (*models.CourseDetailResponse, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return s.buildCourseDetail(ctx, course, viewer)
}

// CreateCourse creates a course owned by the viewer
func (s *courseService) CreateCourse(ctx context.Context, viewer access.Viewer, req *models.CourseWriteRequest) (*models.CourseDetailResponse, error) {
	course := &models.Course{
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		InstructorID: viewer.UserID,
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if err := validateCourse(course); err != nil {
		return nil, err
	}

	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	s.invalidateList(ctx)

	return buildCourseDetail(course, nil, nil, false), nil
}

// UpdateCourse replaces the editable fields of a course owned by the viewer
func (s *courseService) UpdateCourse(ctx context.Context, courseID int, viewer access.Viewer, req *models.CourseWriteRequest) (*models.CourseDetailResponse, error) {
	return s.PatchCourse(ctx, courseID, viewer, &models.CoursePatchRequest{
		Title:       &req.Title,
		Description: &req.Description,
		Price:       req.Price,
	})
}

// PatchCourse updates the provided fields of a course owned by the viewer
func (s *courseService) PatchCourse(ctx context.Context, courseID int, viewer access.Viewer, req *models.CoursePatchRequest) (*models.CourseDetailResponse, error) {
	course, err := s.ownedCourse(ctx, courseID, viewer)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if err := validateCourse(course); err != nil {
		return nil, err
	}

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}
	s.invalidateList(ctx)

	return s.buildCourseDetail(ctx, course, viewer)
}

// DeleteCourse deletes a course owned by the viewer
func (s *courseService) DeleteCourse(ctx context.Context, courseID int, viewer access.Viewer) error {
	if _, err := s.ownedCourse(ctx, courseID, viewer); err != nil {
		return err
	}

	if err := s.courses.Delete(ctx, courseID); err != nil {
		return err
	}
	s.invalidateList(ctx)
	return nil
}

func (s *courseService) ownedCourse(ctx context.Context, courseID int, viewer access.Viewer) (*models.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.InstructorID != viewer.UserID {
		return nil, models.NewError(models.ErrPermissionDenied, notOwnerMsg)
	}
	return course, nil
}

func (s *courseService) invalidateList(ctx context.Context) {
	if err := s.cache.InvalidateCourseList(ctx); err != nil {
		s.logger.Warn("failed to invalidate course list cache", zap.Error(err))
	}
}

func (s *courseService) buildCourseDetail(ctx context.Context, course *models.Course, viewer access.Viewer) (*models.CourseDetailResponse, error) {
	modules, err := s.modules.List(ctx, &course.ID)
	if err != nil {
		return nil, err
	}

	lessons, err := s.lessons.GetViewsByCourse(ctx, course.ID, viewer.UserID)
	if err != nil {
		return nil, err
	}

	enrolled := false
	if viewer.Authenticated {
		enrolled, err = s.enrollments.Exists(ctx, viewer.UserID, course.ID)
		if err != nil {
			return nil, err
		}
	}

	return buildCourseDetail(course, modules, lessons, enrolled), nil
}

func validateCourse(course *models.Course) error {
	if course.Title == "" {
		return models.NewError(models.ErrValidation, "title cannot be empty")
	}
	if len(course.Title) > maxTitleLength {
		return models.NewError(models.ErrValidation, "title must be at most %d characters", maxTitleLength)
	}
	if course.Price.IsNegative() {
		return models.NewError(models.ErrValidation, "price cannot be negative")
	}
	if course.Price.GreaterThanOrEqual(maxPrice) {
		return models.NewError(models.ErrValidation, "price must be less than %s", maxPrice.String())
	}
	if !course.Price.Equal(course.Price.Truncate(2)) {
		return models.NewError(models.ErrValidation, "price must have at most 2 decimal places")
	}
	return nil
}
