// Package access holds the authorization rules for catalogue writes and lesson reads.
package access

import (
	"context"
	"errors"
	"net/http"

	"github.com/learnhub/backend/internal/models"
	authMiddleware "github.com/learnhub/backend/libs/auth/middleware"
	"github.com/learnhub/backend/libs/handlers"
	"go.uber.org/zap"
)

// Viewer identifies the caller of a request
type Viewer struct {
	UserID        int
	Role          models.Role
	Authenticated bool
}

// ViewerFromContext builds the Viewer from the values set by the auth middleware
func ViewerFromContext(ctx context.Context) Viewer {
	userID, ok := authMiddleware.GetUserID(ctx)
	if !ok {
		return Viewer{}
	}
	role, _ := authMiddleware.GetRole(ctx)
	return Viewer{UserID: userID, Role: models.Role(role), Authenticated: true}
}

// IsSafeMethod reports whether the HTTP method only reads
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// InstructorOrReadOnly allows any viewer to read and only instructors to write
//
// Returns nil when allowed, otherwise an error of kind ErrUnauthorized or ErrPermissionDenied.
func InstructorOrReadOnly(viewer Viewer, method string) error {
	if IsSafeMethod(method) {
		return nil
	}
	if !viewer.Authenticated {
		return models.NewError(models.ErrUnauthorized, "Authentication credentials were not provided.")
	}
	if !viewer.Role.CanTeach() {
		return models.NewError(models.ErrPermissionDenied, "You do not have permission to perform this action.")
	}
	return nil
}

// InstructorOrReadOnlyMiddleware applies InstructorOrReadOnly to every request.
// It must run after an auth middleware has populated the context.
func InstructorOrReadOnlyMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	base := handlers.BaseHandler{Logger: logger}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := InstructorOrReadOnly(ViewerFromContext(r.Context()), r.Method)
			if err == nil {
				next.ServeHTTP(w, r)
				return
			}
			status := http.StatusForbidden
			if errors.Is(err, models.ErrUnauthorized) {
				status = http.StatusUnauthorized
			}
			base.RespondError(w, status, err.Error())
		})
	}
}

// LessonAccess is everything needed to decide whether a viewer may open a lesson
type LessonAccess struct {
	Ownership models.LessonOwnership
	Enrolled  bool
}

// CanViewLesson allows the course instructor and enrolled students
func CanViewLesson(viewer Viewer, lesson LessonAccess) bool {
	if !viewer.Authenticated {
		return false
	}
	return lesson.Ownership.InstructorID == viewer.UserID || lesson.Enrolled
}

// LessonResolver resolves a lesson to its course and instructor
type LessonResolver interface {
	// GetOwnership retrieves the course and instructor a lesson belongs to
	//
	// "ctx" is the context for the request.
	// "lessonID" is the ID of the lesson.
	//
	// Returns the ownership and an error if any.
	GetOwnership(ctx context.Context, lessonID int) (*models.LessonOwnership, error)
}

// EnrollmentChecker answers whether a user is enrolled in a course
type EnrollmentChecker interface {
	// Exists checks if a user is enrolled in a course
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseID" is the ID of the course.
	//
	// Returns a boolean and an error if any.
	Exists(ctx context.Context, userID, courseID int) (bool, error)
}

// Policy resolves the facts CanViewLesson needs from the store
type Policy struct {
	lessons     LessonResolver
	enrollments EnrollmentChecker
}

// NewPolicy creates a new lesson access policy
func NewPolicy(lessons LessonResolver, enrollments EnrollmentChecker) *Policy {
	return &Policy{
		lessons:     lessons,
		enrollments: enrollments,
	}
}

// IsEnrolledOrOwner checks whether the viewer may read the lesson
//
// Returns ErrNotFound for a missing lesson and ErrPermissionDenied when the viewer
// is neither the course instructor nor enrolled in the course.
func (p *Policy) IsEnrolledOrOwner(ctx context.Context, viewer Viewer, lessonID int) error {
	ownership, err := p.lessons.GetOwnership(ctx, lessonID)
	if err != nil {
		return err
	}

	lesson := LessonAccess{Ownership: *ownership}
	if viewer.Authenticated && ownership.InstructorID != viewer.UserID {
		lesson.Enrolled, err = p.enrollments.Exists(ctx, viewer.UserID, ownership.CourseID)
		if err != nil {
			return err
		}
	}

	if !CanViewLesson(viewer, lesson) {
		return models.NewError(models.ErrPermissionDenied, "You do not have permission to perform this action.")
	}
	return nil
}
