package services

import (
	"context"
	"net/url"
	"strings"

	"github.com/learnhub/backend/internal/access"
	"github.com/learnhub/backend/internal/models"
	"go.uber.org/zap"
)

// LessonAccessPolicy is the interface that wraps the lesson read rule
type LessonAccessPolicy interface {
	// IsEnrolledOrOwner checks whether the viewer may read the lesson
	//
	// "ctx" is the context for the request.
	// "viewer" is the caller.
	// "lessonID" is the ID of the lesson.
	//
	// Returns an error if the lesson is missing, access is denied or the check fails.
	IsEnrolledOrOwner(ctx context.Context, viewer access.Viewer, lessonID int) error
}

type lessonService struct {
	courses CourseRepository
	modules ModuleRepository
	lessons LessonRepository
	policy  LessonAccessPolicy
	logger  *zap.Logger
}

// NewLessonService creates a new lesson service
func NewLessonService(
	courses CourseRepository,
	modules ModuleRepository,
	lessons LessonRepository,
	policy LessonAccessPolicy,
	logger *zap.Logger,
) *lessonService {
	return &lessonService{
		courses: courses,
		modules: modules,
		lessons: lessons,
		policy:  policy,
		logger:  logger,
	}
}

// ListLessons returns lessons as seen by the viewer, optionally limited to one module
func (s *lessonService) ListLessons(ctx context.Context, moduleID *int, viewer access.Viewer) ([]models.LessonResponse, error) {
	return s.lessons.ListViews(ctx, moduleID, viewer.UserID)
}

// GetLesson returns one lesson to its course instructor or an enrolled student
func (s *lessonService) GetLesson(ctx context.Context, lessonID int, viewer access.Viewer) (*models.LessonResponse, error) {
	if err := s.policy.IsEnrolledOrOwner(ctx, viewer, lessonID); err != nil {
		return nil, err
	}
	return s.lessons.GetView(ctx, lessonID, viewer.UserID)
}

// CreateLesson adds a lesson to a module whose course the viewer owns
func (s *lessonService) CreateLesson(ctx context.Context, viewer access.Viewer, req *models.LessonWriteRequest) (*models.Lesson, error) {
	lesson := &models.Lesson{
		ModuleID: req.Module,
		Title:    strings.TrimSpace(req.Title),
		Order:    req.Order,
		VideoURL: strings.TrimSpace(req.VideoURL),
		Content:  req.Content,
	}
	if err := validateLesson(lesson); err != nil {
		return nil, err
	}

	if err := s.checkModuleOwner(ctx, lesson.ModuleID, viewer); err != nil {
		return nil, err
	}

	if err := s.lessons.Create(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// UpdateLesson replaces every field of a lesson the viewer owns
func (s *lessonService) UpdateLesson(ctx context.Context, lessonID int, viewer access.Viewer, req *models.LessonWriteRequest) (*models.Lesson, error) {
	return s.PatchLesson(ctx, lessonID, viewer, &models.LessonPatchRequest{
		Module:   &req.Module,
		Title:    &req.Title,
		Order:    &req.Order,
		VideoURL: &req.VideoURL,
		Content:  &req.Content,
	})
}

// PatchLesson updates the provided fields of a lesson the viewer owns
//
// Moving a lesson to another module requires owning that module's course as well.
func (s *lessonService) PatchLesson(ctx context.Context, lessonID int, viewer access.Viewer, req *models.LessonPatchRequest) (*models.Lesson, error) {
	if err := s.checkLessonOwner(ctx, lessonID, viewer); err != nil {
		return nil, err
	}

	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	if req.Module != nil && *req.Module != lesson.ModuleID {
		if err := s.checkModuleOwner(ctx, *req.Module, viewer); err != nil {
			return nil, err
		}
		lesson.ModuleID = *req.Module
	}
	if req.Title != nil {
		lesson.Title = strings.TrimSpace(*req.Title)
	}
	if req.Order != nil {
		lesson.Order = *req.Order
	}
	if req.VideoURL != nil {
		lesson.VideoURL = strings.TrimSpace(*req.VideoURL)
	}
	if req.Content != nil {
		lesson.Content = *req.Content
	}
	if err := validateLesson(lesson); err != nil {
		return nil, err
	}

	if err := s.lessons.Update(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// DeleteLesson deletes a lesson the viewer owns
func (s *lessonService) DeleteLesson(ctx context.Context, lessonID int, viewer access.Viewer) error {
	if err := s.checkLessonOwner(ctx, lessonID, viewer); err != nil {
		return err
	}
	return s.lessons.Delete(ctx, lessonID)
}

func (s *lessonService) checkLessonOwner(ctx context.Context, lessonID int, viewer access.Viewer) error {
	ownership, err := s.lessons.GetOwnership(ctx, lessonID)
	if err != nil {
		return err
	}
	if ownership.InstructorID != viewer.UserID {
		return models.NewError(models.ErrPermissionDenied, notOwnerMsg)
	}
	return nil
}

func (s *lessonService) checkModuleOwner(ctx context.Context, moduleID int, viewer access.Viewer) error {
	module, err := s.modules.GetByID(ctx, moduleID)
	if err != nil {
		return err
	}
	course, err := s.courses.GetByID(ctx, module.CourseID)
	if err != nil {
		return err
	}
	if course.InstructorID != viewer.UserID {
		return models.NewError(models.ErrPermissionDenied, notOwnerMsg)
	}
	return nil
}

func validateLesson(lesson *models.Lesson) error {
	if lesson.ModuleID <= 0 {
		return models.NewError(models.ErrValidation, "module is required")
	}
	if lesson.Title == "" {
		return models.NewError(models.ErrValidation, "title cannot be empty")
	}
	if len(lesson.Title) > maxTitleLength {
		return models.NewError(models.ErrValidation, "title must be at most %d characters", maxTitleLength)
	}
	if lesson.Order < 0 {
		return models.NewError(models.ErrValidation, "order cannot be negative")
	}
	if lesson.VideoURL != "" {
		u, err := url.ParseRequestURI(lesson.VideoURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return models.NewError(models.ErrValidation, "video_url must be a valid http or https URL")
		}
	}
	return nil
}
