package services

import (
	"context"
	"strings"

	"github.com/learnhub/backend/internal/access"
	"github.com/learnhub/backend/internal/models"
	"go.uber.org/zap"
)

type moduleService struct {
	courses CourseRepository
	modules ModuleRepository
	lessons LessonRepository
	logger  *zap.Logger
}

// NewModuleService creates a new module service
func NewModuleService(courses CourseRepository, modules ModuleRepository, lessons LessonRepository, logger *zap.Logger) *moduleService {
	return &moduleService{
		courses: courses,
		modules: modules,
		lessons: lessons,
		logger:  logger,
	}
}

// ListModules returns modules with their lessons, optionally limited to one course
func (s *moduleService) ListModules(ctx context.Context, courseID *int, viewer access.Viewer) ([]models.ModuleResponse, error) {
	modules, err := s.modules.List(ctx, courseID)
	if err != nil {
		return nil, err
	}

	var lessons []models.LessonResponse
	if courseID != nil {
		lessons, err = s.lessons.GetViewsByCourse(ctx, *courseID, viewer.UserID)
	} else {
		lessons, err = s.lessons.ListViews(ctx, nil, viewer.UserID)
	}
	if err != nil {
		return nil, err
	}

	return buildModules(modules, lessons), nil
}

// GetModule returns one module with its lessons
func (s *moduleService) GetModule(ctx context.Context, moduleID int, viewer access.Viewer) (*models.ModuleResponse, error) {
	module, err := s.modules.GetByID(ctx, moduleID)
	if err != nil {
		return nil, err
	}

	lessons, err := s.lessons.GetViewsByModule(ctx, moduleID, viewer.UserID)
	if err != nil {
		return nil, err
	}

	return &buildModules([]models.Module{*module}, lessons)[0], nil
}

// CreateModule adds a module to a course owned by the viewer
func (s *moduleService) CreateModule(ctx context.Context, viewer access.Viewer, req *models.ModuleWriteRequest) (*models.Module, error) {
	module := &models.Module{
		CourseID: req.Course,
		Title:    strings.TrimSpace(req.Title),
		Order:    req.Order,
	}
	if err := validateModule(module); err != nil {
		return nil, err
	}

	if err := s.checkCourseOwner(ctx, module.CourseID, viewer); err != nil {
		return nil, err
	}

	if err := s.modules.Create(ctx, module); err != nil {
		return nil, err
	}
	return module, nil
}

// UpdateModule replaces every field of a module owned by the viewer
func (s *moduleService) UpdateModule(ctx context.Context, moduleID int, viewer access.Viewer, req *models.ModuleWriteRequest) (*models.Module, error) {
	return s.PatchModule(ctx, moduleID, viewer, &models.ModulePatchRequest{
		Course: &req.Course,
		Title:  &req.Title,
		Order:  &req.Order,
	})
}

// PatchModule updates the provided fields of a module owned by the viewer
//
// Moving a module to another course requires owning that course as well.
func (s *moduleService) PatchModule(ctx context.Context, moduleID int, viewer access.Viewer, req *models.ModulePatchRequest) (*models.Module, error) {
	module, err := s.ownedModule(ctx, moduleID, viewer)
	if err != nil {
		return nil, err
	}

	if req.Course != nil && *req.Course != module.CourseID {
		if err := s.checkCourseOwner(ctx, *req.Course, viewer); err != nil {
			return nil, err
		}
		module.CourseID = *req.Course
	}
	if req.Title != nil {
		module.Title = strings.TrimSpace(*req.Title)
	}
	if req.Order != nil {
		module.Order = *req.Order
	}
	if err := validateModule(module); err != nil {
		return nil, err
	}

	if err := s.modules.Update(ctx, module); err != nil {
		return nil, err
	}
	return module, nil
}

// DeleteModule deletes a module owned by the viewer together with its lessons
func (s *moduleService) DeleteModule(ctx context.Context, moduleID int, viewer access.Viewer) error {
	if _, err := s.ownedModule(ctx, moduleID, viewer); err != nil {
		return err
	}
	return s.modules.Delete(ctx, moduleID)
}

func (s *moduleService) ownedModule(ctx context.Context, moduleID int, viewer access.Viewer) (*models.Module, error) {
	module, err := s.modules.GetByID(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if err := s.checkCourseOwner(ctx, module.CourseID, viewer); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *moduleService) checkCourseOwner(ctx context.Context, courseID int, viewer access.Viewer) error {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	if course.InstructorID != viewer.UserID {
		return models.NewError(models.ErrPermissionDenied, notOwnerMsg)
	}
	return nil
}

func validateModule(module *models.Module) error {
	if module.CourseID <= 0 {
		return models.NewError(models.ErrValidation, "course is required")
	}
	if module.Title == "" {
		return models.NewError(models.ErrValidation, "title cannot be empty")
	}
	if len(module.Title) > maxTitleLength {
		return models.NewError(models.ErrValidation, "title must be at most %d characters", maxTitleLength)
	}
	if module.Order < 0 {
		return models.NewError(models.ErrValidation, "order cannot be negative")
	}
	return nil
}
