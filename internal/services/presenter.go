package services

import "github.com/learnhub/backend/internal/models"

// buildCourseDetail nests lessons into their modules, keeping the order both lists arrive in
func buildCourseDetail(course *models.Course, modules []models.Module, lessons []models.LessonResponse, enrolled bool) *models.CourseDetailResponse {
	return &models.CourseDetailResponse{
		ID:          course.ID,
		Title:       course.Title,
		Description: course.Description,
		Instructor:  course.InstructorID,
		Price:       course.Price.StringFixed(2),
		Modules:     buildModules(modules, lessons),
		IsEnrolled:  enrolled,
	}
}

// buildModules groups lessons by module; modules without lessons get an empty list
func buildModules(modules []models.Module, lessons []models.LessonResponse) []models.ModuleResponse {
	byModule := make(map[int][]models.LessonResponse, len(modules))
	for _, lesson := range lessons {
		byModule[lesson.ModuleID] = append(byModule[lesson.ModuleID], lesson)
	}

	result := make([]models.ModuleResponse, 0, len(modules))
	for _, module := range modules {
		moduleLessons := byModule[module.ID]
		if moduleLessons == nil {
			moduleLessons = []models.LessonResponse{}
		}
		result = append(result, models.ModuleResponse{
			ID:      module.ID,
			Title:   module.Title,
			Order:   module.Order,
			Lessons: moduleLessons,
		})
	}
	return result
}
