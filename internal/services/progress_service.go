package services

import "context"

// LessonCompletionRepository is the interface that wraps methods for LessonCompletion table data access
type LessonCompletionRepository interface {
	// GetOrCreate records a lesson completion unless already recorded
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "lessonID" is the ID of the lesson.
	//
	// Returns true if the completion was created and an error if any.
	GetOrCreate(ctx context.Context, userID, lessonID int) (bool, error)
}

type progressService struct {
	lessons     LessonRepository
	completions LessonCompletionRepository
}

// NewProgressService creates a new progress service
func NewProgressService(lessons LessonRepository, completions LessonCompletionRepository) *progressService {
	return &progressService{
		lessons:     lessons,
		completions: completions,
	}
}

// CompleteLesson marks a lesson completed for the user
//
// Returns true on the first completion and false when it was already recorded.
// TODO: gate on enrollment or ownership the way lesson reads are gated.
func (s *progressService) CompleteLesson(ctx context.Context, userID, lessonID int) (bool, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return false, err
	}
	return s.completions.GetOrCreate(ctx, userID, lesson.ID)
}

