package services

import (
	"context"
	"testing"

	"github.com/learnhub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupLessonService(policy *mockLessonAccessPolicy) (*lessonService, *mockLessonRepository) {
	courses := newMockCourseRepository(
		&models.Course{ID: 1, Title: "Go", InstructorID: ownerViewer.UserID},
		&models.Course{ID: 2, Title: "Rust", InstructorID: otherViewer.UserID},
	)
	modules := newMockModuleRepository(
		&models.Module{ID: 5, CourseID: 1, Title: "Basics"},
		&models.Module{ID: 6, CourseID: 2, Title: "Ownership"},
		&models.Module{ID: 9, CourseID: 1, Title: "Advanced"},
	)
	lessons := newMockLessonRepository()
	lessons.add(&models.Lesson{ID: 7, ModuleID: 5, Title: "Intro", VideoURL: "https://video.example.com/7"}, 1, ownerViewer.UserID)
	lessons.add(&models.Lesson{ID: 8, ModuleID: 6, Title: "Borrowing"}, 2, otherViewer.UserID)
	lessons.views = []models.LessonResponse{
		{ID: 7, ModuleID: 5, Title: "Intro", InstructorID: ownerViewer.UserID},
		{ID: 8, ModuleID: 6, Title: "Borrowing", InstructorID: otherViewer.UserID},
	}
	return NewLessonService(courses, modules, lessons, policy, zap.NewNop()), lessons
}

func TestLessonService_GetLesson(t *testing.T) {
	ctx := context.Background()

	t.Run("allowed", func(t *testing.T) {
		policy := &mockLessonAccessPolicy{}
		svc, lessons := setupLessonService(policy)

		lesson, err := svc.GetLesson(ctx, 7, studentViewer)

		require.NoError(t, err)
		assert.Equal(t, "Intro", lesson.Title)
		assert.Equal(t, 1, policy.calls)
		assert.Equal(t, studentViewer.UserID, lessons.viewUserID)
	})

	t.Run("denied before loading", func(t *testing.T) {
		policy := &mockLessonAccessPolicy{err: models.NewError(models.ErrPermissionDenied, "no access")}
		svc, lessons := setupLessonService(policy)

		_, err := svc.GetLesson(ctx, 7, studentViewer)

		assert.ErrorIs(t, err, models.ErrPermissionDenied)
		assert.Zero(t, lessons.viewUserID)
	})
}

func TestLessonService_ListLessons(t *testing.T) {
	svc, _ := setupLessonService(&mockLessonAccessPolicy{})
	moduleID := 6

	all, err := svc.ListLessons(context.Background(), nil, anonymousViewer)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := svc.ListLessons(context.Background(), &moduleID, anonymousViewer)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, 8, filtered[0].ID)
}

func TestLessonService_CreateLesson(t *testing.T) {
	tests := []struct {
		name          string
		req           models.LessonWriteRequest
		expectedError error
	}{
		{name: "own module", req: models.LessonWriteRequest{Module: 5, Title: "Loops", VideoURL: "http://cdn.example.com/v.mp4"}},
		{name: "no video", req: models.LessonWriteRequest{Module: 5, Title: "Reading", Content: "text"}},
		{name: "foreign module", req: models.LessonWriteRequest{Module: 6, Title: "Loops"}, expectedError: models.ErrPermissionDenied},
		{name: "missing module", req: models.LessonWriteRequest{Module: 42, Title: "Loops"}, expectedError: models.ErrNotFound},
		{name: "bad video url", req: models.LessonWriteRequest{Module: 5, Title: "Loops", VideoURL: "ftp://x"}, expectedError: models.ErrValidation},
		{name: "relative video url", req: models.LessonWriteRequest{Module: 5, Title: "Loops", VideoURL: "/video.mp4"}, expectedError: models.ErrValidation},
		{name: "empty title", req: models.LessonWriteRequest{Module: 5}, expectedError: models.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, lessons := setupLessonService(&mockLessonAccessPolicy{})

			lesson, err := svc.CreateLesson(context.Background(), ownerViewer, &tt.req)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, lessons.created)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 300, lesson.ID)
			assert.Equal(t, tt.req.Module, lessons.created.ModuleID)
		})
	}
}

func TestLessonService_PatchLesson(t *testing.T) {
	ctx := context.Background()
	ownModule := 9
	foreignModule := 6
	content := "updated"

	t.Run("owner moves lesson within own course", func(t *testing.T) {
		svc, lessons := setupLessonService(&mockLessonAccessPolicy{})

		lesson, err := svc.PatchLesson(ctx, 7, ownerViewer, &models.LessonPatchRequest{Module: &ownModule, Content: &content})

		require.NoError(t, err)
		assert.Equal(t, 9, lesson.ModuleID)
		assert.Equal(t, "updated", lessons.updated.Content)
		assert.Equal(t, "https://video.example.com/7", lessons.updated.VideoURL)
	})

	t.Run("moving into a foreign module is rejected", func(t *testing.T) {
		svc, lessons := setupLessonService(&mockLessonAccessPolicy{})

		_, err := svc.PatchLesson(ctx, 7, ownerViewer, &models.LessonPatchRequest{Module: &foreignModule})

		assert.ErrorIs(t, err, models.ErrPermissionDenied)
		assert.Nil(t, lessons.updated)
	})

	t.Run("student cannot edit", func(t *testing.T) {
		svc, lessons := setupLessonService(&mockLessonAccessPolicy{})

		_, err := svc.UpdateLesson(ctx, 7, studentViewer, &models.LessonWriteRequest{Module: 5, Title: "x"})

		assert.ErrorIs(t, err, models.ErrPermissionDenied)
		assert.Nil(t, lessons.updated)
	})

	t.Run("missing lesson", func(t *testing.T) {
		svc, _ := setupLessonService(&mockLessonAccessPolicy{})

		_, err := svc.PatchLesson(ctx, 99, ownerViewer, &models.LessonPatchRequest{Content: &content})

		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestLessonService_DeleteLesson(t *testing.T) {
	svc, lessons := setupLessonService(&mockLessonAccessPolicy{})

	err := svc.DeleteLesson(context.Background(), 8, ownerViewer)
	assert.ErrorIs(t, err, models.ErrPermissionDenied)

	err = svc.DeleteLesson(context.Background(), 7, ownerViewer)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, lessons.deleted)
}
