package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/learnhub/backend/internal/access"
	"github.com/learnhub/backend/internal/models"
	authMiddleware "github.com/learnhub/backend/libs/auth/middleware"
	"github.com/learnhub/backend/libs/auth/service"
	"github.com/stretchr/testify/require"
)

var testTokens = service.NewTokenGenerator("handler-test-secret", time.Hour)

func tokenFor(t *testing.T, userID int, role models.Role) string {
	t.Helper()
	token, err := testTokens.GenerateAccessToken(userID, int(role))
	require.NoError(t, err)
	return token
}

func doRequest(router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func newRouter(register func(r chi.Router)) http.Handler {
	r := chi.NewRouter()
	register(r)
	return r
}

var (
	requireAuth  = authMiddleware.AuthMiddleware(testTokens)
	optionalAuth = authMiddleware.OptionalAuthMiddleware(testTokens)
)

// mockCourseService is a mock implementation of CourseService
type mockCourseService struct {
	courses    []models.CourseListItem
	course     *models.CourseDetailResponse
	err        error
	page       int
	count      int
	viewer     access.Viewer
	createReq  *models.CourseWriteRequest
	patchReq   *models.CoursePatchRequest
	deletedIDs []int
}

func (m *mockCourseService) ListCourses(ctx context.Context, page, count int) ([]models.CourseListItem, error) {
	m.page, m.count = page, count
	return m.courses, m.err
}

func (m *mockCourseService) GetCourse(ctx context.Context, courseID int, viewer access.Viewer) (*models.CourseDetailResponse, error) {
	m.viewer = viewer
	return m.course, m.err
}

func (m *mockCourseService) CreateCourse(ctx context.Context, viewer access.Viewer, req *models.CourseWriteRequest) (*models.CourseDetailResponse, error) {
	m.viewer = viewer
	m.createReq = req
	return m.course, m.err
}

func (m *mockCourseService) UpdateCourse(ctx context.Context, courseID int, viewer access.Viewer, req *models.CourseWriteRequest) (*models.CourseDetailResponse, error) {
	m.viewer = viewer
	m.createReq = req
	return m.course, m.err
}

func (m *mockCourseService) PatchCourse(ctx context.Context, courseID int, viewer access.Viewer, req *models.CoursePatchRequest) (*models.CourseDetailResponse, error) {
	m.viewer = viewer
	m.patchReq = req
	return m.course, m.err
}

func (m *mockCourseService) DeleteCourse(ctx context.Context, courseID int, viewer access.Viewer) error {
	m.viewer = viewer
	if m.err == nil {
		m.deletedIDs = append(m.deletedIDs, courseID)
	}
	return m.err
}

// mockEnrollmentService is a mock implementation of EnrollmentService
type mockEnrollmentService struct {
	order        *models.GatewayOrder
	created      bool
	freeStatus   string
	courses      []models.CourseListItem
	err          error
	userID       int
	courseID     int
	verification models.PaymentVerification
}

func (m *mockEnrollmentService) CreateOrder(ctx context.Context, userID, courseID int) (*models.GatewayOrder, error) {
	m.userID, m.courseID = userID, courseID
	return m.order, m.err
}

func (m *mockEnrollmentService) VerifyPayment(ctx context.Context, userID, courseID int, params models.PaymentVerification) error {
	m.userID, m.courseID = userID, courseID
	m.verification = params
	return m.err
}

func (m *mockEnrollmentService) FreeEnroll(ctx context.Context, userID, courseID int) (string, error) {
	m.userID, m.courseID = userID, courseID
	return m.freeStatus, m.err
}

func (m *mockEnrollmentService) Enroll(ctx context.Context, userID, courseID int) (bool, error) {
	m.userID, m.courseID = userID, courseID
	return m.created, m.err
}

func (m *mockEnrollmentService) MyCourses(ctx context.Context, userID int) ([]models.CourseListItem, error) {
	m.userID = userID
	return m.courses, m.err
}

// mockModuleService is a mock implementation of ModuleService
type mockModuleService struct {
	modules  []models.ModuleResponse
	module   *models.Module
	err      error
	courseID *int
	viewer   access.Viewer
}

func (m *mockModuleService) ListModules(ctx context.Context, courseID *int, viewer access.Viewer) ([]models.ModuleResponse, error) {
	m.courseID, m.viewer = courseID, viewer
	return m.modules, m.err
}

func (m *mockModuleService) GetModule(ctx context.Context, moduleID int, viewer access.Viewer) (*models.ModuleResponse, error) {
	m.viewer = viewer
	if m.err != nil {
		return nil, m.err
	}
	return &m.modules[0], nil
}

func (m *mockModuleService) CreateModule(ctx context.Context, viewer access.Viewer, req *models.ModuleWriteRequest) (*models.Module, error) {
	m.viewer = viewer
	return m.module, m.err
}

func (m *mockModuleService) UpdateModule(ctx context.Context, moduleID int, viewer access.Viewer, req *models.ModuleWriteRequest) (*models.Module, error) {
	m.viewer = viewer
	return m.module, m.err
}

func (m *mockModuleService) PatchModule(ctx context.Context, moduleID int, viewer access.Viewer, req *models.ModulePatchRequest) (*models.Module, error) {
	m.viewer = viewer
	return m.module, m.err
}

func (m *mockModuleService) DeleteModule(ctx context.Context, moduleID int, viewer access.Viewer) error {
	m.viewer = viewer
	return m.err
}

// mockLessonService is a mock implementation of LessonService
type mockLessonService struct {
	lessons  []models.LessonResponse
	view     *models.LessonResponse
	lesson   *models.Lesson
	err      error
	moduleID *int
	viewer   access.Viewer
}

func (m *mockLessonService) ListLessons(ctx context.Context, moduleID *int, viewer access.Viewer) ([]models.LessonResponse, error) {
	m.moduleID, m.viewer = moduleID, viewer
	return m.lessons, m.err
}

func (m *mockLessonService) GetLesson(ctx context.Context, lessonID int, viewer access.Viewer) (*models.LessonResponse, error) {
	m.viewer = viewer
	return m.view, m.err
}

func (m *mockLessonService) CreateLesson(ctx context.Context, viewer access.Viewer, req *models.LessonWriteRequest) (*models.Lesson, error) {
	m.viewer = viewer
	return m.lesson, m.err
}

func (m *mockLessonService) UpdateLesson(ctx context.Context, lessonID int, viewer access.Viewer, req *models.LessonWriteRequest) (*models.Lesson, error) {
	m.viewer = viewer
	return m.lesson, m.err
}

func (m *mockLessonService) PatchLesson(ctx context.Context, lessonID int, viewer access.Viewer, req *models.LessonPatchRequest) (*models.Lesson, error) {
	m.viewer = viewer
	return m.lesson, m.err
}

func (m *mockLessonService) DeleteLesson(ctx context.Context, lessonID int, viewer access.Viewer) error {
	m.viewer = viewer
	return m.err
}

// mockProgressService is a mock implementation of ProgressService
type mockProgressService struct {
	created  bool
	err      error
	userID   int
	lessonID int
}

func (m *mockProgressService) CompleteLesson(ctx context.Context, userID, lessonID int) (bool, error) {
	m.userID, m.lessonID = userID, lessonID
	return m.created, m.err
}
