package services

import (
	"context"
	"fmt"

	"github.com/learnhub/backend/internal/access"
	"github.com/learnhub/backend/internal/models"
)

var (
	ownerViewer     = access.Viewer{UserID: 10, Role: models.RoleInstructor, Authenticated: true}
	otherViewer     = access.Viewer{UserID: 11, Role: models.RoleInstructor, Authenticated: true}
	studentViewer   = access.Viewer{UserID: 20, Role: models.RoleStudent, Authenticated: true}
	anonymousViewer = access.Viewer{}
)

// mockCourseRepository is a mock implementation of CourseRepository
type mockCourseRepository struct {
	courses   map[int]*models.Course
	list      []models.CourseListItem
	enrolled  []models.CourseListItem
	err       error
	created   *models.Course
	updated   *models.Course
	deleted   []int
	listCalls int
}

func newMockCourseRepository(courses ...*models.Course) *mockCourseRepository {
	m := &mockCourseRepository{courses: map[int]*models.Course{}}
	for _, course := range courses {
		m.courses[course.ID] = course
	}
	return m
}

func (m *mockCourseRepository) GetByID(ctx context.Context, id int) (*models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	course, ok := m.courses[id]
	if !ok {
		return nil, models.NewError(models.ErrNotFound, "Course not found")
	}
	copied := *course
	return &copied, nil
}

func (m *mockCourseRepository) GetAll(ctx context.Context, page, count int) ([]models.CourseListItem, error) {
	m.listCalls++
	return m.list, m.err
}

func (m *mockCourseRepository) GetEnrolledByUser(ctx context.Context, userID int) ([]models.CourseListItem, error) {
	return m.enrolled, m.err
}

func (m *mockCourseRepository) Create(ctx context.Context, course *models.Course) error {
	if m.err != nil {
		return m.err
	}
	course.ID = 100
	m.created = course
	return nil
}

func (m *mockCourseRepository) Update(ctx context.Context, course *models.Course) error {
	if m.err != nil {
		return m.err
	}
	m.updated = course
	return nil
}

func (m *mockCourseRepository) Delete(ctx context.Context, id int) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

// mockModuleRepository is a mock implementation of ModuleRepository
type mockModuleRepository struct {
	modules map[int]*models.Module
	list    []models.Module
	err     error
	created *models.Module
	updated *models.Module
	deleted []int
}

func newMockModuleRepository(modules ...*models.Module) *mockModuleRepository {
	m := &mockModuleRepository{modules: map[int]*models.Module{}}
	for _, module := range modules {
		m.modules[module.ID] = module
		m.list = append(m.list, *module)
	}
	return m
}

func (m *mockModuleRepository) GetByID(ctx context.Context, id int) (*models.Module, error) {
	if m.err != nil {
		return nil, m.err
	}
	module, ok := m.modules[id]
	if !ok {
		return nil, models.NewError(models.ErrNotFound, "Module not found")
	}
	copied := *module
	return &copied, nil
}

func (m *mockModuleRepository) List(ctx context.Context, courseID *int) ([]models.Module, error) {
	if m.err != nil {
		return nil, m.err
	}
	if courseID == nil {
		return m.list, nil
	}
	var filtered []models.Module
	for _, module := range m.list {
		if module.CourseID == *courseID {
			filtered = append(filtered, module)
		}
	}
	return filtered, nil
}

func (m *mockModuleRepository) Create(ctx context.Context, module *models.Module) error {
	if m.err != nil {
		return m.err
	}
	module.ID = 200
	m.created = module
	return nil
}

func (m *mockModuleRepository) Update(ctx context.Context, module *models.Module) error {
	if m.err != nil {
		return m.err
	}
	m.updated = module
	return nil
}

func (m *mockModuleRepository) Delete(ctx context.Context, id int) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

// mockLessonRepository is a mock implementation of LessonRepository
type mockLessonRepository struct {
	lessons    map[int]*models.Lesson
	ownerships map[int]*models.LessonOwnership
	views      []models.LessonResponse
	err        error
	created    *models.Lesson
	updated    *models.Lesson
	deleted    []int
	viewUserID int
}

func newMockLessonRepository() *mockLessonRepository {
	return &mockLessonRepository{
		lessons:    map[int]*models.Lesson{},
		ownerships: map[int]*models.LessonOwnership{},
	}
}

func (m *mockLessonRepository) add(lesson *models.Lesson, courseID, instructorID int) {
	m.lessons[lesson.ID] = lesson
	m.ownerships[lesson.ID] = &models.LessonOwnership{
		LessonID:     lesson.ID,
		ModuleID:     lesson.ModuleID,
		CourseID:     courseID,
		InstructorID: instructorID,
	}
}

func (m *mockLessonRepository) GetByID(ctx context.Context, id int) (*models.Lesson, error) {
	if m.err != nil {
		return nil, m.err
	}
	lesson, ok := m.lessons[id]
	if !ok {
		return nil, models.NewError(models.ErrNotFound, "Lesson not found")
	}
	copied := *lesson
	return &copied, nil
}

func (m *mockLessonRepository) GetOwnership(ctx context.Context, lessonID int) (*models.LessonOwnership, error) {
	if m.err != nil {
		return nil, m.err
	}
	ownership, ok := m.ownerships[lessonID]
	if !ok {
		return nil, models.NewError(models.ErrNotFound, "Lesson not found")
	}
	return ownership, nil
}

func (m *mockLessonRepository) GetView(ctx context.Context, lessonID, userID int) (*models.LessonResponse, error) {
	m.viewUserID = userID
	if m.err != nil {
		return nil, m.err
	}
	for _, view := range m.views {
		if view.ID == lessonID {
			return &view, nil
		}
	}
	return nil, models.NewError(models.ErrNotFound, "Lesson not found")
}

func (m *mockLessonRepository) GetViewsByCourse(ctx context.Context, courseID, userID int) ([]models.LessonResponse, error) {
	m.viewUserID = userID
	return m.views, m.err
}

func (m *mockLessonRepository) GetViewsByModule(ctx context.Context, moduleID, userID int) ([]models.LessonResponse, error) {
	m.viewUserID = userID
	if m.err != nil {
		return nil, m.err
	}
	var filtered []models.LessonResponse
	for _, view := range m.views {
		if view.ModuleID == moduleID {
			filtered = append(filtered, view)
		}
	}
	return filtered, nil
}

func (m *mockLessonRepository) ListViews(ctx context.Context, moduleID *int, userID int) ([]models.LessonResponse, error) {
	if moduleID != nil {
		return m.GetViewsByModule(ctx, *moduleID, userID)
	}
	m.viewUserID = userID
	return m.views, m.err
}

func (m *mockLessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	if m.err != nil {
		return m.err
	}
	lesson.ID = 300
	m.created = lesson
	return nil
}

func (m *mockLessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	if m.err != nil {
		return m.err
	}
	m.updated = lesson
	return nil
}

func (m *mockLessonRepository) Delete(ctx context.Context, id int) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

// mockEnrollmentRepository keeps enrollments in memory with get-or-create semantics
type mockEnrollmentRepository struct {
	enrolled map[string]bool
	err      error
}

func newMockEnrollmentRepository() *mockEnrollmentRepository {
	return &mockEnrollmentRepository{enrolled: map[string]bool{}}
}

func enrollmentKey(userID, courseID int) string {
	return fmt.Sprintf("%d:%d", userID, courseID)
}

func (m *mockEnrollmentRepository) Exists(ctx context.Context, userID, courseID int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.enrolled[enrollmentKey(userID, courseID)], nil
}

func (m *mockEnrollmentRepository) GetOrCreate(ctx context.Context, userID, courseID int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	key := enrollmentKey(userID, courseID)
	if m.enrolled[key] {
		return false, nil
	}
	m.enrolled[key] = true
	return true, nil
}

func (m *mockEnrollmentRepository) count() int {
	return len(m.enrolled)
}

// mockCourseListCache is a mock implementation of CourseListCache
type mockCourseListCache struct {
	pages         map[string][]models.CourseListItem
	getErr        error
	setErr        error
	invalidateErr error
	invalidations int
}

func newMockCourseListCache() *mockCourseListCache {
	return &mockCourseListCache{pages: map[string][]models.CourseListItem{}}
}

func (m *mockCourseListCache) GetCourseList(ctx context.Context, page, count int) ([]models.CourseListItem, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	courses, ok := m.pages[fmt.Sprintf("%d:%d", page, count)]
	return courses, ok, nil
}

func (m *mockCourseListCache) SetCourseList(ctx context.Context, page, count int, courses []models.CourseListItem) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.pages[fmt.Sprintf("%d:%d", page, count)] = courses
	return nil
}

func (m *mockCourseListCache) InvalidateCourseList(ctx context.Context) error {
	m.invalidations++
	if m.invalidateErr != nil {
		return m.invalidateErr
	}
	m.pages = map[string][]models.CourseListItem{}
	return nil
}

// mockPaymentGateway is a mock implementation of PaymentGateway
type mockPaymentGateway struct {
	order       *models.GatewayOrder
	createErr   error
	verifyErr   error
	createCalls int
	lastRequest models.OrderRequest
}

func (m *mockPaymentGateway) CreateOrder(ctx context.Context, req models.OrderRequest) (*models.GatewayOrder, error) {
	m.createCalls++
	m.lastRequest = req
	if m.createErr != nil {
		return nil, m.createErr
	}
	order := *m.order
	order.Amount = req.Amount
	order.Currency = req.Currency
	order.Receipt = req.Receipt
	return &order, nil
}

func (m *mockPaymentGateway) VerifyPaymentSignature(ctx context.Context, params models.PaymentVerification) error {
	return m.verifyErr
}

// mockPaymentOrderRepository keeps orders in memory and enrolls through the enrollment mock
type mockPaymentOrderRepository struct {
	orders      map[string]*models.PaymentOrder
	enrollments *mockEnrollmentRepository
	createErr   error
	markErr     error
	markCalls   int
}

func newMockPaymentOrderRepository(enrollments *mockEnrollmentRepository) *mockPaymentOrderRepository {
	return &mockPaymentOrderRepository{
		orders:      map[string]*models.PaymentOrder{},
		enrollments: enrollments,
	}
}

func (m *mockPaymentOrderRepository) Create(ctx context.Context, order *models.PaymentOrder) error {
	if m.createErr != nil {
		return m.createErr
	}
	order.ID = len(m.orders) + 1
	m.orders[order.OrderID] = order
	return nil
}

func (m *mockPaymentOrderRepository) GetByOrderID(ctx context.Context, orderID string) (*models.PaymentOrder, error) {
	order, ok := m.orders[orderID]
	if !ok {
		return nil, models.NewError(models.ErrNotFound, "Payment order not found")
	}
	return order, nil
}

func (m *mockPaymentOrderRepository) MarkPaidAndEnroll(ctx context.Context, order *models.PaymentOrder, paymentID string) (bool, error) {
	m.markCalls++
	if m.markErr != nil {
		return false, m.markErr
	}
	order.Status = models.PaymentOrderPaid
	order.PaymentID = paymentID
	return m.enrollments.GetOrCreate(ctx, order.UserID, order.CourseID)
}

// mockLessonCompletionRepository keeps completions in memory with get-or-create semantics
type mockLessonCompletionRepository struct {
	completed map[string]bool
	err       error
}

func (m *mockLessonCompletionRepository) GetOrCreate(ctx context.Context, userID, lessonID int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.completed == nil {
		m.completed = map[string]bool{}
	}
	key := fmt.Sprintf("%d:%d", userID, lessonID)
	if m.completed[key] {
		return false, nil
	}
	m.completed[key] = true
	return true, nil
}

// mockLessonAccessPolicy is a mock implementation of LessonAccessPolicy
type mockLessonAccessPolicy struct {
	err   error
	calls int
}

func (m *mockLessonAccessPolicy) IsEnrolledOrOwner(ctx context.Context, viewer access.Viewer, lessonID int) error {
	m.calls++
	return m.err
}

// mockUserRepository is a mock implementation of UserRepository
type mockUserRepository struct {
	user             *models.User
	err              error
	createErr        error
	existsByEmail    bool
	existsByUsername bool
	existsErr        error
	created          *models.User
	updatedRole      models.Role
	updateRoleCalls  int
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = 1
	m.created = user
	return nil
}

func (m *mockUserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.user == nil {
		return nil, models.NewError(models.ErrNotFound, "User not found")
	}
	return m.user, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	return m.GetByLogin(ctx, "")
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return m.existsByEmail, m.existsErr
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return m.existsByUsername, m.existsErr
}

func (m *mockUserRepository) UpdateRole(ctx context.Context, id int, role models.Role) error {
	m.updateRoleCalls++
	if m.err != nil {
		return m.err
	}
	m.updatedRole = role
	return nil
}
