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

// LessonService is the interface that wraps methods for lesson operations
type LessonService interface {
	// ListLessons retrieves lessons as seen by the viewer
	//
	// "ctx" is the context for the request.
	// "moduleID" is the ID of the module to filter by, nil for every lesson.
	// "viewer" is the caller.
	//
	// Returns a list of lessons and an error if any.
	ListLessons(ctx context.Context, moduleID *int, viewer access.Viewer) ([]models.LessonResponse, error)
	// GetLesson retrieves a lesson for its instructor or an enrolled student
	//
	// "ctx" is the context for the request.
	// "lessonID" is the ID of the lesson.
	// "viewer" is the caller.
	//
	// Returns the lesson and an error if any.
	GetLesson(ctx context.Context, lessonID int, viewer access.Viewer) (*models.LessonResponse, error)
	// CreateLesson adds a lesson to a module owned by the viewer
	//
	// "ctx" is the context for the request.
	// "viewer" is the caller.
	// "req" is the request to create a lesson.
	//
	// Returns the created lesson and an error if any.
	CreateLesson(ctx context.Context, viewer access.Viewer, req *models.LessonWriteRequest) (*models.Lesson, error)
	// UpdateLesson replaces every field of a lesson
	//
	// "ctx" is the context for the request.
	// "lessonID" is the ID of the lesson.
	// "viewer" is the caller.
	// "req" is the request to update a lesson.
	//
	// Returns the updated lesson and an error if any.
	UpdateLesson(ctx context.Context, lessonID int, viewer access.Viewer, req *models.LessonWriteRequest) (*models.Lesson, error)
	// PatchLesson updates the provided fields of a lesson
	//
	// "ctx" is the context for the request.
	// "lessonID" is the ID of the lesson.
	// "viewer" is the caller.
	// "req" is the partial update.
	//
	// Returns the updated lesson and an error if any.
	PatchLesson(ctx context.Context, lessonID int, viewer access.Viewer, req *models.LessonPatchRequest) (*models.Lesson, error)
	// DeleteLesson deletes a lesson
	//
	// "ctx" is the context for the request.
	// "lessonID" is the ID of the lesson.
	// "viewer" is the caller.
	//
	// Returns an error if any.
	DeleteLesson(ctx context.Context, lessonID int, viewer access.Viewer) error
}

// ProgressService is the interface that wraps methods for lesson progress
type ProgressService interface {
	// CompleteLesson marks a lesson completed for the user
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "lessonID" is the ID of the lesson.
	//
	// Returns true on the first completion and an error if any.
	CompleteLesson(ctx context.Context, userID, lessonID int) (bool, error)
}

// LessonHandler handles HTTP requests for lessons and lesson progress
type LessonHandler struct {
	handlers.BaseHandler
	service         LessonService
	progressService ProgressService
}

// NewLessonHandler creates a new lesson handler
func NewLessonHandler(svc LessonService, progressService ProgressService, logger *zap.Logger) *LessonHandler {
	return &LessonHandler{
		BaseHandler:     handlers.BaseHandler{Logger: logger},
		service:         svc,
		progressService: progressService,
	}
}

// RegisterRoutes registers all lesson handler routes behind the auth middleware
func (h *LessonHandler) RegisterRoutes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Route("/lessons", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", h.ListLessons)
		r.Post("/", h.CreateLesson)
		r.Get("/{id}", h.GetLesson)
		r.Put("/{id}", h.UpdateLesson)
		r.Patch("/{id}", h.PatchLesson)
		r.Delete("/{id}", h.DeleteLesson)
		r.Post("/{id}/complete", h.CompleteLesson)
	})
}

// ListLessons handles GET /lessons
// @Summary List lessons
// @Description Get lessons, optionally filtered by module
// @Tags lessons
// @Produce json
// @Param module query int false "Module ID"
// @Success 200 {array} models.LessonResponse "List of lessons"
// @Failure 400 {object} handlers.ErrorResponse "Invalid module filter"
// @Security ApiKeyAuth
// @Router /lessons [get]
func (h *LessonHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	moduleID, err := positiveQueryInt(r, "module")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	lessons, err := h.service.ListLessons(r.Context(), moduleID, access.ViewerFromContext(r.Context()))
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to list lessons")
		return
	}
	if lessons == nil {
		lessons = []models.LessonResponse{}
	}

	h.RespondJSON(w, http.StatusOK, lessons)
}

// GetLesson handles GET /lessons/{id}
// @Summary Get a lesson
// @Description Only the course instructor and enrolled students may open a lesson
// @Tags lessons
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} models.LessonResponse "Lesson"
// @Failure 403 {object} handlers.ErrorResponse "Not enrolled"
// @Failure 404 {object} handlers.ErrorResponse "Lesson not found"
// @Security ApiKeyAuth
// @Router /lessons/{id} [get]
func (h *LessonHandler) GetLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, err := h.PathID(r, "id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid lesson ID")
		return
	}

	lesson, err := h.service.GetLesson(r.Context(), lessonID, access.ViewerFromContext(r.Context()))
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to get lesson")
		return
	}

	h.RespondJSON(w, http.StatusOK, lesson)
}

// CreateLesson handles POST /lessons
// @Summary Create a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Param request body models.LessonWriteRequest true "Lesson creation request"
// @Success 201 {object} models.Lesson "Created lesson"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body"
// @Failure 403 {object} handlers.ErrorResponse "Not the course instructor"
// @Failure 404 {object} handlers.ErrorResponse "Module not found"
// @Security ApiKeyAuth
// @Router /lessons [post]
func (h *LessonHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	var req models.LessonWriteRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	lesson, err := h.service.CreateLesson(r.Context(), access.ViewerFromContext(r.Context()), &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to create lesson")
		return
	}

	h.RespondJSON(w, http.StatusCreated, lesson)
}

// UpdateLesson handles PUT /lessons/{id}
// @Summary Replace a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Param id path int true "Lesson ID"
// @Param request body models.LessonWriteRequest true "Lesson update request"
// @Success 200 {object} models.Lesson "Updated lesson"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body"
// @Failure 403 {object} handlers.ErrorResponse "Not the course instructor"
// @Failure 404 {object} handlers.ErrorResponse "Lesson not found"
// @Security ApiKeyAuth
// @Router /lessons/{id} [put]
func (h *LessonHandler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, err := h.PathID(r, "id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid lesson ID")
		return
	}

	var req models.LessonWriteRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	lesson, err := h.service.UpdateLesson(r.Context(), lessonID, access.ViewerFromContext(r.Context()), &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to update lesson")
		return
	}

	h.RespondJSON(w, http.StatusOK, lesson)
}

// PatchLesson handles PATCH /lessons/{id}
// @Summary Update a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Param id path int true "Lesson ID"
// @Param request body models.LessonPatchRequest true "Lesson partial update"
// @Success 200 {object} models.Lesson "Updated lesson"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body"
// @Failure 403 {object} handlers.ErrorResponse "Not the course instructor"
// @Failure 404 {object} handlers.ErrorResponse "Lesson not found"
// @Security ApiKeyAuth
// @Router /lessons/{id} [patch]
func (h *LessonHandler) PatchLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, err := h.PathID(r, "id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid lesson ID")
		return
	}

	var req models.LessonPatchRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	lesson, err := h.service.PatchLesson(r.Context(), lessonID, access.ViewerFromContext(r.Context()), &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to patch lesson")
		return
	}

	h.RespondJSON(w, http.StatusOK, lesson)
}

// DeleteLesson handles DELETE /lessons/{id}
// @Summary Delete a lesson
// @Tags lessons
// @Param id path int true "Lesson ID"
// @Success 204 "No Content"
// @Failure 403 {object} handlers.ErrorResponse "Not the course instructor"
// @Failure 404 {object} handlers.ErrorResponse "Lesson not found"
// @Security ApiKeyAuth
// @Router /lessons/{id} [delete]
func (h *LessonHandler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, err := h.PathID(r, "id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid lesson ID")
		return
	}

	if err := h.service.DeleteLesson(r.Context(), lessonID, access.ViewerFromContext(r.Context())); err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to delete lesson")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CompleteLesson handles POST /lessons/{id}/complete
// @Summary Complete a lesson
// @Description Mark a lesson completed for the caller
// @Tags progress
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 201 {object} models.StatusResponse "completed"
// @Success 200 {object} models.StatusResponse "already completed"
// @Failure 404 {object} handlers.ErrorResponse "Lesson not found"
// @Security ApiKeyAuth
// @Router /lessons/{id}/complete [post]
func (h *LessonHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	userID, ok := authMiddleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	lessonID, err := h.PathID(r, "id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid lesson ID")
		return
	}

	created, err := h.progressService.CompleteLesson(r.Context(), userID, lessonID)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to complete lesson")
		return
	}

	if created {
		h.RespondJSON(w, http.StatusCreated, models.StatusResponse{Status: models.StatusCompleted})
		return
	}
	h.RespondJSON(w, http.StatusOK, models.StatusResponse{Status: models.StatusAlreadyCompleted})
}
