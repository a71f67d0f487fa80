package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/learnhub/backend/internal/access"
	"github.com/learnhub/backend/internal/models"
	"github.com/learnhub/backend/libs/handlers"
	"go.uber.org/zap"
)

// ModuleService is the interface that wraps methods for module operations
type ModuleService interface {
	// ListModules retrieves modules with their lessons
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course to filter by, nil for every module.
	// "viewer" is the caller.
	//
	// Returns a list of modules and an error if any.
	ListModules(ctx context.Context, courseID *int, viewer access.Viewer) ([]models.ModuleResponse, error)
	// GetModule retrieves a module with its lessons
	//
	// "ctx" is the context for the request.
	// "moduleID" is the ID of the module.
	// "viewer" is the caller.
	//
	// Returns the module and an error if any.
	GetModule(ctx context.Context, moduleID int, viewer access.Viewer) (*models.ModuleResponse, error)
	// CreateModule adds a module to a course owned by the viewer
	//
	// "ctx" is the context for the request.
	// "viewer" is the caller.
	// "req" is the request to create a module.
	//
	// Returns the created module and an error if any.
	CreateModule(ctx context.Context, viewer access.Viewer, req *models.ModuleWriteRequest) (*models.Module, error)
	// UpdateModule replaces every field of a module
	//
	// "ctx" is the context for the request.
	// "moduleID" is the ID of the module.
	// "viewer" is the caller.
	// "req" is the request to update a module.
	//
	// Returns the updated module and an error if any.
	UpdateModule(ctx context.Context, moduleID int, viewer access.Viewer, req *models.ModuleWriteRequest) (*models.Module, error)
	// PatchModule updates the provided fields of a module
	//
	// "ctx" is the context for the request.
	// "moduleID" is the ID of the module.
	// "viewer" is the caller.
	// "req" is the partial update.
	//
	// Returns the updated module and an error if any.
	PatchModule(ctx context.Context, moduleID int, viewer access.Viewer, req *models.ModulePatchRequest) (*models.Module, error)
	// DeleteModule deletes a module
	//
	// "ctx" is the context for the request.
	// "moduleID" is the ID of the module.
	// "viewer" is the caller.
	//
	// Returns an error if any.
	DeleteModule(ctx context.Context, moduleID int, viewer access.Viewer) error
}

// ModuleHandler handles HTTP requests for modules
type ModuleHandler struct {
	handlers.BaseHandler
	service ModuleService
}

// NewModuleHandler creates a new module handler
func NewModuleHandler(svc ModuleService, logger *zap.Logger) *ModuleHandler {
	return &ModuleHandler{
		BaseHandler: handlers.BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all module handler routes behind the auth middleware
func (h *ModuleHandler) RegisterRoutes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Route("/modules", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", h.ListModules)
		r.Post("/", h.CreateModule)
		r.Get("/{id}", h.GetModule)
		r.Put("/{id}", h.UpdateModule)
		r.Patch("/{id}", h.PatchModule)
		r.Delete("/{id}", h.DeleteModule)
	})
}

// ListModules handles GET /modules
// @Summary List modules
// @Description Get modules with nested lessons, optionally filtered by course
// @Tags modules
// @Produce json
// @Param course query int false "Course ID"
// @Success 200 {array} models.ModuleResponse "List of modules"
// @Failure 400 {object} handlers.ErrorResponse "Invalid course filter"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Security ApiKeyAuth
// @Router /modules [get]
func (h *ModuleHandler) ListModules(w http.ResponseWriter, r *http.Request) {
	courseID, err := positiveQueryInt(r, "course")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	modules, err := h.service.ListModules(r.Context(), courseID, access.ViewerFromContext(r.Context()))
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to list modules")
		return
	}

	h.RespondJSON(w, http.StatusOK, modules)
}

// GetModule handles GET /modules/{id}
// @Summary Get a module
// @Tags modules
// @Produce json
// @Param id path int true "Module ID"
// @Success 200 {object} models.ModuleResponse "Module"
// @Failure 404 {object} handlers.ErrorResponse "Module not found"
// @Security ApiKeyAuth
// @Router /modules/{id} [get]
func (h *ModuleHandler) GetModule(w http.ResponseWriter, r *http.Request) {
	moduleID, err := h.PathID(r, "id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid module ID")
		return
	}

	module, err := h.service.GetModule(r.Context(), moduleID, access.ViewerFromContext(r.Context()))
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to get module")
		return
	}

	h.RespondJSON(w, http.StatusOK, module)
}

// CreateModule handles POST /modules
// @Summary Create a module
// @Description Add a module to a course owned by the caller
// @Tags modules
// @Accept json
// @Produce json
// @Param request body models.ModuleWriteRequest true "Module creation request"
// @Success 201 {object} models.Module "Created module"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body"
// @Failure 403 {object} handlers.ErrorResponse "Not the course instructor"
// @Failure 404 {object} handlers.ErrorResponse "Course not found"
// @Security ApiKeyAuth
// @Router /modules [post]
func (h *ModuleHandler) CreateModule(w http.ResponseWriter, r *http.Request) {
	var req models.ModuleWriteRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	module, err := h.service.CreateModule(r.Context(), access.ViewerFromContext(r.Context()), &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to create module")
		return
	}

	h.RespondJSON(w, http.StatusCreated, module)
}

// UpdateModule handles PUT /modules/{id}
// @Summary Replace a module
// @Tags modules
// @Accept json
// @Produce json
// @Param id path int true "Module ID"
// @Param request body models.ModuleWriteRequest true "Module update request"
// @Success 200 {object} models.Module "Updated module"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body"
// @Failure 403 {object} handlers.ErrorResponse "Not the course instructor"
// @Failure 404 {object} handlers.ErrorResponse "Module not found"
// @Security ApiKeyAuth
// @Router /modules/{id} [put]
func (h *ModuleHandler) UpdateModule(w http.ResponseWriter, r *http.Request) {
	moduleID, err := h.PathID(r, "id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid module ID")
		return
	}

	var req models.ModuleWriteRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	module, err := h.service.UpdateModule(r.Context(), moduleID, access.ViewerFromContext(r.Context()), &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to update module")
		return
	}

	h.RespondJSON(w, http.StatusOK, module)
}

// PatchModule handles PATCH /modules/{id}
// @Summary Update a module
// @Tags modules
// @Accept json
// @Produce json
// @Param id path int true "Module ID"
// @Param request body models.ModulePatchRequest true "Module partial update"
// @Success 200 {object} models.Module "Updated module"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body"
// @Failure 403 {object} handlers.ErrorResponse "Not the course instructor"
// @Failure 404 {object} handlers.ErrorResponse "Module not found"
// @Security ApiKeyAuth
// @Router /modules/{id} [patch]
func (h *ModuleHandler) PatchModule(w http.ResponseWriter, r *http.Request) {
	moduleID, err := h.PathID(r, "id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid module ID")
		return
	}

	var req models.ModulePatchRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	module, err := h.service.PatchModule(r.Context(), moduleID, access.ViewerFromContext(r.Context()), &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to patch module")
		return
	}

	h.RespondJSON(w, http.StatusOK, module)
}

// DeleteModule handles DELETE /modules/{id}
// @Summary Delete a module
// @Tags modules
// @Param id path int true "Module ID"
// @Success 204 "No Content"
// @Failure 403 {object} handlers.ErrorResponse "Not the course instructor"
// @Failure 404 {object} handlers.ErrorResponse "Module not found"
// @Security ApiKeyAuth
// @Router /modules/{id} [delete]
func (h *ModuleHandler) DeleteModule(w http.ResponseWriter, r *http.Request) {
	moduleID, err := h.PathID(r, "id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid module ID")
		return
	}

	if err := h.service.DeleteModule(r.Context(), moduleID, access.ViewerFromContext(r.Context())); err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to delete module")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
