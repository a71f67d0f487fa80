package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/learnhub/backend/internal/models"
	authMiddleware "github.com/learnhub/backend/libs/auth/middleware"
	"github.com/learnhub/backend/libs/handlers"
	"go.uber.org/zap"
)

// AdminService is the interface that wraps methods for user administration
type AdminService interface {
	// UpdateUserRole assigns a role to a user
	//
	// "ctx" is the context for the request.
	// "adminID" is the ID of the admin making the change.
	// "userID" is the ID of the user.
	// "role" is the new role.
	//
	// Returns an error if any.
	UpdateUserRole(ctx context.Context, adminID, userID int, role models.Role) error
}

// AdminHandler handles HTTP requests for user administration
type AdminHandler struct {
	handlers.BaseHandler
	adminService AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  handlers.BaseHandler{Logger: logger},
		adminService: adminService,
	}
}

// RegisterRoutes registers all admin handler routes
//
// The caller is expected to wrap r with the auth and admin role middlewares.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Route("/admin/users", func(r chi.Router) {
		r.Patch("/{id}/role", h.UpdateUserRole)
	})
}

// UpdateUserRole handles PATCH /admin/users/{id}/role
// @Summary Update user role
// @Description Assign the student, instructor or admin role to a user
// @Tags admin
// @Accept json
// @Param id path int true "User ID"
// @Param request body models.UpdateRoleRequest true "Role update request"
// @Success 204 "No Content"
// @Failure 400 {object} handlers.ErrorResponse "Invalid role"
// @Failure 403 {object} handlers.ErrorResponse "Admin role required"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Security ApiKeyAuth
// @Router /admin/users/{id}/role [patch]
func (h *AdminHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	adminID, ok := authMiddleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	userID, err := h.PathID(r, "id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var req models.UpdateRoleRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.adminService.UpdateUserRole(r.Context(), adminID, userID, req.Role); err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to update user role")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
