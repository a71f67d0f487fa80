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

// ProfileService is the interface that wraps methods for the caller's profile
type ProfileService interface {
	// GetProfile retrieves the profile of a user
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the profile and an error if any.
	GetProfile(ctx context.Context, userID int) (*models.ProfileResponse, error)
}

// ProfileHandler handles HTTP requests for the caller's profile
type ProfileHandler struct {
	handlers.BaseHandler
	profileService ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    handlers.BaseHandler{Logger: logger},
		profileService: profileService,
	}
}

// RegisterRoutes registers all profile handler routes
func (h *ProfileHandler) RegisterRoutes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.With(requireAuth).Get("/me", h.GetProfile)
}

// GetProfile handles GET /me
// @Summary Get my profile
// @Description Get the authenticated user's profile, including whether they can teach
// @Tags profile
// @Produce json
// @Success 200 {object} models.ProfileResponse "Profile"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Security ApiKeyAuth
// @Router /me [get]
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := authMiddleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	profile, err := h.profileService.GetProfile(r.Context(), userID)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to get profile")
		return
	}

	h.RespondJSON(w, http.StatusOK, profile)
}
