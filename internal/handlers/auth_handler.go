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

// AuthService is the interface that wraps methods for authentication
type AuthService interface {
	// Register creates a student account
	//
	// "ctx" is the context for the request.
	// "req" is the registration request.
	//
	// Returns an access token for the new account and an error if any.
	Register(ctx context.Context, req *models.RegisterRequest) (*models.TokenResponse, error)
	// Login authenticates a user by email or username
	//
	// "ctx" is the context for the request.
	// "req" is the login request.
	//
	// Returns an access token and an error if any.
	Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error)
}

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	handlers.BaseHandler
	authService  AuthService
	secureCookie bool
}

// NewAuthHandler creates a new auth handler
//
// "secureCookie" marks the access token cookie Secure; disable it only for plain HTTP development.
func NewAuthHandler(authService AuthService, logger *zap.Logger, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		BaseHandler:  handlers.BaseHandler{Logger: logger},
		authService:  authService,
		secureCookie: secureCookie,
	}
}

// RegisterRoutes registers all auth handler routes
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})
}

// Register handles POST /auth/register
// @Summary Register user
// @Description Create a student account and return an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration request"
// @Success 201 {object} models.TokenResponse "Registered"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request"
// @Failure 409 {object} handlers.ErrorResponse "Email or username taken"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to register user")
		return
	}

	h.setTokenCookie(w, token)
	h.RespondJSON(w, http.StatusCreated, token)
}

// Login handles POST /auth/login
// @Summary Login user
// @Description Authenticate with email or username. The access token is returned in the body and as an HTTP-only cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} models.TokenResponse "Login successful"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body"
// @Failure 401 {object} handlers.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to login user")
		return
	}

	h.setTokenCookie(w, token)
	h.RespondJSON(w, http.StatusOK, token)
}

// Logout handles POST /auth/logout
// @Summary Logout user
// @Description Expire the access token cookie
// @Tags auth
// @Produce json
// @Success 200 {object} models.StatusResponse "Logged out"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     authMiddleware.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	h.RespondJSON(w, http.StatusOK, models.StatusResponse{Status: models.StatusLoggedOut})
}

func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token *models.TokenResponse) {
	http.SetCookie(w, &http.Cookie{
		Name:     authMiddleware.AccessTokenCookie,
		Value:    token.AccessToken,
		Path:     "/",
		MaxAge:   token.ExpiresIn,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
