package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/learnhub/backend/internal/models"
	"github.com/learnhub/backend/libs/handlers"
	"go.uber.org/zap"
)

const paymentVerificationFailed = "Payment verification failed"

// respondServiceError maps a service error onto its HTTP status and writes it
func respondServiceError(h *handlers.BaseHandler, w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		h.RespondError(w, http.StatusNotFound, models.Message(err, "not found"))
	case errors.Is(err, models.ErrValidation):
		h.RespondError(w, http.StatusBadRequest, models.Message(err, "invalid request"))
	case errors.Is(err, models.ErrPermissionDenied):
		h.RespondError(w, http.StatusForbidden, models.Message(err, "permission denied"))
	case errors.Is(err, models.ErrUnauthorized):
		h.RespondError(w, http.StatusUnauthorized, models.Message(err, "unauthorized"))
	case errors.Is(err, models.ErrConflict):
		h.RespondError(w, http.StatusConflict, models.Message(err, "conflict"))
	case errors.Is(err, models.ErrPaymentVerification):
		h.Logger.Warn(action, zap.Error(err))
		h.RespondErrorWithDetails(w, http.StatusBadRequest, paymentVerificationFailed, models.Message(err, ""))
	case errors.Is(err, models.ErrGateway):
		h.Logger.Error(action, zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, models.Message(err, "payment gateway error"))
	default:
		h.Logger.Error(action, zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// positiveQueryInt reads an optional positive integer query parameter
//
// Returns nil when the parameter is absent.
func positiveQueryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return nil, fmt.Errorf("invalid %s", name)
	}
	return &value, nil
}

// pagination reads page and count, falling back to 1 and 10 for missing or bad values
func pagination(r *http.Request) (int, int) {
	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	count := 10
	if c, err := strconv.Atoi(r.URL.Query().Get("count")); err == nil && c > 0 {
		count = c
	}
	if count > maxPageSize {
		count = maxPageSize
	}
	return page, count
}

const maxPageSize = 100
