package services

import (
	"context"

	"github.com/learnhub/backend/internal/models"
	"go.uber.org/zap"
)

type profileService struct {
	userRepo UserRepository
	logger   *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(userRepo UserRepository, logger *zap.Logger) *profileService {
	return &profileService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetProfile returns the caller's own profile
func (s *profileService) GetProfile(ctx context.Context, userID int) (*models.ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.ProfileResponse{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
		IsInstructor: user.Role.CanTeach(),
	}, nil
}
