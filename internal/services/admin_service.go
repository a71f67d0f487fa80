package services

import (
	"context"

	"github.com/learnhub/backend/internal/models"
	"go.uber.org/zap"
)

type adminService struct {
	userRepo UserRepository
	logger   *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(userRepo UserRepository, logger *zap.Logger) *adminService {
	return &adminService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// UpdateUserRole assigns a role to a user
//
// An admin cannot change their own role, so at least one admin always remains.
func (s *adminService) UpdateUserRole(ctx context.Context, adminID, userID int, role models.Role) error {
	if !role.Valid() {
		return models.NewError(models.ErrValidation, "invalid role")
	}
	if adminID == userID {
		return models.NewError(models.ErrValidation, "you cannot change your own role")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role == role {
		return nil
	}

	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		return err
	}

	s.logger.Info("user role updated",
		zap.Int("adminID", adminID),
		zap.Int("userID", userID),
		zap.Stringer("role", role),
	)
	return nil
}
