package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/learnhub/backend/internal/models"
	"github.com/learnhub/backend/libs/auth/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(repo *mockUserRepository) (*authService, *service.TokenGenerator) {
	tg := service.NewTokenGenerator("auth-service-secret", time.Hour)
	return NewAuthService(repo, tg, zap.NewNop()), tg
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		req           models.RegisterRequest
		repo          *mockUserRepository
		expectedError error
		expectedMsg   string
	}{
		{
			name: "valid",
			req:  models.RegisterRequest{Username: "alice", Email: " Alice@Example.com ", Password: "secret123"},
			repo: &mockUserRepository{},
		},
		{
			name:          "short password",
			req:           models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "abc1"},
			repo:          &mockUserRepository{},
			expectedError: models.ErrValidation,
		},
		{
			name:          "password without digit",
			req:           models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "abcdefghij"},
			repo:          &mockUserRepository{},
			expectedError: models.ErrValidation,
		},
		{
			name:          "invalid email",
			req:           models.RegisterRequest{Username: "alice", Email: "alice", Password: "secret123"},
			repo:          &mockUserRepository{},
			expectedError: models.ErrValidation,
			expectedMsg:   "invalid email format",
		},
		{
			name:          "invalid username",
			req:           models.RegisterRequest{Username: "al ice", Email: "alice@example.com", Password: "secret123"},
			repo:          &mockUserRepository{},
			expectedError: models.ErrValidation,
		},
		{
			name:          "email taken",
			req:           models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret123"},
			repo:          &mockUserRepository{existsByEmail: true},
			expectedError: models.ErrConflict,
			expectedMsg:   "email already exists",
		},
		{
			name:          "username taken",
			req:           models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret123"},
			repo:          &mockUserRepository{existsByUsername: true},
			expectedError: models.ErrConflict,
			expectedMsg:   "username already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, tg := newTestAuthService(tt.repo)

			resp, err := svc.Register(context.Background(), &tt.req)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				if tt.expectedMsg != "" {
					assert.Equal(t, tt.expectedMsg, models.Message(err, ""))
				}
				assert.Nil(t, tt.repo.created)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Bearer", resp.TokenType)
			assert.Equal(t, 3600, resp.ExpiresIn)

			created := tt.repo.created
			assert.Equal(t, "alice@example.com", created.Email)
			assert.Equal(t, models.RoleStudent, created.Role)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret123")))

			userID, role, err := tg.ValidateAccessToken(resp.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, 1, userID)
			assert.Equal(t, int(models.RoleStudent), role)
		})
	}

	t.Run("uniqueness check failure", func(t *testing.T) {
		repo := &mockUserRepository{existsErr: errors.New("db down")}
		svc, _ := newTestAuthService(repo)

		_, err := svc.Register(context.Background(), &models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret123"})

		assert.ErrorContains(t, err, "db down")
	})
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{ID: 4, Username: "bob", Email: "bob@example.com", PasswordHash: string(hash), Role: models.RoleInstructor}

	tests := []struct {
		name          string
		req           models.LoginRequest
		repo          *mockUserRepository
		expectedError error
	}{
		{name: "valid", req: models.LoginRequest{Login: "bob", Password: "secret123"}, repo: &mockUserRepository{user: user}},
		{name: "wrong password", req: models.LoginRequest{Login: "bob", Password: "nope12345"}, repo: &mockUserRepository{user: user}, expectedError: models.ErrUnauthorized},
		{name: "unknown user", req: models.LoginRequest{Login: "carol", Password: "secret123"}, repo: &mockUserRepository{}, expectedError: models.ErrUnauthorized},
		{name: "email alias", req: models.LoginRequest{Email: " bob@example.com ", Password: "secret123"}, repo: &mockUserRepository{user: user}},
		{name: "username alias", req: models.LoginRequest{Username: "bob", Password: "secret123"}, repo: &mockUserRepository{user: user}},
		{name: "empty login", req: models.LoginRequest{Password: "secret123"}, repo: &mockUserRepository{user: user}, expectedError: models.ErrValidation},
		{name: "empty password", req: models.LoginRequest{Login: "bob"}, repo: &mockUserRepository{user: user}, expectedError: models.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, tg := newTestAuthService(tt.repo)

			resp, err := svc.Login(context.Background(), &tt.req)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, resp)
				return
			}
			require.NoError(t, err)
			userID, role, err := tg.ValidateAccessToken(resp.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, 4, userID)
			assert.Equal(t, int(models.RoleInstructor), role)
		})
	}
}
