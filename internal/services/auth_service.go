package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/learnhub/backend/internal/models"
	"github.com/learnhub/backend/libs/auth/service"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

// UserRepository is the interface that wraps methods for User table data access
type UserRepository interface {
	// Method Create inserts a new user into the database.
	//
	// "user" parameter is used to create a new user.
	//
	// If some error occurs during user creation, the error will be returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByLogin retrieves a user by email or username.
	//
	// "login" parameter is the email or username.
	//
	// If user with such email or username does not exist, a not found error will be returned together with "nil" value.
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	// Method GetByID retrieves a user by ID.
	//
	// "id" parameter is the ID of the user.
	//
	// If user with such ID does not exist, a not found error will be returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.User, error)
	// Method ExistsByEmail checks if a user with such email exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Method ExistsByUsername checks if a user with such username exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// Method UpdateRole changes the role of a user.
	//
	// "id" parameter is the ID of the user, "role" is the new role.
	UpdateRole(ctx context.Context, id int, role models.Role) error
}

type authService struct {
	userRepo       UserRepository
	tokenGenerator *service.TokenGenerator
	logger         *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo UserRepository, tokenGenerator *service.TokenGenerator, logger *zap.Logger) *authService {
	return &authService{
		userRepo:       userRepo,
		tokenGenerator: tokenGenerator,
		logger:         logger,
	}
}

// emailRegex validates email format
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// usernameRegex allows letters, digits and @.+-_ like most account systems
var usernameRegex = regexp.MustCompile(`^[\w.@+\-]{1,150}$`)

// passwordRules: at least 8 chars, one letter and one digit
var passwordRules = []*regexp.Regexp{
	regexp.MustCompile(`.{8,}`),
	regexp.MustCompile(`[A-Za-z]`),
	regexp.MustCompile(`[0-9]`),
}

// Register creates a student account and returns an access token for it
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.TokenResponse, error) {
	email, username, err := s.checkRegisterCredentials(ctx, req.Email, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(passwordHash),
		Role:         models.RoleStudent,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.Int("userID", user.ID))
	return s.issueToken(user)
}

// Login authenticates a user by email or username
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error) {
	login := req.Identifier()
	if login == "" {
		return nil, models.NewError(models.ErrValidation, "login cannot be empty")
	}
	if req.Password == "" {
		return nil, models.NewError(models.ErrValidation, "password cannot be empty")
	}

	user, err := s.userRepo.GetByLogin(ctx, login)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NewError(models.ErrUnauthorized, "invalid credentials")
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.NewError(models.ErrUnauthorized, "invalid credentials")
	}

	return s.issueToken(user)
}

func (s *authService) issueToken(user *models.User) (*models.TokenResponse, error) {
	token, err := s.tokenGenerator.GenerateAccessToken(user.ID, int(user.Role))
	if err != nil {
		return nil, err
	}
	return &models.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.tokenGenerator.AccessTokenExpiry().Seconds()),
	}, nil
}

// checkRegisterCredentials validates the fields and checks email and username uniqueness concurrently
//
// Returns the normalized email and username.
func (s *authService) checkRegisterCredentials(ctx context.Context, email, username, password string) (string, string, error) {
	normalizedEmail := strings.TrimSpace(strings.ToLower(email))
	normalizedUsername := strings.TrimSpace(username)

	for _, rule := range passwordRules {
		if !rule.MatchString(password) {
			return "", "", models.NewError(models.ErrValidation, "password must be at least 8 characters long and contain at least one letter and one number")
		}
	}
	if !emailRegex.MatchString(normalizedEmail) {
		return "", "", models.NewError(models.ErrValidation, "invalid email format")
	}
	if !usernameRegex.MatchString(normalizedUsername) {
		return "", "", models.NewError(models.ErrValidation, "username may contain only letters, digits and @/./+/-/_ characters")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		exists, err := s.userRepo.ExistsByEmail(gctx, normalizedEmail)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return models.NewError(models.ErrConflict, "email already exists")
		}
		return nil
	})
	g.Go(func() error {
		exists, err := s.userRepo.ExistsByUsername(gctx, normalizedUsername)
		if err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		}
		if exists {
			return models.NewError(models.ErrConflict, "username already exists")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", "", err
	}

	return normalizedEmail, normalizedUsername, nil
}
