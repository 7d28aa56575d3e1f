package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rtmsys/weighbridge_app/internal/apperrors"
	"github.com/rtmsys/weighbridge_app/internal/core/domain"
	portsrepo "github.com/rtmsys/weighbridge_app/internal/core/ports/repositories"
	"github.com/rtmsys/weighbridge_app/internal/dto"
	"github.com/rtmsys/weighbridge_app/internal/middleware"
	"github.com/rtmsys/weighbridge_app/internal/utils"
	"github.com/google/uuid"
)

// defaultAdminUsername is protected from deletion.
const defaultAdminUsername = "admin"

// UserService manages operator accounts.
type UserService struct {
	repo portsrepo.UserRepository
}

// NewUserService creates a UserService backed by the given repository.
func NewUserService(repo portsrepo.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// CreateUser registers a new operator account.
func (s *UserService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", apperrors.ErrValidation)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", slog.String("error", err.Error()))
		return nil, err
	}

	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         req.Role,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.SaveUser(ctx, user); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Failed to save user", slog.String("error", err.Error()), slog.String("username", username))
		}
		return nil, err
	}

	logger.Info("User created", slog.String("user_id", user.UserID), slog.String("username", username))
	return &user, nil
}

// GetUserByUsername retrieves a user for authentication.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.FindUserByUsername(ctx, username)
}

// GetUserByID retrieves a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindUserByID(ctx, userID)
}

// ListUsers retrieves all operator accounts.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list users", slog.String("error", err.Error()))
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// DeleteUser removes an account. The default admin user cannot be deleted.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.UserID == userID && u.Username == defaultAdminUsername {
			return fmt.Errorf("%w: the default admin user cannot be deleted", apperrors.ErrValidation)
		}
	}

	deleted, err := s.repo.DeleteUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to delete user", slog.String("error", err.Error()), slog.String("user_id", userID))
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
	}
	logger.Info("User deleted", slog.String("user_id", userID))
	return nil
}

// EnsureDefaultAdmin seeds the admin account when no users exist yet.
func (s *UserService) EnsureDefaultAdmin(ctx context.Context, username, password string) error {
	count, err := s.repo.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	admin := domain.User{
		UserID:       uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleAdministrator,
		CreatedAt:    time.Now(),
	}
	if err := s.repo.SaveUser(ctx, admin); err != nil {
		return err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Default admin user created", slog.String("username", username))
	return nil
}
