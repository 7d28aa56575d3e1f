package services

import (
	"context"

	"github.com/rtmsys/weighbridge_app/internal/core/domain"
	"github.com/rtmsys/weighbridge_app/internal/dto"
)

// UserSvcFacade exposes operator account management.
type UserSvcFacade interface {
	// CreateUser registers a new operator account with a bcrypt-hashed password.
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)

	// GetUserByUsername retrieves a user for authentication.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetUserByID retrieves a user by id, for resolving the acting operator.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// ListUsers retrieves all operator accounts.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// DeleteUser removes an account. The default admin cannot be deleted.
	DeleteUser(ctx context.Context, userID string) error

	// EnsureDefaultAdmin seeds the admin account when the user table is empty.
	EnsureDefaultAdmin(ctx context.Context, username, password string) error
}
