package repositories

import (
	"context"

	"github.com/rtmsys/weighbridge_app/internal/core/domain"
)

// UserRepository defines persistence operations for operator accounts.
type UserRepository interface {
	// SaveUser persists a new user. Duplicate usernames surface as
	// apperrors.ErrDuplicate.
	SaveUser(ctx context.Context, user domain.User) error

	// FindUserByUsername retrieves a user by username.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindUserByID retrieves a user by id.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// ListUsers retrieves all users.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// DeleteUser removes a user by id. Returns false when no row matched.
	DeleteUser(ctx context.Context, userID string) (bool, error)

	// CountUsers returns the number of registered users.
	CountUsers(ctx context.Context) (int, error)
}
