package repository

import (
	"context"
	"errors"

	"user-api/internal/domain"
)

// ErrNotFound is returned when a lookup matches no user
var ErrNotFound = errors.New("user not found")

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user record. Duplicate email or cognito_sub
	// surfaces as an AUTH USER_EXISTS error.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by local id
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByCognitoSub retrieves a user by the provider-issued subject id
	GetByCognitoSub(ctx context.Context, sub string) (*domain.User, error)

	// Update persists profile changes to an existing user
	Update(ctx context.Context, user *domain.User) error

	// List returns users ordered by creation time
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)

	// Count returns the total number of users
	Count(ctx context.Context) (int64, error)
}
