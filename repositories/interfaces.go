package repositories

import (
	"context"
	"errors"

	"github.com/upb/secure-access-gateway/models"
)

var (
	// ErrNotFound is returned when no record matches the lookup
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned when a record with the same key exists
	ErrAlreadyExists = errors.New("record already exists")
)

// UserRepository is the principal store: it resolves stored accounts by username.
// Implementations must be safe for concurrent use.
type UserRepository interface {
	// GetByUsername retrieves a user by username, or ErrNotFound
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// Create stores a new user, or returns ErrAlreadyExists
	Create(ctx context.Context, user *models.User) error
}

// HealthChecker is implemented by stores backed by a remote database
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
