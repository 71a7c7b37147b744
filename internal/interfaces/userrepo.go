package interfaces

import (
	"context"

	"github.com/haguru/signup/internal/models"
)

// UserRepository defines the contract for storing and retrieving User data.
// Create must enforce email uniqueness atomically and report a conflict as
// models.ErrDuplicateEmail.
type UserRepository interface {
	// FindByEmail returns nil and no error when no user has the email.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user models.User) (*models.User, error)
	EnsureIndices(ctx context.Context) error
	Close(ctx context.Context) error
}
