package interfaces

import (
	"context"

	"github.com/haguru/signup/internal/models"
)

type UserService interface {
	RegisterUser(ctx context.Context, name, email, password string) (*models.User, error)
}
