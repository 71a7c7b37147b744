package userservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/haguru/signup/internal/interfaces"
	"github.com/haguru/signup/internal/models"
	"github.com/haguru/signup/pkg/helper"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmailInUse is returned by RegisterUser when an account already uses the email.
var ErrEmailInUse = errors.New(ErrEmailAlreadyInUse)

type UserService struct {
	UserRepo interfaces.UserRepository
	Logger   interfaces.Logger
	// HashCost is the bcrypt cost used for new passwords.
	HashCost int
}

// NewUserService creates a new UserService instance.
func NewUserService(repo interfaces.UserRepository, logger interfaces.Logger) *UserService {
	return &UserService{
		UserRepo: repo,
		Logger:   logger,
		HashCost: bcrypt.DefaultCost,
	}
}

// RegisterUser creates an account for an already validated and normalised request.
// A taken email is reported as ErrEmailInUse whether it is seen by the lookup
// or by the store's uniqueness constraint on create.
func (s *UserService) RegisterUser(ctx context.Context, name, email, password string) (*models.User, error) {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName, "email", email)
	defer s.Logger.Debug("Exiting function", "func", funcName, "email", email)

	existing, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		s.Logger.Error(ErrRetrievingUser, "func", funcName, "email", email, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrRetrievingUser, err)
	}
	if existing != nil {
		s.Logger.Info("Signup rejected, email already registered", "func", funcName, "email", email)
		return nil, ErrEmailInUse
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.HashCost)
	if err != nil {
		s.Logger.Error(ErrFailedToHashPassword, "func", funcName, "email", email, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrFailedToHashPassword, err)
	}

	return s.createUser(ctx, *models.NewUser(name, email, string(hashedPassword)))
}

// createUser is the only place a user record is written.
func (s *UserService) createUser(ctx context.Context, user models.User) (*models.User, error) {
	funcName := helper.GetFuncName()

	created, err := s.UserRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			s.Logger.Info("Signup rejected, email registered concurrently", "func", funcName, "email", user.Email)
			return nil, ErrEmailInUse
		}
		s.Logger.Error(ErrFailedToRegisterUser, "func", funcName, "email", user.Email, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrFailedToRegisterUser, err)
	}

	s.Logger.Info("User registered successfully", "func", funcName, "email", created.Email, "ID", created.ID)
	return created, nil
}
