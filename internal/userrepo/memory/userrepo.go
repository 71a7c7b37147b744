// Package memory provides an in-process user store for local runs and tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/haguru/signup/internal/interfaces"
	"github.com/haguru/signup/internal/models"
)

// MemoryUserRepository keeps users in a map keyed by email.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

// NewMemoryUserRepository returns an empty store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]models.User)}
}

// Create stores the user unless the email is already taken.
// The check and the insert happen under one lock.
func (r *MemoryUserRepository) Create(ctx context.Context, user models.User) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Email]; exists {
		return nil, models.ErrDuplicateEmail
	}
	created := user
	created.ID = uuid.New().String()
	r.users[created.Email] = created
	return &created, nil
}

func (r *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[email]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// Count reports how many users are stored. It is an inspection helper for
// tests that run the sign-up flow against this store; it is not part of
// interfaces.UserRepository.
func (r *MemoryUserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

func (r *MemoryUserRepository) EnsureIndices(ctx context.Context) error { return nil }

func (r *MemoryUserRepository) Close(ctx context.Context) error { return nil }

var _ interfaces.UserRepository = (*MemoryUserRepository)(nil)
