package userservice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/haguru/signup/internal/interfaces/mocks"
	"github.com/haguru/signup/internal/models"
	"github.com/haguru/signup/internal/userrepo/memory"
	"github.com/haguru/signup/pkg/zerolog"
)

func newTestService(repo *mocks.MockUserRepository) *UserService {
	svc := NewUserService(repo, zerolog.NewNopLogger())
	svc.HashCost = bcrypt.MinCost
	return svc
}

func TestRegisterUser_Success(t *testing.T) {
	repo := mocks.NewMockUserRepository(t)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("FindByEmail", ctx, "gaara@suna.jp").Return(nil, nil).Once()
	repo.On("Create", ctx, mock.MatchedBy(func(u models.User) bool {
		return u.Name == "Gaara" && u.Email == "gaara@suna.jp" &&
			bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("sandcoffin")) == nil
	})).Return(func(_ context.Context, u models.User) (*models.User, error) {
		u.ID = "u-1"
		return &u, nil
	}).Once()

	got, err := svc.RegisterUser(ctx, "Gaara", "gaara@suna.jp", "sandcoffin")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)
	assert.NotEqual(t, "sandcoffin", got.Password)
	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestRegisterUser_Errors(t *testing.T) {
	lookupErr := errors.New("connection refused")
	writeErr := errors.New("disk full")

	tests := []struct {
		name        string
		setup       func(repo *mocks.MockUserRepository)
		wantErr     error
		wantCreates int
	}{
		{
			name: "email found by lookup",
			setup: func(repo *mocks.MockUserRepository) {
				repo.On("FindByEmail", mock.Anything, "gaara@suna.jp").
					Return(&models.User{ID: "u-0", Email: "gaara@suna.jp"}, nil)
			},
			wantErr:     ErrEmailInUse,
			wantCreates: 0,
		},
		{
			name: "email taken between lookup and create",
			setup: func(repo *mocks.MockUserRepository) {
				repo.On("FindByEmail", mock.Anything, "gaara@suna.jp").Return(nil, nil)
				repo.On("Create", mock.Anything, mock.Anything).Return(nil, models.ErrDuplicateEmail)
			},
			wantErr:     ErrEmailInUse,
			wantCreates: 1,
		},
		{
			name: "lookup fails",
			setup: func(repo *mocks.MockUserRepository) {
				repo.On("FindByEmail", mock.Anything, "gaara@suna.jp").Return(nil, lookupErr)
			},
			wantErr:     lookupErr,
			wantCreates: 0,
		},
		{
			name: "create fails",
			setup: func(repo *mocks.MockUserRepository) {
				repo.On("FindByEmail", mock.Anything, "gaara@suna.jp").Return(nil, nil)
				repo.On("Create", mock.Anything, mock.Anything).Return(nil, writeErr)
			},
			wantErr:     writeErr,
			wantCreates: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockUserRepository(t)
			tt.setup(repo)
			svc := newTestService(repo)

			got, err := svc.RegisterUser(context.Background(), "Gaara", "gaara@suna.jp", "sandcoffin")
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNumberOfCalls(t, "Create", tt.wantCreates)
		})
	}
}

func TestRegisterUser_SecondSignupRejected(t *testing.T) {
	repo := memory.NewMemoryUserRepository()
	svc := NewUserService(repo, zerolog.NewNopLogger())
	svc.HashCost = bcrypt.MinCost
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, "Temari", "temari@suna.jp", "windscythe")
	require.NoError(t, err)

	_, err = svc.RegisterUser(ctx, "Temari", "temari@suna.jp", "windscythe")
	assert.ErrorIs(t, err, ErrEmailInUse)
	assert.Equal(t, 1, repo.Count())
}
