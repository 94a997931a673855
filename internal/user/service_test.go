package user

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/srihari2761/pickleball-platform/internal/auth"
)

const testSecret = "test-secret"

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, name, email, passwordHash, role, skillLevel string) (*User, error) {
	args := m.Called(ctx, name, email, passwordHash, role, skillLevel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockRepository) FindByID(ctx context.Context, id int) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func TestService_Register(t *testing.T) {
	t.Run("registers a player with tokens", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo, testSecret)

		repo.On("EmailExists", mock.Anything, "ana@example.com").Return(false, nil)
		repo.On("Create", mock.Anything, "Ana", "ana@example.com", mock.AnythingOfType("string"), RolePlayer, "beginner").
			Return(&User{ID: 1, Name: "Ana", Email: "ana@example.com", Role: RolePlayer}, nil)

		user, access, refresh, err := svc.Register(context.Background(), RegisterRequest{
			Name:     "Ana",
			Email:    "ana@example.com",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.Equal(t, RolePlayer, user.Role)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		repo.AssertExpectations(t)
	})

	t.Run("owner flag sets the owner role", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo, testSecret)

		repo.On("EmailExists", mock.Anything, "bo@example.com").Return(false, nil)
		repo.On("Create", mock.Anything, "Bo", "bo@example.com", mock.AnythingOfType("string"), RoleOwner, "advanced").
			Return(&User{ID: 2, Role: RoleOwner}, nil)

		_, _, _, err := svc.Register(context.Background(), RegisterRequest{
			Name:       "Bo",
			Email:      "bo@example.com",
			Password:   "password123",
			IsOwner:    true,
			SkillLevel: "advanced",
		})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo, testSecret)

		repo.On("EmailExists", mock.Anything, "ana@example.com").Return(true, nil)

		_, _, _, err := svc.Register(context.Background(), RegisterRequest{
			Name:     "Ana",
			Email:    "ana@example.com",
			Password: "password123",
		})
		assert.ErrorIs(t, err, ErrEmailExists)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_Login(t *testing.T) {
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo, testSecret)

		repo.On("FindByEmail", mock.Anything, "ana@example.com").
			Return(&User{ID: 1, Email: "ana@example.com", PasswordHash: hash, Role: RolePlayer}, nil)

		user, access, _, err := svc.Login(context.Background(), LoginRequest{
			Email:    "ana@example.com",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, user.ID)
		assert.NotEmpty(t, access)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo, testSecret)

		repo.On("FindByEmail", mock.Anything, "ana@example.com").
			Return(&User{ID: 1, PasswordHash: hash}, nil)

		_, _, _, err := svc.Login(context.Background(), LoginRequest{
			Email:    "ana@example.com",
			Password: "wrong",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo, testSecret)

		repo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, sql.ErrNoRows)

		_, _, _, err := svc.Login(context.Background(), LoginRequest{
			Email:    "ghost@example.com",
			Password: "password123",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_RefreshToken(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, testSecret)

	_, refresh, err := auth.GenerateTokens(1, "ana@example.com", RolePlayer, testSecret, testSecret)
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, 1).
		Return(&User{ID: 1, Email: "ana@example.com", Role: RolePlayer}, nil)

	access, user, err := svc.RefreshToken(context.Background(), refresh)
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)
	assert.NotEmpty(t, access)
}

func TestService_RefreshToken_RejectsAccessToken(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, testSecret)

	access, _, err := auth.GenerateTokens(1, "ana@example.com", RolePlayer, testSecret, testSecret)
	require.NoError(t, err)

	_, _, err = svc.RefreshToken(context.Background(), access)
	assert.Error(t, err)
}
