package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"order_api/internal/common"
	"order_api/internal/common/security"
	"order_api/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockUserRepo is a hand-written UserRepository double.
type mockUserRepo struct {
	createdUser *model.User
	createErr   error

	userByEmail *model.User
	findErr     error

	renamedUser *model.User
	renameErr   error

	deletedID int64
	deleteErr error
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = 1
	// Snapshot: the service clears the hash on the passed-in user after
	// Create returns.
	stored := *user
	m.createdUser = &stored
	return nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, _ string) (*model.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.userByEmail, nil
}

func (m *mockUserRepo) UpdateUsername(_ context.Context, _ int64, _ string) (*model.User, error) {
	if m.renameErr != nil {
		return nil, m.renameErr
	}
	return m.renamedUser, nil
}

func (m *mockUserRepo) Delete(_ context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedID = id
	return nil
}

func newTestTokens() *security.TokenManager {
	return security.NewTokenManager([]byte("testsecret"), time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	t.Run("hashes the password and strips it from the response", func(t *testing.T) {
		repo := &mockUserRepo{}
		svc := NewAuthService(repo, newTestTokens())

		user, err := svc.Register(t.Context(), RegisterRequest{
			Username: "ana", Email: "ana@example.com", Password: "s3cret",
		})
		require.NoError(t, err)

		assert.Empty(t, user.HashedPassword)
		assert.NotEmpty(t, repo.createdUser.HashedPassword)
		assert.NotEqual(t, "s3cret", repo.createdUser.HashedPassword)
		assert.True(t, security.CheckPasswordHash("s3cret", repo.createdUser.HashedPassword))
	})

	t.Run("duplicate email surfaces as conflict", func(t *testing.T) {
		repo := &mockUserRepo{createErr: fmt.Errorf("email taken: %w", common.ErrConflict)}
		svc := NewAuthService(repo, newTestTokens())

		_, err := svc.Register(t.Context(), RegisterRequest{
			Username: "ana", Email: "ana@example.com", Password: "s3cret",
		})
		assert.ErrorIs(t, err, common.ErrConflict)
	})
}

func TestAuthService_Login(t *testing.T) {
	hash, err := security.HashPassword("s3cret")
	require.NoError(t, err)
	stored := &model.User{ID: 7, Email: "ana@example.com", HashedPassword: hash}

	t.Run("success returns a verifiable token", func(t *testing.T) {
		tokens := newTestTokens()
		svc := NewAuthService(&mockUserRepo{userByEmail: stored}, tokens)

		resp, err := svc.Login(t.Context(), LoginRequest{Email: "ana@example.com", Password: "s3cret"})
		require.NoError(t, err)

		token, err := tokens.JWTAuth().Decode(resp.Token)
		require.NoError(t, err)
		claims, err := token.AsMap(t.Context())
		require.NoError(t, err)
		userID, err := security.GetUserIDFromClaims(claims)
		require.NoError(t, err)
		assert.Equal(t, int64(7), userID)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc := NewAuthService(&mockUserRepo{userByEmail: stored}, newTestTokens())
		_, err := svc.Login(t.Context(), LoginRequest{Email: "ana@example.com", Password: "nope"})
		assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	})

	t.Run("unknown email gets the same error as a wrong password", func(t *testing.T) {
		svc := NewAuthService(&mockUserRepo{findErr: common.ErrNotFound}, newTestTokens())
		_, err := svc.Login(t.Context(), LoginRequest{Email: "who@example.com", Password: "s3cret"})
		assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	})
}

func TestAuthService_Rename(t *testing.T) {
	t.Run("empty username is rejected", func(t *testing.T) {
		svc := NewAuthService(&mockUserRepo{}, newTestTokens())
		_, err := svc.Rename(t.Context(), 7, "   ")
		assert.ErrorIs(t, err, common.ErrBadRequest)
	})

	t.Run("updates through the repository", func(t *testing.T) {
		repo := &mockUserRepo{renamedUser: &model.User{ID: 7, Username: "ana2"}}
		svc := NewAuthService(repo, newTestTokens())
		user, err := svc.Rename(t.Context(), 7, "ana2")
		require.NoError(t, err)
		assert.Equal(t, "ana2", user.Username)
	})
}

func TestAuthService_Delete(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewAuthService(repo, newTestTokens())
	require.NoError(t, svc.Delete(t.Context(), 7))
	assert.Equal(t, int64(7), repo.deletedID)
}
