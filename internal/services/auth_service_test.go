package services

import (
	"context"
	"testing"
	"time"

	"bridgegen/internal/config"
	"bridgegen/internal/models"
	"bridgegen/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:         "test-secret",
		JWTExpiry:         time.Hour,
		BCryptCost:        bcrypt.MinCost,
		MinPasswordLength: 8,
	}
}

func newTestAuthService(users *mockUserRepo) AuthService {
	repos := &repositories.Collection{User: users}
	return NewAuthService(repos, testAuthConfig(), zap.NewNop())
}

func TestRegisterLoginVerifyRoundTrip(t *testing.T) {
	service := newTestAuthService(newMockUserRepo())

	user, err := service.Register(context.Background(), &RegisterRequest{
		Username: "amina",
		Email:    "Amina@Example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, "amina@example.com", user.Email, "email normalized to lowercase")
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	login, err := service.Login(context.Background(), &LoginRequest{
		Username: "amina",
		Password: "correct horse",
	})
	require.NoError(t, err)
	require.NotEmpty(t, login.Token)

	claims, err := service.VerifyToken(context.Background(), login.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "amina", claims.Username)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestRegisterDuplicateUsernameConflicts(t *testing.T) {
	service := newTestAuthService(newMockUserRepo())

	_, err := service.Register(context.Background(), &RegisterRequest{
		Username: "amina", Email: "amina@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	_, err = service.Register(context.Background(), &RegisterRequest{
		Username: "amina", Email: "other@example.com", Password: "correct horse",
	})
	require.Error(t, err)

	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, "DUPLICATE_ACCOUNT", se.Code)
}

func TestLoginWrongPasswordUnauthorized(t *testing.T) {
	service := newTestAuthService(newMockUserRepo())

	_, err := service.Register(context.Background(), &RegisterRequest{
		Username: "amina", Email: "amina@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	_, err = service.Login(context.Background(), &LoginRequest{
		Username: "amina", Password: "wrong horse",
	})
	require.Error(t, err)

	se, _ := AsServiceError(err)
	assert.Equal(t, "UNAUTHORIZED", se.Type)
}

func TestLoginUnknownUserUnauthorized(t *testing.T) {
	service := newTestAuthService(newMockUserRepo())

	_, err := service.Login(context.Background(), &LoginRequest{
		Username: "ghost", Password: "whatever",
	})
	require.Error(t, err)

	se, _ := AsServiceError(err)
	assert.Equal(t, "UNAUTHORIZED", se.Type)
}

func TestVerifyTokenRejectsTampering(t *testing.T) {
	service := newTestAuthService(newMockUserRepo())

	_, err := service.VerifyToken(context.Background(), "not.a.token")
	require.Error(t, err)

	other := NewAuthService(
		&repositories.Collection{User: newMockUserRepo()},
		&config.AuthConfig{JWTSecret: "different-secret", JWTExpiry: time.Hour, BCryptCost: bcrypt.MinCost, MinPasswordLength: 8},
		zap.NewNop(),
	)
	_, err = other.Register(context.Background(), &RegisterRequest{
		Username: "amina", Email: "amina@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	login, err := other.Login(context.Background(), &LoginRequest{Username: "amina", Password: "correct horse"})
	require.NoError(t, err)

	_, err = service.VerifyToken(context.Background(), login.Token)
	require.Error(t, err, "token signed with another secret must fail")
}
