package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomcart/bloomcart/app/models"
	"github.com/bloomcart/bloomcart/app/services"
	"github.com/bloomcart/bloomcart/config"
	"github.com/bloomcart/bloomcart/pkg/auth"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	setupDB(t)
	svc := services.NewAuthService()

	user, err := svc.Register(services.RegisterInput{
		Username:             "alice",
		Email:                "alice@example.com",
		Password:             "correct-horse",
		PasswordConfirmation: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "correct-horse", user.Password, "password must be stored hashed")

	got, err := svc.Authenticate("alice@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	setupDB(t)
	registerUser(t, "alice", "alice@example.com")

	_, err := services.NewAuthService().Register(services.RegisterInput{
		Username:             "other",
		Email:                "alice@example.com",
		Password:             "correct-horse",
		PasswordConfirmation: "correct-horse",
	})
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	setupDB(t)
	registerUser(t, "alice", "alice@example.com")

	_, err := services.NewAuthService().Register(services.RegisterInput{
		Username:             "alice",
		Email:                "other@example.com",
		Password:             "correct-horse",
		PasswordConfirmation: "correct-horse",
	})
	assert.ErrorIs(t, err, services.ErrUsernameTaken)
}

func TestRegisterValidation(t *testing.T) {
	setupDB(t)
	svc := services.NewAuthService()

	_, err := svc.Register(services.RegisterInput{
		Username:             "a", // below the 2-character minimum
		Email:                "not-an-email",
		Password:             "short",
		PasswordConfirmation: "short",
	})
	ve, ok := services.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "username")
	assert.Contains(t, ve.Fields, "email")
	assert.Contains(t, ve.Fields, "password")

	_, err = svc.Register(services.RegisterInput{
		Username:             "alice",
		Email:                "alice@example.com",
		Password:             "correct-horse",
		PasswordConfirmation: "different",
	})
	ve, ok = services.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "password")
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	setupDB(t)
	registerUser(t, "alice", "alice@example.com")
	svc := services.NewAuthService()

	_, unknownErr := svc.Authenticate("nobody@example.com", "whatever")
	_, wrongErr := svc.Authenticate("alice@example.com", "wrong-password")

	assert.ErrorIs(t, unknownErr, services.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, services.ErrInvalidCredentials)
	assert.Equal(t, unknownErr, wrongErr)
}

func TestTokenCarriesIdentityAndRole(t *testing.T) {
	setupDB(t)
	config.Set("APP_KEY", "test-key-for-tokens")
	user := registerUser(t, "alice", "alice@example.com")

	token, err := services.NewAuthService().Token("alice@example.com", "correct-horse")
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestCreateAdmin(t *testing.T) {
	setupDB(t)
	svc := services.NewAuthService()

	admin, err := svc.CreateAdmin("root", "root@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	role, ok := svc.LookupRole(admin.ID)
	require.True(t, ok)
	assert.Equal(t, models.RoleAdmin, role)

	_, ok = svc.LookupRole(9999)
	assert.False(t, ok)
}
