package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/mylibrary/internal/config"
	"github.com/mrlokans/mylibrary/internal/database"
	"github.com/mrlokans/mylibrary/internal/entities"
)

func setupService(t *testing.T) *Service {
	t.Helper()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewService(db.DB, config.Auth{
		BcryptCost:       bcrypt.MinCost,
		MaxLoginAttempts: 3,
		LockoutDuration:  30 * time.Minute,
	})
}

func TestCreateUser(t *testing.T) {
	service := setupService(t)

	user, err := service.CreateUser("alice", "password123", entities.UserRoleMember)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, entities.UserRoleMember, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)
}

func TestCreateUserValidation(t *testing.T) {
	service := setupService(t)

	_, err := service.CreateUser("", "password123", entities.UserRoleMember)
	assert.ErrorIs(t, err, ErrUsernameRequired)

	_, err = service.CreateUser("ab", "password123", entities.UserRoleMember)
	assert.ErrorIs(t, err, ErrUsernameInvalid)

	_, err = service.CreateUser("bob", "password123", entities.UserRole("owner"))
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = service.CreateUser("bob", "short", entities.UserRoleMember)
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	service := setupService(t)

	_, err := service.CreateUser("alice", "password123", entities.UserRoleMember)
	require.NoError(t, err)

	_, err = service.CreateUser("alice", "otherpassword", entities.UserRoleAdmin)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestAuthenticate(t *testing.T) {
	service := setupService(t)

	created, err := service.CreateUser("alice", "password123", entities.UserRoleMember)
	require.NoError(t, err)

	user, err := service.Authenticate("alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = service.Authenticate("alice", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = service.Authenticate("nobody", "password123")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthenticateLockout(t *testing.T) {
	service := setupService(t)

	_, err := service.CreateUser("alice", "password123", entities.UserRoleMember)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = service.Authenticate("alice", "wrongpassword")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	}

	// The threshold is reached; even the correct password is refused now.
	_, err = service.Authenticate("alice", "password123")
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestAuthenticateResetsFailureCount(t *testing.T) {
	service := setupService(t)

	_, err := service.CreateUser("alice", "password123", entities.UserRoleMember)
	require.NoError(t, err)

	_, err = service.Authenticate("alice", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	user, err := service.Authenticate("alice", "password123")
	require.NoError(t, err)

	stored, err := service.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.FailedLoginCount)
	assert.NotNil(t, stored.LastLoginAt)
}
