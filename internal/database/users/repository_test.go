package users

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/mylibrary/internal/database"
	"github.com/mrlokans/mylibrary/internal/entities"
)

func setupRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db.DB)
}

func TestCreateAndLookupUser(t *testing.T) {
	repo := setupRepo(t)

	created, err := repo.CreateUser("reader", "hashed-password", entities.UserRoleMember)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	byName, err := repo.GetUserByUsername("reader")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)
	assert.Equal(t, entities.UserRoleMember, byName.Role)

	byID, err := repo.GetUserByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "reader", byID.Username)
}

func TestLookupMissingUser(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.GetUserByUsername("nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetUserByID(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateFields(t *testing.T) {
	repo := setupRepo(t)

	created, err := repo.CreateUser("reader", "hashed-password", entities.UserRoleMember)
	require.NoError(t, err)

	now := time.Now()
	err = repo.UpdateFields(created.ID, map[string]any{
		"failed_login_count": 2,
		"last_login_at":      now,
	})
	require.NoError(t, err)

	updated, err := repo.GetUserByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.FailedLoginCount)
	require.NotNil(t, updated.LastLoginAt)

	err = repo.UpdateFields(999, map[string]any{"failed_login_count": 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCountUsers(t *testing.T) {
	repo := setupRepo(t)

	count, err := repo.CountUsers()
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = repo.CreateUser("reader", "hashed-password", entities.UserRoleMember)
	require.NoError(t, err)

	count, err = repo.CountUsers()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
