package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/identity"
	"github.com/sickfits/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T, email, name string) *identity.User {
	t.Helper()
	u, err := identity.NewUser(email, name, "secret123")
	require.NoError(t, err)
	return u
}

func TestGormUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewGormUserRepository(setupTestDB(t))

	user := newTestUser(t, "Wes@Example.com", "Wes")
	require.NoError(t, repo.Create(ctx, user))

	t.Run("find by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "wes@example.com", found.Email)
		assert.Equal(t, "Wes", found.Name)
		assert.True(t, found.Permissions.Has(identity.PermissionUser))
		assert.True(t, found.VerifyPassword("secret123"))
	})

	t.Run("find by email is case insensitive", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "  WES@example.COM ")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("missing user is not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindByEmail(ctx, "")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("duplicate email already exists", func(t *testing.T) {
		dup := newTestUser(t, "wes@example.com", "Other Wes")
		err := repo.Create(ctx, dup)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestGormUserRepository_FindAll(t *testing.T) {
	ctx := context.Background()
	repo := NewGormUserRepository(setupTestDB(t))

	for _, name := range []string{"Charlie", "alice", "Bob"} {
		require.NoError(t, repo.Create(ctx, newTestUser(t, name+"@example.com", name)))
	}

	users, total, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 2)
	assert.Equal(t, "Bob", users[0].Name)
	assert.Equal(t, "Charlie", users[1].Name)
}

func TestGormUserRepository_UpdatePermissions(t *testing.T) {
	ctx := context.Background()
	repo := NewGormUserRepository(setupTestDB(t))

	user := newTestUser(t, "perm@example.com", "Perm")
	require.NoError(t, repo.Create(ctx, user))

	perms := identity.NewPermissionSet(identity.PermissionAdmin, identity.PermissionItemDelete)
	require.NoError(t, repo.UpdatePermissions(ctx, user.ID, perms))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, perms, found.Permissions)

	err = repo.UpdatePermissions(ctx, uuid.New(), perms)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormUserRepository_PasswordReset(t *testing.T) {
	ctx := context.Background()
	repo := NewGormUserRepository(setupTestDB(t))

	user := newTestUser(t, "reset@example.com", "Reset")
	require.NoError(t, repo.Create(ctx, user))

	expiry := time.Now().Add(time.Hour)
	require.NoError(t, repo.SaveResetToken(ctx, user.ID, "tok-1", expiry))

	found, err := repo.FindByResetToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	require.NotNil(t, found.ResetTokenExpiry)
	assert.WithinDuration(t, expiry, *found.ResetTokenExpiry, time.Second)

	t.Run("wrong token does not update", func(t *testing.T) {
		ok, err := repo.CompletePasswordReset(ctx, user.ID, "tok-2", "hash", time.Now())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("token past its expiry does not update", func(t *testing.T) {
		ok, err := repo.CompletePasswordReset(ctx, user.ID, "tok-1", "late-hash", expiry.Add(time.Minute))
		require.NoError(t, err)
		assert.False(t, ok)

		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "tok-1", found.ResetToken)
		assert.NotEqual(t, "late-hash", found.PasswordHash)
	})

	t.Run("token is consumed exactly once", func(t *testing.T) {
		ok, err := repo.CompletePasswordReset(ctx, user.ID, "tok-1", "new-hash", time.Now())
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.CompletePasswordReset(ctx, user.ID, "tok-1", "other-hash", time.Now())
		require.NoError(t, err)
		assert.False(t, ok)

		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "new-hash", found.PasswordHash)
		assert.Empty(t, found.ResetToken)
		assert.Nil(t, found.ResetTokenExpiry)

		_, err = repo.FindByResetToken(ctx, "tok-1")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
