package bootstrap

import (
	"context"
	"testing"

	"noticeboard/internal/config"
	"noticeboard/internal/models"
	"noticeboard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDevAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("promotes configured user in development", func(t *testing.T) {
		db := testutil.NewSQLiteDB(t)
		cfg := &config.Config{Env: "development", DevAdminUserID: "user_local"}

		require.NoError(t, ensureDevAdmin(ctx, cfg, db))

		var u models.User
		require.NoError(t, db.First(&u, "id = ?", "user_local").Error)
		assert.Equal(t, models.RoleAdmin, u.Role)

		// Running again is a no-op.
		require.NoError(t, ensureDevAdmin(ctx, cfg, db))
	})

	t.Run("ignored outside development", func(t *testing.T) {
		db := testutil.NewSQLiteDB(t)
		cfg := &config.Config{Env: "production", DevAdminUserID: "user_local"}

		require.NoError(t, ensureDevAdmin(ctx, cfg, db))

		var count int64
		db.Model(&models.User{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("ignored without an id", func(t *testing.T) {
		db := testutil.NewSQLiteDB(t)
		require.NoError(t, ensureDevAdmin(ctx, &config.Config{Env: "development"}, db))
	})
}

func TestSeedIfEmpty(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	require.NoError(t, seedIfEmpty(db))

	var first int64
	db.Model(&models.Entry{}).Count(&first)
	require.Positive(t, first)

	require.NoError(t, seedIfEmpty(db))
	var second int64
	db.Model(&models.Entry{}).Count(&second)
	assert.Equal(t, first, second)
}
