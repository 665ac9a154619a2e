package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paasd/internal/db"
	"paasd/internal/domain"
)

func TestWorkspaceRepo(t *testing.T) {
	ctx := context.Background()
	writeDB, _ := db.OpenTestSQLite(t)
	repo := NewWorkspaceRepo(writeDB)

	admin := domain.NewID()
	ws, err := repo.CreateWorkspace(ctx, "acme", admin)
	require.NoError(t, err)
	assert.Equal(t, admin, ws.SuperAdminID)

	got, err := repo.GetWorkspaceByName(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, ws.ID, got.ID)

	_, err = repo.GetWorkspaceByName(ctx, "missing")
	require.Error(t, err)
	assert.True(t, domain.IsNotFoundError(err))

	_, err = repo.CreateWorkspace(ctx, "acme", domain.NewID())
	require.Error(t, err)
	assert.True(t, domain.IsConflictError(err))

	_, err = repo.CreateWorkspace(ctx, "", domain.NewID())
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))

	t.Run("groups", func(t *testing.T) {
		g, err := repo.CreateGroup(ctx, ws.ID, "developers")
		require.NoError(t, err)

		got, err := repo.GetGroupByName(ctx, ws.ID, "developers")
		require.NoError(t, err)
		assert.Equal(t, g.ID, got.ID)

		// Same name in another workspace is fine; a duplicate within the
		// workspace conflicts.
		other, err := repo.CreateWorkspace(ctx, "globex", domain.NewID())
		require.NoError(t, err)
		_, err = repo.CreateGroup(ctx, other.ID, "developers")
		require.NoError(t, err)

		_, err = repo.CreateGroup(ctx, ws.ID, "developers")
		require.Error(t, err)
		assert.True(t, domain.IsConflictError(err))
	})
}
