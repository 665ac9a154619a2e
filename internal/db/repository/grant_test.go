package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paasd/internal/db"
	"paasd/internal/domain"
)

func newGrantFixture(t *testing.T) (*GrantRepo, *WorkspaceRepo) {
	t.Helper()
	writeDB, _ := db.OpenTestSQLite(t)
	return NewGrantRepo(writeDB), NewWorkspaceRepo(writeDB)
}

func mustGroup(t *testing.T, ws *WorkspaceRepo, workspaceID, name string) *domain.Group {
	t.Helper()
	g, err := ws.CreateGroup(context.Background(), workspaceID, name)
	require.NoError(t, err)
	return g
}

func mustGrant(t *testing.T, repo *GrantRepo, groupID, prefix, permission string) {
	t.Helper()
	_, err := repo.Grant(context.Background(), &domain.Grant{
		GroupID:    groupID,
		PathPrefix: prefix,
		Permission: permission,
	})
	require.NoError(t, err)
}

func TestGrantRepo_AnyMatch(t *testing.T) {
	ctx := context.Background()
	repo, ws := newGrantFixture(t)

	workspace, err := ws.CreateWorkspace(ctx, "acme", domain.NewID())
	require.NoError(t, err)

	devs := mustGroup(t, ws, workspace.ID, "developers")
	ops := mustGroup(t, ws, workspace.ID, "operators")

	wsPrefix := workspace.ID
	deployerPrefix := workspace.ID + "::deployer"

	mustGrant(t, repo, devs.ID, deployerPrefix, domain.PermDeployerView)
	mustGrant(t, repo, ops.ID, wsPrefix, domain.PermDeployerStop)

	t.Run("direct prefix hit", func(t *testing.T) {
		found, err := repo.AnyMatch(ctx, []string{devs.ID}, []string{deployerPrefix}, domain.PermDeployerView)
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("hit via any of several prefixes", func(t *testing.T) {
		prefixes := []string{wsPrefix, deployerPrefix, deployerPrefix + "::some-id"}
		found, err := repo.AnyMatch(ctx, []string{devs.ID}, prefixes, domain.PermDeployerView)
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("hit via any of several groups", func(t *testing.T) {
		found, err := repo.AnyMatch(ctx, []string{devs.ID, ops.ID}, []string{wsPrefix}, domain.PermDeployerStop)
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("wrong permission misses", func(t *testing.T) {
		found, err := repo.AnyMatch(ctx, []string{devs.ID}, []string{deployerPrefix}, domain.PermDeployerDelete)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("descendant prefix does not match an ancestor grant by itself", func(t *testing.T) {
		// The resolver expands the path into its ancestor chain; the store
		// only answers exact set membership.
		found, err := repo.AnyMatch(ctx, []string{devs.ID}, []string{deployerPrefix + "::child"}, domain.PermDeployerView)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("empty groups short-circuit", func(t *testing.T) {
		found, err := repo.AnyMatch(ctx, nil, []string{wsPrefix}, domain.PermDeployerView)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("empty prefixes short-circuit", func(t *testing.T) {
		found, err := repo.AnyMatch(ctx, []string{devs.ID}, nil, domain.PermDeployerView)
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestGrantRepo_GrantValidation(t *testing.T) {
	ctx := context.Background()
	repo, _ := newGrantFixture(t)

	_, err := repo.Grant(ctx, &domain.Grant{
		GroupID:    domain.NewID(),
		PathPrefix: "ws::deployer",
		Permission: "deployer::launch",
	})
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))

	_, err = repo.Grant(ctx, &domain.Grant{
		GroupID:    domain.NewID(),
		PathPrefix: "ws::::deployer",
		Permission: domain.PermDeployerView,
	})
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
}

func TestGrantRepo_DuplicateGrantConflicts(t *testing.T) {
	ctx := context.Background()
	repo, ws := newGrantFixture(t)

	workspace, err := ws.CreateWorkspace(ctx, "acme", domain.NewID())
	require.NoError(t, err)
	devs := mustGroup(t, ws, workspace.ID, "developers")

	mustGrant(t, repo, devs.ID, workspace.ID, domain.PermDeployerView)

	_, err = repo.Grant(ctx, &domain.Grant{
		GroupID:    devs.ID,
		PathPrefix: workspace.ID,
		Permission: domain.PermDeployerView,
	})
	require.Error(t, err)
	assert.True(t, domain.IsConflictError(err))
}

func TestGrantRepo_RevokeAndList(t *testing.T) {
	ctx := context.Background()
	repo, ws := newGrantFixture(t)

	workspace, err := ws.CreateWorkspace(ctx, "acme", domain.NewID())
	require.NoError(t, err)
	devs := mustGroup(t, ws, workspace.ID, "developers")

	mustGrant(t, repo, devs.ID, workspace.ID, domain.PermDeployerView)
	mustGrant(t, repo, devs.ID, workspace.ID, domain.PermDeployerUpdate)

	grants, total, err := repo.ListForGroup(ctx, devs.ID, domain.PageRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, grants, 2)

	require.NoError(t, repo.Revoke(ctx, devs.ID, workspace.ID, domain.PermDeployerUpdate))

	grants, total, err = repo.ListForGroup(ctx, devs.ID, domain.PageRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, grants, 1)
	assert.Equal(t, domain.PermDeployerView, grants[0].Permission)

	// Check removal is gone from the match path too.
	found, err := repo.AnyMatch(ctx, []string{devs.ID}, []string{workspace.ID}, domain.PermDeployerUpdate)
	require.NoError(t, err)
	assert.False(t, found)
}
