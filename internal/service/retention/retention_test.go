package retention

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paasd/internal/db"
	"paasd/internal/db/repository"
	"paasd/internal/domain"
)

func TestSweeper_SweepOnce(t *testing.T) {
	ctx := context.Background()
	writeDB, readDB := db.OpenTestSQLite(t)
	resources := repository.NewResourceRepo(writeDB, readDB)
	ws := repository.NewWorkspaceRepo(writeDB)

	workspace, err := ws.CreateWorkspace(ctx, "acme", domain.NewID())
	require.NoError(t, err)

	expired, err := resources.CreateDeployment(ctx, workspace.ID, "old", "registry.local/old", "v1")
	require.NoError(t, err)
	recent, err := resources.CreateDeployment(ctx, workspace.ID, "new", "registry.local/new", "v1")
	require.NoError(t, err)
	live, err := resources.CreateDeployment(ctx, workspace.ID, "live", "registry.local/live", "v1")
	require.NoError(t, err)

	require.NoError(t, resources.SoftDelete(ctx, expired.ID, time.Now().Add(-72*time.Hour)))
	require.NoError(t, resources.SoftDelete(ctx, recent.ID, time.Now().Add(-1*time.Hour)))

	sweeper := NewSweeper(resources, 24*time.Hour, nil)
	purged, err := sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	_, err = resources.Get(ctx, expired.ID)
	assert.True(t, domain.IsNotFoundError(err))

	// Inside the window and live rows survive.
	_, err = resources.Get(ctx, recent.ID)
	require.NoError(t, err)
	_, err = resources.Get(ctx, live.ID)
	require.NoError(t, err)

	// A second sweep finds nothing.
	purged, err = sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, purged)
}

func TestSweeper_StartRejectsBadSpec(t *testing.T) {
	writeDB, readDB := db.OpenTestSQLite(t)
	sweeper := NewSweeper(repository.NewResourceRepo(writeDB, readDB), time.Hour, nil)

	_, err := sweeper.Start(context.Background(), "not a cron spec")
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
}
