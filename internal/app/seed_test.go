package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paasd/internal/config"
	"paasd/internal/db"
	"paasd/internal/domain"
)

const seedYAML = `
workspaces:
  - name: acme
    super_admin: 0198c5f2-0000-7000-8000-000000000001
    groups:
      - name: developers
        grants:
          - prefix: deployer
            permission: deployer::view
          - prefix: deployer
            permission: deployer::update
      - name: operators
        grants:
          - permission: deployer::stop
    deployments:
      - name: api
        image_name: registry.local/api
        image_tag: v1
      - name: worker
        image_name: registry.local/worker
        image_tag: v2
`

func newSeededApp(t *testing.T, seedFile string) *App {
	t.Helper()
	writeDB, readDB := db.OpenTestSQLite(t)

	cfg := &config.Config{
		Auth:            config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour},
		RetentionWindow: 24 * time.Hour,
		SeedFile:        seedFile,
	}
	a, err := New(context.Background(), Deps{Cfg: cfg, WriteDB: writeDB, ReadDB: readDB, Logger: nil})
	require.NoError(t, err)
	return a
}

func writeSeedFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))
	return path
}

func TestSeedFromFile(t *testing.T) {
	ctx := context.Background()
	a := newSeededApp(t, writeSeedFile(t))

	ws, err := a.Workspace.GetWorkspaceByName(ctx, "acme")
	require.NoError(t, err)

	devs, err := a.Workspace.GetGroupByName(ctx, ws.ID, "developers")
	require.NoError(t, err)

	grants, total, err := a.Grants.ListForGroup(ctx, devs.ID, domain.PageRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, g := range grants {
		assert.Equal(t, ws.ID+"::deployer", g.PathPrefix)
	}

	page, err := a.Resources.ListVisibleDeployments(ctx, ws.ID,
		nil, true, domain.PermDeployerView, domain.PageRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	t.Run("visibility flows from the seeded grants", func(t *testing.T) {
		caller := domain.Caller{Identity: domain.NewID(), Groups: []string{devs.ID}}
		page, err := a.Services.Authz.ListDeployments(ctx, caller, ws.ID, domain.PageRequest{})
		require.NoError(t, err)
		assert.EqualValues(t, 2, page.Total)
	})
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := writeSeedFile(t)
	a := newSeededApp(t, path)

	// Applying the same document again neither errors nor duplicates.
	require.NoError(t, a.SeedFromFile(ctx, path))

	ws, err := a.Workspace.GetWorkspaceByName(ctx, "acme")
	require.NoError(t, err)

	devs, err := a.Workspace.GetGroupByName(ctx, ws.ID, "developers")
	require.NoError(t, err)
	_, total, err := a.Grants.ListForGroup(ctx, devs.ID, domain.PageRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	page, err := a.Resources.ListVisibleDeployments(ctx, ws.ID,
		nil, true, domain.PermDeployerView, domain.PageRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
}

func TestSeedRejectsUnknownPermission(t *testing.T) {
	writeDB, readDB := db.OpenTestSQLite(t)
	cfg := &config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret"}}
	a, err := New(context.Background(), Deps{Cfg: cfg, WriteDB: writeDB, ReadDB: readDB})
	require.NoError(t, err)

	doc := &seedDocument{Workspaces: []seedWorkspace{{
		Name:       "acme",
		SuperAdmin: domain.NewID(),
		Groups: []seedGroup{{
			Name:   "developers",
			Grants: []seedGrant{{Permission: "deployer::launch"}},
		}},
	}}}
	err = a.Seed(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
}
