package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paasd/internal/db/repository"
	"paasd/internal/domain"
	"paasd/internal/token"
)

// runCLI executes paasctl with the given args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func testDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "paasctl-test.sqlite")
}

func TestCLI_WorkspaceGrantsRoundTrip(t *testing.T) {
	dbPath := testDBPath(t)

	out, err := runCLI(t, "--db", dbPath, "workspace", "create", "acme", domain.NewID())
	require.NoError(t, err)
	assert.Contains(t, out, "workspace acme created")
	wsID := extractID(t, out)

	out, err = runCLI(t, "--db", dbPath, "workspace", "create-group", wsID, "developers")
	require.NoError(t, err)
	groupID := extractID(t, out)

	_, err = runCLI(t, "--db", dbPath, "grants", "add", groupID, wsID, domain.PermDeployerView)
	require.NoError(t, err)

	out, err = runCLI(t, "--db", dbPath, "grants", "list", groupID)
	require.NoError(t, err)
	assert.Contains(t, out, domain.PermDeployerView)
	assert.Contains(t, out, "total: 1")

	_, err = runCLI(t, "--db", dbPath, "grants", "revoke", groupID, wsID, domain.PermDeployerView)
	require.NoError(t, err)

	out, err = runCLI(t, "--db", dbPath, "grants", "list", groupID)
	require.NoError(t, err)
	assert.Contains(t, out, "total: 0")
}

func TestCLI_GrantsAddRejectsUnknownPermission(t *testing.T) {
	dbPath := testDBPath(t)
	_, err := runCLI(t, "--db", dbPath, "grants", "add", domain.NewID(), "ws", "deployer::launch")
	require.Error(t, err)
}

func TestCLI_ResourcesList(t *testing.T) {
	dbPath := testDBPath(t)

	out, err := runCLI(t, "--db", dbPath, "workspace", "create", "acme", domain.NewID())
	require.NoError(t, err)
	wsID := extractID(t, out)

	// Empty registry lists cleanly as super-admin.
	out, err = runCLI(t, "--db", dbPath, "resources", "list", wsID, "deployment")
	require.NoError(t, err)
	assert.Contains(t, out, "total: 0")

	_, err = runCLI(t, "--db", dbPath, "resources", "list", wsID, "volume")
	require.Error(t, err)
}

func TestCLI_ResourcesListRepositoryDefaultsToPull(t *testing.T) {
	dbPath := testDBPath(t)

	out, err := runCLI(t, "--db", dbPath, "workspace", "create", "acme", domain.NewID())
	require.NoError(t, err)
	wsID := extractID(t, out)

	out, err = runCLI(t, "--db", dbPath, "workspace", "create-group", wsID, "pullers")
	require.NoError(t, err)
	groupID := extractID(t, out)

	_, err = runCLI(t, "--db", dbPath, "grants", "add", groupID, wsID, domain.PermRegistryPull)
	require.NoError(t, err)

	// Seed one repository resource directly through the store.
	writeDB, readDB, cleanup, err := openStore(&storeFlags{dbPath: dbPath})
	require.NoError(t, err)
	_, err = repository.NewResourceRepo(writeDB, readDB).CreateResource(
		context.Background(), wsID, domain.KindRepository, "api-image")
	cleanup()
	require.NoError(t, err)

	// The default listing permission for repositories is the pull grant;
	// there is no dockerRegistry::view in the catalog.
	out, err = runCLI(t, "--db", dbPath, "resources", "list", wsID, "repository", "--group", groupID)
	require.NoError(t, err)
	assert.Contains(t, out, "api-image")
	assert.Contains(t, out, "total: 1")
}

func TestCLI_PermissionsCatalog(t *testing.T) {
	out, err := runCLI(t, "permissions")
	require.NoError(t, err)
	assert.Contains(t, out, domain.PermDeployerView)
	assert.Contains(t, out, domain.PermRegistryPush)
}

func TestCLI_TokenInspect(t *testing.T) {
	groupID := domain.NewID()
	claims := token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Groups: []string{groupID, domain.SuperAdminGroupID},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("cli-secret"))
	require.NoError(t, err)

	out, err := runCLI(t, "token", "inspect", signed, "--secret", "cli-secret")
	require.NoError(t, err)
	assert.Contains(t, out, "identity:    user-1")
	assert.Contains(t, out, "super-admin: true")
	assert.Contains(t, out, groupID)

	t.Run("wrong secret fails", func(t *testing.T) {
		_, err := runCLI(t, "token", "inspect", signed, "--secret", "other")
		require.Error(t, err)
	})
}

// extractID pulls the trailing "(id <uuid>)" out of a creation message.
func extractID(t *testing.T, out string) string {
	t.Helper()
	start := bytes.LastIndex([]byte(out), []byte("(id "))
	require.GreaterOrEqual(t, start, 0, "no id in output: %q", out)
	rest := out[start+4:]
	end := bytes.IndexByte([]byte(rest), ')')
	require.GreaterOrEqual(t, end, 0)
	return rest[:end]
}
