package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKnownPermission(t *testing.T) {
	assert.True(t, KnownPermission(PermDeployerUpdate))
	assert.True(t, KnownPermission(PermManagedURLView))
	assert.False(t, KnownPermission("deployer::fly"))
	assert.False(t, KnownPermission(""))
}

func TestViewPermission(t *testing.T) {
	assert.Equal(t, PermDeployerView, ViewPermission(KindDeployment))
	assert.Equal(t, PermManagedURLView, ViewPermission(KindManagedURL))
	assert.Equal(t, PermStaticSiteView, ViewPermission(KindStaticSite))
	assert.Equal(t, PermDomainView, ViewPermission(KindDomain))
	assert.Equal(t, PermRegistryPull, ViewPermission(KindRepository))
	assert.Empty(t, ViewPermission(ResourceKind("volume")))
}

func TestNormalizeGroups(t *testing.T) {
	groups, super := NormalizeGroups([]string{"g1", SuperAdminGroupID, "g2"})
	assert.True(t, super)
	assert.Equal(t, []string{"g1", "g2"}, groups)

	groups, super = NormalizeGroups([]string{"g1", "g2"})
	assert.False(t, super)
	assert.Equal(t, []string{"g1", "g2"}, groups)

	groups, super = NormalizeGroups(nil)
	assert.False(t, super)
	assert.Empty(t, groups)
}

func TestPageRequest(t *testing.T) {
	assert.Equal(t, DefaultPageSize, PageRequest{}.Limit())
	assert.Equal(t, 10, PageRequest{PageSize: 10}.Limit())
	assert.Equal(t, MaxPageSize, PageRequest{PageSize: 10000}.Limit())
	assert.Equal(t, 20, PageRequest{Page: 2, PageSize: 10}.Offset())
	assert.Equal(t, 0, PageRequest{Page: 0, PageSize: 10}.Offset())
}
