package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResourcePath(t *testing.T) {
	p, err := ParseResourcePath("ws1::deployer::my-api")
	require.NoError(t, err)
	assert.Equal(t, "ws1::deployer::my-api", p.String())
	assert.Equal(t, []string{"ws1", "deployer", "my-api"}, p.Segments())
}

func TestParseResourcePath_Invalid(t *testing.T) {
	for _, raw := range []string{"", "::", "a::", "::b", "a::::b"} {
		_, err := ParseResourcePath(raw)
		assert.Error(t, err, "raw=%q", raw)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr, "raw=%q", raw)
	}
}

func TestPrefixes(t *testing.T) {
	p := MustParseResourcePath("a::b::c")
	assert.Equal(t, []string{"a", "a::b", "a::b::c"}, p.Prefixes())
}

func TestPrefixes_SingleSegment(t *testing.T) {
	p := MustParseResourcePath("ws1")
	assert.Equal(t, []string{"ws1"}, p.Prefixes())
}

func TestBuildResourcePath(t *testing.T) {
	p, err := BuildResourcePath("ws1", "deployer", "d-1")
	require.NoError(t, err)
	assert.Equal(t, "ws1::deployer::d-1", p.String())

	_, err = BuildResourcePath("ws1", "", "d-1")
	assert.Error(t, err)
}

func TestDeriveResourcePath(t *testing.T) {
	p, err := DeriveResourcePath("ws1", KindDeployment, "d-1")
	require.NoError(t, err)
	assert.Equal(t, "ws1::deployer::d-1", p.String())

	p, err = DeriveResourcePath("ws1", KindManagedURL, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "ws1::managedUrl::u-1", p.String())
}
