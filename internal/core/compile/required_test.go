package compile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/devstack/internal/core/domain"
)

func TestRequiredCredentials_BaseProject(t *testing.T) {
	p := fullProject()
	p.Services = domain.ServiceToggles{}

	topo, err := Build(p, "/proj")
	require.NoError(t, err)

	keys := RequiredCredentials(topo)
	assert.Equal(t, []string{"WORDPRESS_DB_USER", "WORDPRESS_DB_PASSWORD", "MYSQL_ROOT_PASSWORD"}, keys)
}

func TestRequiredCredentials_GrowWithToggles(t *testing.T) {
	topo, err := Build(fullProject(), "/proj")
	require.NoError(t, err)

	keys := RequiredCredentials(topo)

	assert.Contains(t, keys, "S3_ACCESS_KEY_ID")
	assert.Contains(t, keys, "S3_SECRET_ACCESS_KEY")
	assert.Contains(t, keys, "SAML_SP_KEY")
	assert.Contains(t, keys, "SAML_ENTITY_ID")
	// Database keys always required.
	assert.Contains(t, keys, "MYSQL_ROOT_PASSWORD")
}

func TestRequiredCredentials_RegistryOrder(t *testing.T) {
	topo, err := Build(fullProject(), "/proj")
	require.NoError(t, err)

	first := RequiredCredentials(topo)
	second := RequiredCredentials(topo)
	assert.Equal(t, first, second, "extraction order must be stable")
}
