package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/devstack/internal/core/config"
	"github.com/artpar/devstack/internal/core/domain"
)

// projectDir creates a named project directory under a fresh temp root.
func projectDir(t *testing.T, name string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// =============================================================================
// Resolve Tests
// =============================================================================

func TestResolve_PluginProjectInit(t *testing.T) {
	// No descriptor file: everything comes from defaults keyed off the
	// directory name and the plugin type hint.
	dir := projectDir(t, "bu-custom-analytics")

	p, err := Resolve(dir, Options{Type: domain.ProjectTypePlugin})
	require.NoError(t, err)

	assert.Equal(t, "bu-custom-analytics", p.Identity)
	assert.Equal(t, "bu-custom-analytics.local", p.Hostname)
	require.Len(t, p.Mappings, 1)
	assert.Equal(t, "./", p.Mappings[0].Local)
	assert.Equal(t, "/var/www/html/wp-content/plugins/bu-custom-analytics", p.Mappings[0].Container)
}

func TestResolve_IdentityFromDirectoryNameSanitized(t *testing.T) {
	dir := projectDir(t, "My Custom Plugin")

	p, err := Resolve(dir, Options{Type: domain.ProjectTypePlugin})
	require.NoError(t, err)

	assert.Equal(t, "my-custom-plugin", p.Identity)
}

func TestResolve_ExplicitProjectNameAlsoSanitized(t *testing.T) {
	dir := projectDir(t, "whatever")
	writeFile(t, dir, DescriptorFilename, `{"projectName": "@Company/Plugin"}`)

	p, err := Resolve(dir, Options{})
	require.NoError(t, err)

	assert.Equal(t, "company-plugin", p.Identity)
}

func TestResolve_DescriptorOverridesDefaults(t *testing.T) {
	dir := projectDir(t, "my-site")
	writeFile(t, dir, DescriptorFilename, `{
		"image": "wordpress:6.3",
		"hostname": "dev.example.test",
		"multisite": true,
		"services": {"cache": false},
		"ports": {"http": 9090}
	}`)

	p, err := Resolve(dir, Options{})
	require.NoError(t, err)

	assert.Equal(t, "wordpress:6.3", p.Image)
	assert.Equal(t, "dev.example.test", p.Hostname)
	assert.True(t, p.Multisite)
	assert.False(t, p.Services.Cache)
	assert.Equal(t, 9090, p.Ports.HTTP)
	assert.Equal(t, 8443, p.Ports.HTTPS, "untouched port keeps default")
}

func TestResolve_OverlayBeatsDescriptor(t *testing.T) {
	dir := projectDir(t, "my-site")
	writeFile(t, dir, DescriptorFilename, `{"image": "wordpress:6.3"}`)
	writeFile(t, dir, OverlayFilename, "DEVSTACK_IMAGE=wordpress:6.4\nDEVSTACK_PORT_HTTP=9191\n")

	p, err := Resolve(dir, Options{})
	require.NoError(t, err)

	assert.Equal(t, "wordpress:6.4", p.Image)
	assert.Equal(t, 9191, p.Ports.HTTP)
}

func TestResolve_MalformedDescriptor(t *testing.T) {
	dir := projectDir(t, "my-site")
	writeFile(t, dir, DescriptorFilename, "{not valid")

	_, err := Resolve(dir, Options{})

	var parseErr *config.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestResolve_ValidationFailure(t *testing.T) {
	dir := projectDir(t, "my-site")
	writeFile(t, dir, DescriptorFilename, `{"ports": {"http": 99999}}`)

	_, err := Resolve(dir, Options{})

	var valErr *config.ValidationError
	require.ErrorAs(t, err, &valErr)
	require.Len(t, valErr.Fields, 1)
	assert.Equal(t, "ports.http", valErr.Fields[0].Field)
}

func TestResolve_MappingLocalPathChecked(t *testing.T) {
	dir := projectDir(t, "my-site")
	writeFile(t, dir, DescriptorFilename, `{"mappings": [{"local": "./nope", "container": "/srv/x"}]}`)

	_, err := Resolve(dir, Options{})

	var valErr *config.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields[0].Message, "does not exist")
}

func TestResolve_OverlayBadBoolean(t *testing.T) {
	dir := projectDir(t, "my-site")
	writeFile(t, dir, OverlayFilename, "DEVSTACK_MULTISITE=maybe\n")

	_, err := Resolve(dir, Options{})

	var parseErr *config.ParseError
	require.ErrorAs(t, err, &parseErr)
}

// =============================================================================
// Overlay Tests
// =============================================================================

func TestLoadOverlay_MissingFileIsEmpty(t *testing.T) {
	dir := projectDir(t, "my-site")

	pairs, err := LoadOverlay(dir)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestLoadOverlay_QuotedMultiLineValue(t *testing.T) {
	dir := projectDir(t, "my-site")
	writeFile(t, dir, OverlayFilename, "SAML_SP_CERT=\"line1\\nline2\"\nWORDPRESS_DB_PASSWORD=pw\n")

	pairs, err := LoadOverlay(dir)
	require.NoError(t, err)

	assert.Equal(t, "line1\nline2", pairs["SAML_SP_CERT"])
	assert.Equal(t, "pw", pairs["WORDPRESS_DB_PASSWORD"])
}

func TestCredentials_FiltersConfigKeys(t *testing.T) {
	pairs := map[string]string{
		"DEVSTACK_IMAGE":        "wordpress:6.4",
		"WORDPRESS_DB_PASSWORD": "pw",
		"MYSQL_ROOT_PASSWORD":   "root",
	}

	creds := Credentials(pairs)

	assert.NotContains(t, creds, "DEVSTACK_IMAGE")
	assert.Equal(t, "pw", creds["WORDPRESS_DB_PASSWORD"])
	assert.Len(t, creds, 2)
}
