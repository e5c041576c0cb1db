package compile

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/artpar/devstack/internal/core/domain"
)

// =============================================================================
// Fixed Image References
// =============================================================================

// Optional-service and database images are pinned so two compilations of the
// same configuration emit byte-identical descriptors.
const (
	DatabaseImage = "mariadb:10.11"
	CacheImage    = "redis:6-alpine"
	ProxyImage    = "minio/minio:RELEASE.2024-01-16T16-07-38Z"
	AuthImage     = "kristophjunge/test-saml-idp:1.15"
)

// Service names inside the topology. Resource names derive from the project
// identity; service names are namespaced by the orchestrator project.
const (
	ServiceDB      = "db"
	ServicePrimary = "wordpress"
	ServiceCache   = "cache"
	ServiceProxy   = "proxy"
	ServiceAuth    = "auth"
)

const (
	restartPolicy = "unless-stopped"
	appRoot       = "/var/www/html"
	dbDataDir     = "/var/lib/mysql"

	// networkKey and the volume keys are descriptor-local; the authoritative
	// names are carried in the name field of each declaration.
	networkKey  = "devnet"
	dbVolumeKey = "db_data"
	buildVolKey = "build"
)

// muPluginDirective is the terminator of every generated extra-configuration
// block. The bundled mu-plugins expect this constant to locate themselves.
const muPluginDirective = `define( 'DEVSTACK_MU_PLUGIN_DIR', '/var/www/html/wp-content/mu-plugins' );`

// =============================================================================
// Compiler
// =============================================================================

// Build compiles a resolved project into a topology descriptor.
//
// projectDir anchors relative mapping paths: every bind-mount source is made
// absolute before emission so the descriptor stays valid regardless of the
// orchestrator's working directory.
//
// Credential values never appear in the output; every sensitive environment
// entry is a ${KEY} placeholder the orchestrator resolves from the injection
// channel file. Service and dependency ordering is fixed (database, cache,
// proxy, federated auth) so identical input compiles byte-identically.
func Build(p *domain.Project, projectDir string) (*Topology, error) {
	if p.Identity == "" {
		return nil, ErrMissingIdentity
	}

	// The descriptor lives under the state directory, not the project, so a
	// relative mapping source would resolve against the wrong base at run
	// time. Anchor the project directory before touching any mapping.
	projectDir, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("resolve project directory: %w", err)
	}

	t := &Topology{
		Name:     p.Identity,
		Services: make(map[string]Service),
		Networks: map[string]Network{
			networkKey: {Name: domain.NetworkName(p.Identity)},
		},
		Volumes: map[string]Volume{
			dbVolumeKey: {Name: domain.DatabaseVolumeName(p.Identity)},
			buildVolKey: {Name: domain.BuildVolumeName(p.Identity)},
		},
	}

	t.Services[ServiceDB] = buildDatabaseService(p)
	t.Services[ServicePrimary] = buildPrimaryService(p, projectDir)

	if p.Services.Cache {
		t.Services[ServiceCache] = buildCacheService(p)
	}
	if p.Services.Proxy {
		t.Services[ServiceProxy] = buildProxyService()
	}
	if p.Services.FederatedAuth {
		t.Services[ServiceAuth] = buildAuthService()
	}

	return t, nil
}

// buildDatabaseService emits the database service: pinned image, the db_data
// volume at the engine data directory, placeholder credentials, configured
// host port.
func buildDatabaseService(p *domain.Project) Service {
	return Service{
		Image:   DatabaseImage,
		Restart: restartPolicy,
		Ports:   []string{fmt.Sprintf("%d:3306", p.Ports.DB)},
		Environment: map[string]string{
			"MYSQL_DATABASE":      "wordpress",
			"MYSQL_USER":          "${WORDPRESS_DB_USER}",
			"MYSQL_PASSWORD":      "${WORDPRESS_DB_PASSWORD}",
			"MYSQL_ROOT_PASSWORD": "${MYSQL_ROOT_PASSWORD}",
		},
		Volumes:  []string{dbVolumeKey + ":" + dbDataDir},
		Networks: []string{networkKey},
	}
}

// buildPrimaryService emits the application service. Its environment is
// assembled in stages: fixed platform variables, one block per enabled
// optional service, the derived extra-configuration block, then user
// variables. A user variable never overrides a key written by an earlier
// stage (first writer wins).
func buildPrimaryService(p *domain.Project, projectDir string) Service {
	env := map[string]string{
		"WORDPRESS_DB_HOST":     ServiceDB + ":3306",
		"WORDPRESS_DB_NAME":     "wordpress",
		"WORDPRESS_DB_USER":     "${WORDPRESS_DB_USER}",
		"WORDPRESS_DB_PASSWORD": "${WORDPRESS_DB_PASSWORD}",
		"VIRTUAL_HOST":          p.Hostname,
	}

	dependsOn := []string{ServiceDB}

	// Optional blocks in canonical order: cache, proxy, federated auth.
	if p.Services.Cache {
		dependsOn = append(dependsOn, ServiceCache)
		setIfAbsent(env, "WP_REDIS_HOST", ServiceCache)
		setIfAbsent(env, "WP_REDIS_PORT", "6379")
	}
	if p.Services.Proxy {
		dependsOn = append(dependsOn, ServiceProxy)
		setIfAbsent(env, "S3_UPLOADS_ENDPOINT", "http://"+ServiceProxy+":9000")
		setIfAbsent(env, "S3_UPLOADS_KEY", "${S3_ACCESS_KEY_ID}")
		setIfAbsent(env, "S3_UPLOADS_SECRET", "${S3_SECRET_ACCESS_KEY}")
		setIfAbsent(env, "S3_UPLOADS_BUCKET", "${S3_BUCKET}")
		setIfAbsent(env, "S3_UPLOADS_REGION", "${S3_REGION}")
	}
	if p.Services.FederatedAuth {
		dependsOn = append(dependsOn, ServiceAuth)
		setIfAbsent(env, "SAML_ENTITY_ID", "${SAML_ENTITY_ID}")
		setIfAbsent(env, "SAML_IDP_URL", "http://"+ServiceAuth+":8080/simplesaml")
		setIfAbsent(env, "SAML_SP_CERT", "${SAML_SP_CERT}")
		setIfAbsent(env, "SAML_SP_KEY", "${SAML_SP_KEY}")
	}

	setIfAbsent(env, "WORDPRESS_CONFIG_EXTRA", buildConfigExtra(p))

	// User variables last: they fill gaps, never replace platform keys.
	for _, k := range sortedEnvKeys(p.Env) {
		setIfAbsent(env, k, p.Env[k])
	}

	volumes := []string{buildVolKey + ":" + appRoot}
	for _, m := range p.Mappings {
		local := m.Local
		if !filepath.IsAbs(local) {
			local = filepath.Join(projectDir, local)
		}
		volumes = append(volumes, filepath.Clean(local)+":"+m.Container)
	}

	return Service{
		Image:     p.Image,
		Restart:   restartPolicy,
		DependsOn: dependsOn,
		Ports: []string{
			fmt.Sprintf("%d:80", p.Ports.HTTP),
			fmt.Sprintf("%d:443", p.Ports.HTTPS),
		},
		Environment: env,
		Volumes:     volumes,
		Networks:    []string{networkKey},
	}
}

// buildConfigExtra assembles the multi-line extra-configuration block from the
// feature flags. The block always ends with the fixed mu-plugins directive,
// regardless of configuration.
func buildConfigExtra(p *domain.Project) string {
	var lines []string
	if p.Multisite {
		lines = append(lines,
			`define( 'WP_ALLOW_MULTISITE', true );`,
			`define( 'MULTISITE', true );`,
			`define( 'SUBDOMAIN_INSTALL', false );`,
			fmt.Sprintf(`define( 'DOMAIN_CURRENT_SITE', '%s' );`, p.Hostname),
		)
	}
	if p.Services.Proxy {
		lines = append(lines,
			`define( 'S3_UPLOADS_AUTOENABLE', true );`,
			`define( 'S3_UPLOADS_USE_LOCAL_ENDPOINT', true );`,
		)
	}
	lines = append(lines, muPluginDirective)
	return strings.Join(lines, "\n")
}

func buildCacheService(p *domain.Project) Service {
	return Service{
		Image:    CacheImage,
		Restart:  restartPolicy,
		Ports:    []string{fmt.Sprintf("%d:6379", p.Ports.Cache)},
		Networks: []string{networkKey},
	}
}

func buildProxyService() Service {
	return Service{
		Image:   ProxyImage,
		Restart: restartPolicy,
		Command: []string{"server", "/data"},
		Environment: map[string]string{
			"MINIO_ROOT_USER":     "${S3_ACCESS_KEY_ID}",
			"MINIO_ROOT_PASSWORD": "${S3_SECRET_ACCESS_KEY}",
		},
		Networks: []string{networkKey},
	}
}

func buildAuthService() Service {
	return Service{
		Image:   AuthImage,
		Restart: restartPolicy,
		Environment: map[string]string{
			"SIMPLESAMLPHP_SP_ENTITY_ID": "${SAML_ENTITY_ID}",
		},
		Networks: []string{networkKey},
	}
}

// setIfAbsent writes a key only when no earlier stage claimed it.
func setIfAbsent(env map[string]string, key, value string) {
	if _, ok := env[key]; !ok {
		env[key] = value
	}
}

func sortedEnvKeys(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
