package config

import (
	"github.com/artpar/devstack/internal/core/domain"
)

// =============================================================================
// Built-in Defaults
// =============================================================================

const (
	// DefaultImage is the primary service image used when the descriptor
	// does not specify one.
	DefaultImage = "wordpress:6.4-php8.2-apache"

	// DefaultHostnameSuffix is appended to the identity to derive a hostname
	// when none is configured.
	DefaultHostnameSuffix = ".local"

	// Default host ports per logical service.
	DefaultHTTPPort  = 8080
	DefaultHTTPSPort = 8443
	DefaultDBPort    = 3306
	DefaultCachePort = 6379
)

// Container paths the default mappings mount into, keyed by project type.
const (
	siteRoot   = "/var/www/html"
	pluginsDir = "/var/www/html/wp-content/plugins"
	themesDir  = "/var/www/html/wp-content/themes"
)

func boolPtr(v bool) *bool    { return &v }
func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

// Defaults returns the built-in base layer for a project. The identity is
// needed up front because the default mapping for plugin and theme projects
// mounts the working directory at an identity-derived container path.
func Defaults(identity string, projectType domain.ProjectType) Layer {
	return Layer{
		Image:     strPtr(DefaultImage),
		Hostname:  strPtr(identity + DefaultHostnameSuffix),
		Multisite: boolPtr(false),
		Services: ServicesLayer{
			Cache:         boolPtr(true),
			Proxy:         boolPtr(false),
			FederatedAuth: boolPtr(false),
		},
		Ports: PortsLayer{
			HTTP:  intPtr(DefaultHTTPPort),
			HTTPS: intPtr(DefaultHTTPSPort),
			DB:    intPtr(DefaultDBPort),
			Cache: intPtr(DefaultCachePort),
		},
		Mappings: []domain.Mapping{defaultMapping(identity, projectType)},
		Env:      map[string]string{},
	}
}

// defaultMapping returns the single default bind mount for a project type.
func defaultMapping(identity string, projectType domain.ProjectType) domain.Mapping {
	switch projectType {
	case domain.ProjectTypePlugin:
		return domain.Mapping{Local: "./", Container: pluginsDir + "/" + identity}
	case domain.ProjectTypeTheme:
		return domain.Mapping{Local: "./", Container: themesDir + "/" + identity}
	default:
		return domain.Mapping{Local: "./", Container: siteRoot}
	}
}
