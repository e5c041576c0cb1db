package vault

// =============================================================================
// Credential Key Registry
// =============================================================================

// Category groups registry keys by function.
type Category string

const (
	CategoryDatabase      Category = "database"
	CategoryFederatedAuth Category = "federated-auth"
	CategoryObjectStorage Category = "object-storage"
	CategoryAnalytics     Category = "analytics"
)

// Key metadata. MultiLine marks keys whose values may contain newlines
// (certificates, private keys, metadata documents); only those are eligible
// for legacy hex decoding on read.
type Key struct {
	Name      string
	Category  Category
	MultiLine bool
}

// Registry is the fixed set of credential keys, in canonical order. Every
// vault, overlay and bulk-import operation is restricted to these names.
var Registry = []Key{
	// Database
	{Name: "WORDPRESS_DB_USER", Category: CategoryDatabase},
	{Name: "WORDPRESS_DB_PASSWORD", Category: CategoryDatabase},
	{Name: "MYSQL_ROOT_PASSWORD", Category: CategoryDatabase},

	// Federated auth (SAML)
	{Name: "SAML_ENTITY_ID", Category: CategoryFederatedAuth},
	{Name: "SAML_SP_CERT", Category: CategoryFederatedAuth, MultiLine: true},
	{Name: "SAML_SP_KEY", Category: CategoryFederatedAuth, MultiLine: true},
	{Name: "SAML_IDP_METADATA", Category: CategoryFederatedAuth, MultiLine: true},

	// Object storage
	{Name: "S3_ACCESS_KEY_ID", Category: CategoryObjectStorage},
	{Name: "S3_SECRET_ACCESS_KEY", Category: CategoryObjectStorage},
	{Name: "S3_BUCKET", Category: CategoryObjectStorage},
	{Name: "S3_REGION", Category: CategoryObjectStorage},
	{Name: "S3_ENDPOINT", Category: CategoryObjectStorage},

	// Analytics
	{Name: "ANALYTICS_SITE_ID", Category: CategoryAnalytics},
	{Name: "ANALYTICS_API_KEY", Category: CategoryAnalytics},
	{Name: "ANALYTICS_SERVICE_ACCOUNT", Category: CategoryAnalytics, MultiLine: true},
}

var registryByName = func() map[string]Key {
	m := make(map[string]Key, len(Registry))
	for _, k := range Registry {
		m[k.Name] = k
	}
	return m
}()

// IsRegistered reports whether name is a registry key.
func IsRegistered(name string) bool {
	_, ok := registryByName[name]
	return ok
}

// Lookup returns the registry entry for name.
func Lookup(name string) (Key, bool) {
	k, ok := registryByName[name]
	return k, ok
}

// KeysInCategory returns the registry keys of one category, in canonical order.
func KeysInCategory(c Category) []string {
	var names []string
	for _, k := range Registry {
		if k.Category == c {
			names = append(names, k.Name)
		}
	}
	return names
}

// KeyNames returns every registry key name in canonical order.
func KeyNames() []string {
	names := make([]string, len(Registry))
	for i, k := range Registry {
		names[i] = k.Name
	}
	return names
}
