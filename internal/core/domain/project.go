package domain

// =============================================================================
// Resolved Project Configuration
// =============================================================================

// Project is a fully resolved project configuration: defaults, descriptor file
// and runtime overlay merged, identity sanitized, validation passed. It is
// rebuilt on every invocation and never persisted.
type Project struct {
	// Identity is the sanitized project identity. It drives every derived
	// resource name and matches [a-z0-9_-]+ with no leading/trailing hyphen.
	Identity string `json:"identity"`

	// Image is the container image reference for the primary service.
	Image string `json:"image"`

	// Hostname is the externally visible hostname of the environment.
	Hostname string `json:"hostname"`

	// Multisite enables the multisite configuration block.
	Multisite bool `json:"multisite"`

	// Services holds the optional service toggles.
	Services ServiceToggles `json:"services"`

	// Ports maps logical services to host ports.
	Ports PortMap `json:"ports"`

	// Mappings is the ordered list of bind mounts for the primary service.
	Mappings []Mapping `json:"mappings,omitempty"`

	// Env holds user-supplied environment variables for the primary service.
	// A user variable never overrides a platform-reserved key.
	Env map[string]string `json:"env,omitempty"`
}

// ServiceToggles enables or disables the optional services.
type ServiceToggles struct {
	Cache         bool `json:"cache"`
	Proxy         bool `json:"proxy"`
	FederatedAuth bool `json:"federatedAuth"`
}

// PortMap assigns one host port per logical service.
type PortMap struct {
	HTTP  int `json:"http"`
	HTTPS int `json:"https"`
	DB    int `json:"db"`
	Cache int `json:"cache"`
}

// Mapping is one bind mount: a local path mounted at a container path.
type Mapping struct {
	Local     string `json:"local"`
	Container string `json:"container"`
}

// ProjectType selects the default mapping for a new project.
type ProjectType string

const (
	ProjectTypeSite   ProjectType = "site"
	ProjectTypePlugin ProjectType = "plugin"
	ProjectTypeTheme  ProjectType = "theme"
)
