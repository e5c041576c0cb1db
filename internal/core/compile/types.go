// Package compile transforms a resolved project into a container topology
// descriptor. This is part of the Functional Core - building and encoding a
// topology are pure; writing it to disk lives in the state shell.
package compile

// =============================================================================
// Topology Descriptor Types
// =============================================================================

// Topology is the compiled output handed to the orchestrator: services, one
// shared network and the named volumes, all parameterized by the project
// identity. Pure data with no owned resources; superseded on the next run.
type Topology struct {
	// Name is the orchestrator project name. Combined with the explicit
	// resource names below, it keeps the orchestrator from applying its own
	// prefix a second time.
	Name     string             `yaml:"name"`
	Services map[string]Service `yaml:"services"`
	Networks map[string]Network `yaml:"networks"`
	Volumes  map[string]Volume  `yaml:"volumes"`
}

// Service is one service specification.
type Service struct {
	Image       string            `yaml:"image"`
	Restart     string            `yaml:"restart"`
	Command     []string          `yaml:"command,omitempty"`
	DependsOn   []string          `yaml:"depends_on,omitempty"`
	Ports       []string          `yaml:"ports,omitempty"`
	Environment map[string]string `yaml:"environment,omitempty"`
	Volumes     []string          `yaml:"volumes,omitempty"`
	Networks    []string          `yaml:"networks"`
}

// Network declares the shared project network with its authoritative name.
type Network struct {
	Name string `yaml:"name"`
}

// Volume declares a named volume with its authoritative name.
type Volume struct {
	Name string `yaml:"name"`
}
