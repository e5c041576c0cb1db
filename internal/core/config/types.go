package config

import "github.com/artpar/devstack/internal/core/domain"

// =============================================================================
// Configuration Layers
// =============================================================================

// Layer is one configuration source: built-in defaults, the project descriptor
// file, or the runtime overlay. Scalar fields are pointers so an unset field
// is distinguishable from a zero value; Merge folds layers over each other
// with override precedence.
//
// The descriptor file unmarshals directly into this type. YAML is a superset
// of JSON, so both descriptor flavors parse through the same tags.
type Layer struct {
	ProjectName *string           `yaml:"projectName"`
	Image       *string           `yaml:"image"`
	Hostname    *string           `yaml:"hostname"`
	Multisite   *bool             `yaml:"multisite"`
	Services    ServicesLayer     `yaml:"services"`
	Ports       PortsLayer        `yaml:"ports"`
	Mappings    []domain.Mapping  `yaml:"mappings"`
	Env         map[string]string `yaml:"env"`
}

// ServicesLayer holds optional service toggles for one layer.
type ServicesLayer struct {
	Cache         *bool `yaml:"cache"`
	Proxy         *bool `yaml:"proxy"`
	FederatedAuth *bool `yaml:"federatedAuth"`
}

// PortsLayer holds per-service host ports for one layer.
type PortsLayer struct {
	HTTP  *int `yaml:"http"`
	HTTPS *int `yaml:"https"`
	DB    *int `yaml:"db"`
	Cache *int `yaml:"cache"`
}
