package config

import "github.com/artpar/devstack/internal/core/domain"

// =============================================================================
// Layer Merging
// =============================================================================

// Merge folds an override layer over a base layer and returns the result.
//
// The rules, applied field by field:
//   - A set scalar in the override replaces the base value wholesale.
//   - Nested sections (services, ports) recurse with the same rules.
//   - The mappings list is replaced wholesale when the override sets it,
//     never concatenated.
//   - The env map merges key-wise, override keys winning.
//
// Neither input is mutated.
func Merge(base, override Layer) Layer {
	out := Layer{
		ProjectName: pick(base.ProjectName, override.ProjectName),
		Image:       pick(base.Image, override.Image),
		Hostname:    pick(base.Hostname, override.Hostname),
		Multisite:   pick(base.Multisite, override.Multisite),
		Services: ServicesLayer{
			Cache:         pick(base.Services.Cache, override.Services.Cache),
			Proxy:         pick(base.Services.Proxy, override.Services.Proxy),
			FederatedAuth: pick(base.Services.FederatedAuth, override.Services.FederatedAuth),
		},
		Ports: PortsLayer{
			HTTP:  pick(base.Ports.HTTP, override.Ports.HTTP),
			HTTPS: pick(base.Ports.HTTPS, override.Ports.HTTPS),
			DB:    pick(base.Ports.DB, override.Ports.DB),
			Cache: pick(base.Ports.Cache, override.Ports.Cache),
		},
	}

	// Arrays are replaced, not concatenated.
	if override.Mappings != nil {
		out.Mappings = append([]domain.Mapping(nil), override.Mappings...)
	} else {
		out.Mappings = append([]domain.Mapping(nil), base.Mappings...)
	}

	out.Env = make(map[string]string, len(base.Env)+len(override.Env))
	for k, v := range base.Env {
		out.Env[k] = v
	}
	for k, v := range override.Env {
		out.Env[k] = v
	}

	return out
}

// pick returns override when set, base otherwise.
func pick[T any](base, override *T) *T {
	if override != nil {
		return override
	}
	return base
}

// Materialize flattens a fully merged layer into a resolved Project. The
// identity is provided separately because it is derived and sanitized by the
// resolver, not merged like ordinary fields.
func Materialize(identity string, merged Layer) *domain.Project {
	p := &domain.Project{
		Identity: identity,
		Mappings: append([]domain.Mapping(nil), merged.Mappings...),
		Env:      make(map[string]string, len(merged.Env)),
	}
	if merged.Image != nil {
		p.Image = *merged.Image
	}
	if merged.Hostname != nil {
		p.Hostname = *merged.Hostname
	}
	if merged.Multisite != nil {
		p.Multisite = *merged.Multisite
	}
	if merged.Services.Cache != nil {
		p.Services.Cache = *merged.Services.Cache
	}
	if merged.Services.Proxy != nil {
		p.Services.Proxy = *merged.Services.Proxy
	}
	if merged.Services.FederatedAuth != nil {
		p.Services.FederatedAuth = *merged.Services.FederatedAuth
	}
	if merged.Ports.HTTP != nil {
		p.Ports.HTTP = *merged.Ports.HTTP
	}
	if merged.Ports.HTTPS != nil {
		p.Ports.HTTPS = *merged.Ports.HTTPS
	}
	if merged.Ports.DB != nil {
		p.Ports.DB = *merged.Ports.DB
	}
	if merged.Ports.Cache != nil {
		p.Ports.Cache = *merged.Ports.Cache
	}
	for k, v := range merged.Env {
		p.Env[k] = v
	}
	return p
}
