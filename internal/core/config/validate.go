package config

import (
	"fmt"

	"github.com/artpar/devstack/internal/core/domain"
)

// =============================================================================
// Validation
// =============================================================================

// PathExistsFunc reports whether a local path exists. The resolver supplies
// an os.Stat-backed probe; tests supply their own.
type PathExistsFunc func(path string) bool

// Validate checks a fully merged project record and returns every field-level
// problem found. It never runs on partial layers, so defaults can satisfy
// required fields. An empty slice means the record is valid.
func Validate(p *domain.Project, pathExists PathExistsFunc) []FieldError {
	var errs []FieldError

	if p.Image == "" {
		errs = append(errs, FieldError{Field: "image", Message: "image reference is required"})
	}
	if p.Hostname == "" {
		errs = append(errs, FieldError{Field: "hostname", Message: "hostname is required"})
	}

	for i, m := range p.Mappings {
		if m.Local == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("mappings[%d].local", i),
				Message: "local path is required",
			})
		} else if pathExists != nil && !pathExists(m.Local) {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("mappings[%d].local", i),
				Message: fmt.Sprintf("local path %q does not exist", m.Local),
			})
		}
		if m.Container == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("mappings[%d].container", i),
				Message: "container path is required",
			})
		}
	}

	errs = append(errs, validatePort("ports.http", p.Ports.HTTP)...)
	errs = append(errs, validatePort("ports.https", p.Ports.HTTPS)...)
	errs = append(errs, validatePort("ports.db", p.Ports.DB)...)
	errs = append(errs, validatePort("ports.cache", p.Ports.Cache)...)

	return errs
}

func validatePort(field string, port int) []FieldError {
	if port < 1 || port > 65535 {
		return []FieldError{{
			Field:   field,
			Message: fmt.Sprintf("port %d is outside [1, 65535]", port),
		}}
	}
	return nil
}
