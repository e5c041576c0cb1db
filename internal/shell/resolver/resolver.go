// Package resolver loads project configuration from disk and drives the pure
// merge and validation logic in internal/core/config. This is part of the
// Imperative Shell - all descriptor and overlay file I/O happens here.
package resolver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/artpar/devstack/internal/core/config"
	"github.com/artpar/devstack/internal/core/domain"
	"github.com/joho/godotenv"
)

const (
	// DescriptorFilename is the project descriptor file, looked up in the
	// project directory. Its absence is not an error; defaults apply.
	DescriptorFilename = "devstack.json"

	// OverlayFilename is the local secrets overlay, the highest-precedence
	// configuration layer. key=value lines, quoted values may span lines.
	OverlayFilename = ".devstack.env"

	// overlayConfigPrefix marks overlay keys that override configuration
	// fields rather than supply credentials.
	overlayConfigPrefix = "DEVSTACK_"
)

// Options tune resolution for one invocation.
type Options struct {
	// Type selects the default mapping for projects without a descriptor.
	Type domain.ProjectType
}

// Resolve builds the fully merged and validated project configuration for a
// project directory.
//
// Layer precedence is overlay > descriptor file > built-in defaults. The
// identity comes from the overlay or descriptor when supplied, otherwise from
// the final path segment of the project directory, and is sanitized
// unconditionally whatever its source.
func Resolve(projectPath string, opts Options) (*domain.Project, error) {
	if opts.Type == "" {
		opts.Type = domain.ProjectTypeSite
	}

	fileLayer, err := loadDescriptor(filepath.Join(projectPath, DescriptorFilename))
	if err != nil {
		return nil, err
	}

	overlay, err := LoadOverlay(projectPath)
	if err != nil {
		return nil, err
	}
	overlayLayer, err := overlayToLayer(overlay)
	if err != nil {
		return nil, err
	}

	identity := domain.SanitizeIdentity(identitySource(projectPath, fileLayer, overlayLayer))
	if identity == "" {
		return nil, config.ErrEmptyIdentity
	}

	merged := config.Merge(config.Merge(config.Defaults(identity, opts.Type), fileLayer), overlayLayer)
	project := config.Materialize(identity, merged)

	exists := func(path string) bool {
		if !filepath.IsAbs(path) {
			path = filepath.Join(projectPath, path)
		}
		_, statErr := os.Stat(path)
		return statErr == nil
	}
	if fieldErrs := config.Validate(project, exists); len(fieldErrs) > 0 {
		return nil, &config.ValidationError{Fields: fieldErrs}
	}

	return project, nil
}

// identitySource picks the raw identity before sanitization.
func identitySource(projectPath string, fileLayer, overlayLayer config.Layer) string {
	if overlayLayer.ProjectName != nil {
		return *overlayLayer.ProjectName
	}
	if fileLayer.ProjectName != nil {
		return *fileLayer.ProjectName
	}
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		abs = projectPath
	}
	return filepath.Base(abs)
}

// loadDescriptor reads and parses the project descriptor file. A missing file
// yields an empty layer.
func loadDescriptor(path string) (config.Layer, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Layer{}, nil
	}
	if err != nil {
		return config.Layer{}, &config.IOError{Path: path, Err: err}
	}

	var layer config.Layer
	if err := yaml.Unmarshal(data, &layer); err != nil {
		return config.Layer{}, config.NewParseError(path, err.Error(), err)
	}
	return layer, nil
}

// LoadOverlay reads the local secrets overlay for a project directory. It is
// also consulted, independently of the merge, when checking that required
// credentials are available before invoking the orchestrator. A missing file
// yields an empty map.
func LoadOverlay(projectPath string) (map[string]string, error) {
	path := filepath.Join(projectPath, OverlayFilename)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, &config.IOError{Path: path, Err: err}
	}

	pairs, err := godotenv.UnmarshalBytes(data)
	if err != nil {
		return nil, config.NewParseError(path, err.Error(), err)
	}
	return pairs, nil
}

// overlayToLayer maps DEVSTACK_-prefixed overlay keys onto a configuration
// layer. All other overlay keys are credentials and do not participate in the
// merge.
func overlayToLayer(pairs map[string]string) (config.Layer, error) {
	var layer config.Layer
	for key, value := range pairs {
		var err error
		switch key {
		case "DEVSTACK_PROJECT_NAME":
			layer.ProjectName = &value
		case "DEVSTACK_IMAGE":
			layer.Image = &value
		case "DEVSTACK_HOSTNAME":
			layer.Hostname = &value
		case "DEVSTACK_MULTISITE":
			layer.Multisite, err = parseBool(key, value)
		case "DEVSTACK_SERVICE_CACHE":
			layer.Services.Cache, err = parseBool(key, value)
		case "DEVSTACK_SERVICE_PROXY":
			layer.Services.Proxy, err = parseBool(key, value)
		case "DEVSTACK_SERVICE_FEDERATED_AUTH":
			layer.Services.FederatedAuth, err = parseBool(key, value)
		case "DEVSTACK_PORT_HTTP":
			layer.Ports.HTTP, err = parseInt(key, value)
		case "DEVSTACK_PORT_HTTPS":
			layer.Ports.HTTPS, err = parseInt(key, value)
		case "DEVSTACK_PORT_DB":
			layer.Ports.DB, err = parseInt(key, value)
		case "DEVSTACK_PORT_CACHE":
			layer.Ports.Cache, err = parseInt(key, value)
		}
		if err != nil {
			return config.Layer{}, err
		}
	}
	return layer, nil
}

func parseBool(key, value string) (*bool, error) {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return nil, config.NewParseError(OverlayFilename, fmt.Sprintf("%s: %q is not a boolean", key, value), err)
	}
	return &v, nil
}

func parseInt(key, value string) (*int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return nil, config.NewParseError(OverlayFilename, fmt.Sprintf("%s: %q is not an integer", key, value), err)
	}
	return &v, nil
}

// Credentials filters an overlay down to registry credential keys: anything
// without the DEVSTACK_ configuration prefix.
func Credentials(pairs map[string]string) map[string]string {
	creds := make(map[string]string)
	for k, v := range pairs {
		if !strings.HasPrefix(k, overlayConfigPrefix) {
			creds[k] = v
		}
	}
	return creds
}
