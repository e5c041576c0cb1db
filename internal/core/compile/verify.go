package compile

import (
	"context"
	"fmt"

	"github.com/compose-spec/compose-go/v2/loader"
	"github.com/compose-spec/compose-go/v2/types"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Descriptor Verification
// =============================================================================

// Verify round-trips an encoded descriptor through the compose loader. A
// descriptor that the orchestrator could reject is never written to disk.
//
// Interpolation is skipped so ${KEY} credential placeholders survive; they are
// resolved by the orchestrator from the injection channel file, not here.
func Verify(data []byte) error {
	var dict map[string]interface{}
	if err := yaml.Unmarshal(data, &dict); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}
	if dict == nil {
		return ErrInvalidDescriptor
	}

	project, err := loader.LoadWithContext(context.Background(), types.ConfigDetails{
		ConfigFiles: []types.ConfigFile{
			{
				Content: data,
				Config:  dict,
			},
		},
	}, func(opts *loader.Options) {
		opts.SetProjectName("devstack-verify", false)
		opts.SkipValidation = false
		opts.SkipInterpolation = true
		opts.SkipNormalization = true
		opts.SkipExtends = true
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}
	if len(project.Services) == 0 {
		return fmt.Errorf("%w: no services", ErrInvalidDescriptor)
	}
	return nil
}
